package cli

import (
	"context"
	"fmt"

	"github.com/anatolykoptev/go_youtube/internal/engine"
	"github.com/anatolykoptev/go_youtube/internal/engine/sources"
	"github.com/spf13/cobra"
)

func newTranscriptCmd(flags *rootFlags, fetcher sources.TranscriptFetcher) *cobra.Command {
	var langs []string

	cmd := &cobra.Command{
		Use:   "transcript <url>",
		Short: "Print a video's caption transcript as a single line of text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoID, err := sources.ExtractVideoID(args[0])
			if err != nil {
				return err
			}

			f := fetcher
			if yt, ok := f.(sources.YouTubeTranscripts); ok && len(langs) > 0 {
				yt.Langs = langs
				f = yt
			}

			ctx, cancel := flags.commandContext(cmd)
			defer cancel()

			var segs []engine.TranscriptSegment
			err = engine.TrackOperation(ctx, "youtube_transcript", func(ctx context.Context) error {
				var err error
				segs, err = f.FetchTranscript(ctx, videoID)
				return err
			})
			if err != nil {
				return fmt.Errorf("transcript for %s: %w", videoID, err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), sources.JoinSegments(segs))
			return err
		},
	}
	cmd.Flags().StringSliceVar(&langs, "lang", nil, "Preferred caption languages (default: YT_TRANSCRIPT_LANGS)")
	return cmd
}
