package cli

import (
	"context"
	"strings"

	"github.com/anatolykoptev/go_youtube/internal/engine"
	"github.com/anatolykoptev/go_youtube/internal/engine/sources"
	"github.com/spf13/cobra"
)

func newSearchCmd(flags *rootFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Print YouTube search results as a JSON array of {title, url, description}",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			ctx, cancel := flags.commandContext(cmd)
			defer cancel()

			var (
				results []engine.SearchResult
				found   bool
			)
			err := engine.TrackOperation(ctx, "youtube_search", func(ctx context.Context) error {
				var err error
				results, found, err = sources.SearchYouTube(ctx, query, limit)
				return err
			})
			if err != nil {
				return err
			}
			if !found {
				// No readable data block: print nothing rather than "[]".
				printWarn(cmd.ErrOrStderr(), "no search data found on the results page")
				return nil
			}
			return printJSON(cmd.OutOrStdout(), results)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Max results to print (0 = all on the first page)")
	return cmd
}
