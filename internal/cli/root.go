// Package cli wires the go_youtube commands: search, transcript and serve.
package cli

import (
	"context"
	"os"
	"time"

	"github.com/anatolykoptev/go_youtube/internal/engine"
	"github.com/anatolykoptev/go_youtube/internal/engine/sources"
	"github.com/spf13/cobra"
)

// Deps are the collaborators the commands call out to.
type Deps struct {
	Transcripts sources.TranscriptFetcher
	Version     string
}

type rootFlags struct {
	timeout time.Duration
}

// NewRootCmd builds the command tree. Zero Deps fields get production defaults.
func NewRootCmd(deps Deps) *cobra.Command {
	if deps.Transcripts == nil {
		deps.Transcripts = sources.YouTubeTranscripts{}
	}
	if deps.Version == "" {
		deps.Version = "dev"
	}

	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "go_youtube",
		Short:         "Scrape YouTube search results and caption transcripts",
		Version:       deps.Version,
		SilenceUsage:  true, // don't print usage on operational errors
		SilenceErrors: true, // Execute prints a single diagnostic line
		Long: `go_youtube reads YouTube's public web pages:

  search <query>     print the first page of video results as JSON
  transcript <url>   print the caption transcript of a video as one line
  serve              expose both as MCP tools over HTTP`,
	}
	root.PersistentFlags().DurationVar(&flags.timeout, "timeout", 0, "Overall deadline (default: FETCH_TIMEOUT)")

	root.AddCommand(
		newSearchCmd(flags),
		newTranscriptCmd(flags, deps.Transcripts),
		newServeCmd(deps),
	)
	return root
}

// commandContext applies the --timeout flag, falling back to engine.Cfg.FetchTimeout.
func (f *rootFlags) commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	timeout := f.timeout
	if timeout <= 0 {
		timeout = engine.Cfg.FetchTimeout
	}
	return context.WithTimeout(cmd.Context(), timeout)
}

// Execute is called by main.go.
func Execute(deps Deps) {
	if err := NewRootCmd(deps).ExecuteContext(context.Background()); err != nil {
		printErr(os.Stderr, err.Error())
		os.Exit(1)
	}
}
