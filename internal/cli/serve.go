package cli

import (
	"log/slog"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/anatolykoptev/go_youtube/internal/engine"
	"github.com/anatolykoptev/go_youtube/internal/ytserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

func newServeCmd(deps Deps) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server exposing youtube_search and youtube_transcript",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			slog.Info("starting go_youtube", slog.String("port", port))

			server := mcp.NewServer(&mcp.Implementation{
				Name:    "go_youtube",
				Version: deps.Version,
			}, nil)

			ytserver.RegisterTools(server, deps.Transcripts)
			slog.Info("tools registered", slog.Int("count", 2))

			return mcpserver.Run(server, mcpserver.Config{
				Name:         "go_youtube",
				Version:      deps.Version,
				Port:         port,
				WriteTimeout: engine.Cfg.FetchTimeout + 30*time.Second,
				Metrics:      engine.FormatMetrics,
			})
		},
	}
	cmd.Flags().StringVar(&port, "port", env.Str("MCP_PORT", "8893"), "HTTP port for the MCP server")
	return cmd
}
