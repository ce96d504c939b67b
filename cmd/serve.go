package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"yasmcp/internal/app"
)

var (
	serveMode     string
	serveHost     string
	servePort     int
	serveEndpoint string
	serveWatch    bool
)

// serveCmd starts the MCP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the API operations as MCP tools",
	Long: `Loads the API document, builds the tool set and serves it over MCP.

Transports:
  stdio  protocol on stdin/stdout, logs on stderr (default)
  sse    Server-Sent Events on /sse and /message
  http   streamable HTTP on /mcp

The sse and http transports also answer /health and, when metrics are
enabled, /metrics.

With --watch the document and adjustments files are reloaded on change. A
document that fails to parse leaves the previous tool set active.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

// runServe is the main entry point for the serve command
func runServe(cmd *cobra.Command, args []string) error {
	cfg := newAppConfig(app.Overrides{
		Mode:    serveMode,
		Host:    serveHost,
		Port:    servePort,
		BaseURL: serveEndpoint,
		Watch:   serveWatch,
	})

	application, err := app.NewApplication(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return application.Run(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveMode, "mode", "", "Transport: stdio, sse or http (default stdio)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Bind host for sse/http (default 127.0.0.1)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Bind port for sse/http (default 3000)")
	serveCmd.Flags().StringVar(&serveEndpoint, "endpoint", "", "Base URL of the API the tools call")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload the tool set when the input files change")
}
