package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"yasmcp/pkg/logging"
)

// Transport modes.
const (
	ModeStdio = "stdio"
	ModeSSE   = "sse"
	ModeHTTP  = "http"
)

// TransportOptions configures Serve.
type TransportOptions struct {
	Mode            string
	Host            string
	Port            int
	ShutdownTimeout time.Duration
	// MetricsPath is served by MetricsHandler when both are set.
	MetricsPath    string
	MetricsHandler http.Handler
}

// Serve runs the selected transport until ctx is cancelled.
func (s *ToolServer) Serve(ctx context.Context, opts TransportOptions) error {
	switch opts.Mode {
	case "", ModeStdio:
		return s.serveStdio(ctx)
	case ModeSSE, ModeHTTP:
		return s.serveHTTP(ctx, opts)
	default:
		return fmt.Errorf("unsupported transport mode %q", opts.Mode)
	}
}

func (s *ToolServer) serveStdio(ctx context.Context) error {
	stdio := mcpserver.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(log.New(os.Stderr, "", log.LstdFlags))

	logging.Info("Server", "Serving MCP on stdio")
	err := stdio.Listen(ctx, os.Stdin, os.Stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio transport: %w", err)
	}
	return nil
}

// Handler builds the HTTP surface for the sse and http modes.
func (s *ToolServer) Handler(opts TransportOptions) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	if opts.MetricsHandler != nil && opts.MetricsPath != "" {
		mux.Handle(opts.MetricsPath, opts.MetricsHandler)
	}

	switch opts.Mode {
	case ModeSSE:
		sse := mcpserver.NewSSEServer(
			s.mcpServer,
			mcpserver.WithBaseURL(fmt.Sprintf("http://%s", net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port)))),
			mcpserver.WithSSEEndpoint("/sse"),
			mcpserver.WithMessageEndpoint("/message"),
			mcpserver.WithKeepAlive(true),
		)
		mux.Handle("/sse", sse.SSEHandler())
		mux.Handle("/message", sse.MessageHandler())
	default:
		mux.Handle("/mcp", mcpserver.NewStreamableHTTPServer(s.mcpServer, mcpserver.WithEndpointPath("/mcp")))
	}
	return mux
}

func (s *ToolServer) serveHTTP(ctx context.Context, opts TransportOptions) error {
	addr := net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port))
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("Server", "Serving MCP (%s) on http://%s", opts.Mode, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("%s transport: %w", opts.Mode, err)
		}
		return nil
	case <-ctx.Done():
	}

	timeout := opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Warn("Server", "Graceful shutdown incomplete: %v", err)
		_ = srv.Close()
	}
	logging.Info("Server", "Stopped %s transport", opts.Mode)
	return nil
}
