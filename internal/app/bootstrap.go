package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"yasmcp/internal/server"
	"yasmcp/internal/watch"
	"yasmcp/pkg/logging"
)

// Application bootstraps and runs the tool server.
//
// Initialization happens in two phases:
//  1. Bootstrap: resolve settings, initialize logging, build the registry
//  2. Execution: serve the selected transport, optionally watching the files
//
// Example usage:
//
//	cfg := app.NewConfig(false, "", app.Overrides{SpecFile: "openapi.yaml"})
//	application, err := app.NewApplication(cfg)
//	if err != nil {
//	    return fmt.Errorf("failed to create application: %w", err)
//	}
//	return application.Run(ctx)
type Application struct {
	config   *Config
	services *Services
}

// NewApplication resolves the configuration and initializes all services.
// Parse and configuration errors are returned unwrapped so callers can
// classify them.
func NewApplication(cfg *Config) (*Application, error) {
	bootLevel := logging.LevelInfo
	if cfg.Debug {
		bootLevel = logging.LevelDebug
	}
	logging.InitForCLI(bootLevel, os.Stderr)

	settings, err := ResolveSettings(cfg)
	if err != nil {
		logging.Error("Bootstrap", err, "Invalid configuration")
		return nil, err
	}
	initLogging(settings)

	services, err := InitializeServices(settings)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, err
	}

	return &Application{
		config:   cfg,
		services: services,
	}, nil
}

// Services returns the initialized services.
func (a *Application) Services() *Services {
	return a.services
}

// Run serves until ctx is cancelled, SIGINT or SIGTERM arrives, or the
// transport stops on its own.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return runServe(ctx, a.services)
}

func runServe(ctx context.Context, services *Services) error {
	settings := services.Settings
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := server.TransportOptions{
		Mode:            settings.Server.Mode,
		Host:            settings.Server.Host,
		Port:            settings.Server.Port,
		ShutdownTimeout: settings.Server.ShutdownTimeout,
	}
	if services.Metrics != nil {
		opts.MetricsPath = settings.Metrics.Path
		opts.MetricsHandler = services.Metrics.Handler()
	}

	var watcher *watch.Watcher
	if settings.Spec.Watch {
		var err error
		watcher, err = watch.New([]string{settings.Spec.File, settings.Spec.AdjustmentsFile}, settings.Spec.Debounce)
		if err != nil {
			return fmt.Errorf("failed to start watcher: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Stopping the transport ends the run.
		defer cancel()
		return services.Server.Serve(gctx, opts)
	})
	if watcher != nil {
		g.Go(func() error {
			return watcher.Run(gctx, func(change watch.Change) {
				logging.Info("Watch", "Detected %s on %v", change.Operation, change.Paths)
				_ = services.Reload()
			})
		})
	}

	logging.Info("Bootstrap", "Serving %d tools in %s mode", services.Holder.Load().Len(), settings.Server.Mode)
	return g.Wait()
}
