package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/singleflight"

	"yasmcp/internal/adjust"
	"yasmcp/internal/config"
	"yasmcp/internal/dispatch"
	"yasmcp/internal/metrics"
	"yasmcp/internal/registry"
	"yasmcp/internal/server"
	"yasmcp/internal/spec"
	"yasmcp/pkg/logging"
)

// ErrUnknownTool is returned by ExecuteDirect for a name the registry does
// not contain.
var ErrUnknownTool = errors.New("unknown tool")

// ErrNoBaseURL is returned when neither the configuration nor the API
// document supplies an absolute upstream URL.
var ErrNoBaseURL = errors.New("no endpoint configured")

// Services holds the components of a serve run.
type Services struct {
	Settings   config.Config
	Holder     *registry.Holder
	Dispatcher *dispatch.Dispatcher
	// Metrics is nil when metrics are disabled.
	Metrics *metrics.Collector
	Server  *server.ToolServer

	reloads singleflight.Group
}

// InitializeServices loads the documents, builds the first registry
// snapshot and wires the dispatcher and tool server around it.
func InitializeServices(settings config.Config) (*Services, error) {
	doc, snap, err := LoadSnapshot(settings.Spec.File, settings.Spec.AdjustmentsFile)
	if err != nil {
		return nil, err
	}

	var collector *metrics.Collector
	if settings.Metrics.Enabled {
		collector = metrics.New(nil)
	}
	collector.RecordBuild(snap)

	dispatcher, err := NewDispatcher(settings, collector)
	if err != nil {
		return nil, err
	}

	baseURL := ResolveBaseURL(settings.Endpoint.BaseURL, doc)
	if baseURL == "" {
		return nil, fmt.Errorf("%w and %s declares no absolute server URL", ErrNoBaseURL, settings.Spec.File)
	}

	holder := registry.NewHolder(snap)
	srv := server.New(holder, dispatcher, server.Options{
		Name:              settings.Server.Name,
		Version:           settings.Server.Version,
		ValidateArguments: settings.Server.ValidateArguments,
		Metrics:           collector,
	})
	srv.Sync(baseURL)

	return &Services{
		Settings:   settings,
		Holder:     holder,
		Dispatcher: dispatcher,
		Metrics:    collector,
		Server:     srv,
	}, nil
}

// LoadSnapshot parses the API document and adjustments files and builds a registry
// snapshot from them.
func LoadSnapshot(specFile, adjustmentsFile string) (*spec.Document, *registry.Snapshot, error) {
	doc, err := spec.LoadFile(specFile)
	if err != nil {
		return nil, nil, err
	}
	adjustments, err := adjust.LoadFile(adjustmentsFile)
	if err != nil {
		return nil, nil, err
	}
	snap := registry.Build(doc, adjustments)
	logging.Info("Bootstrap", "Built %d tools from %s", snap.Len(), specFile)
	return doc, snap, nil
}

// Reload rebuilds the registry from disk and publishes it. A failed load
// keeps the active snapshot. Concurrent calls share one rebuild.
func (s *Services) Reload() error {
	_, err, _ := s.reloads.Do("reload", func() (interface{}, error) {
		doc, snap, err := LoadSnapshot(s.Settings.Spec.File, s.Settings.Spec.AdjustmentsFile)
		s.Metrics.RecordReload(err)
		if err != nil {
			logging.Error("Watch", err, "Reload failed, keeping %d active tools", s.Holder.Load().Len())
			return nil, err
		}

		previous := s.Holder.Store(snap)
		s.Metrics.RecordBuild(snap)
		baseURL := ResolveBaseURL(s.Settings.Endpoint.BaseURL, doc)
		if baseURL == "" {
			logging.Warn("Watch", "%s declares no absolute server URL, tool calls will fail until one is configured", s.Settings.Spec.File)
		}
		s.Server.Sync(baseURL)
		logging.Info("Watch", "Reloaded tools: %d -> %d", previous.Len(), snap.Len())
		return nil, nil
	})
	return err
}

// NewDispatcher maps the endpoint settings onto a dispatcher. Header values
// are rendered as templates once here.
func NewDispatcher(settings config.Config, observer *metrics.Collector) (*dispatch.Dispatcher, error) {
	headers, err := dispatch.RenderHeaders(settings.Endpoint.Headers)
	if err != nil {
		return nil, err
	}

	ep := settings.Endpoint
	opts := dispatch.Options{
		Timeout:          ep.Timeout,
		MaxResponseBytes: ep.MaxResponseBytes,
		Headers:          headers,
		Auth: dispatch.Auth{
			Type:       dispatch.AuthType(ep.Auth.Type),
			Token:      ep.Auth.Token,
			Username:   ep.Auth.Username,
			Password:   ep.Auth.Password,
			HeaderName: ep.Auth.HeaderName,
			Value:      ep.Auth.Value,
		},
		UserAgent:         fmt.Sprintf("%s/%s", settings.Server.Name, settings.Server.Version),
		RequestsPerSecond: ep.RateLimit.RequestsPerSecond,
		Burst:             ep.RateLimit.Burst,
	}
	if observer != nil {
		opts.Observer = observer
	}
	return dispatch.New(opts), nil
}

// ResolveBaseURL prefers the configured URL and falls back to the first
// absolute server URL of the document.
func ResolveBaseURL(configured string, doc *spec.Document) string {
	if configured != "" {
		return configured
	}
	if doc != nil {
		for _, s := range doc.Servers {
			if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
				return s
			}
		}
	}
	return ""
}

// ExecuteDirect dispatches one tool without starting a transport.
func ExecuteDirect(ctx context.Context, settings config.Config, tool string, args map[string]interface{}) (*dispatch.HTTPResponse, error) {
	doc, snap, err := LoadSnapshot(settings.Spec.File, settings.Spec.AdjustmentsFile)
	if err != nil {
		return nil, err
	}
	entry, ok := snap.Lookup(tool)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, tool)
	}

	baseURL := ResolveBaseURL(settings.Endpoint.BaseURL, doc)
	if baseURL == "" {
		return nil, fmt.Errorf("%w and %s declares no absolute server URL", ErrNoBaseURL, settings.Spec.File)
	}

	dispatcher, err := NewDispatcher(settings, nil)
	if err != nil {
		return nil, err
	}
	if args == nil {
		args = map[string]interface{}{}
	}
	return dispatcher.Execute(ctx, entry.Route, baseURL, args)
}
