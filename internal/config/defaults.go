package config

import "time"

const (
	DefaultName             = "yas-mcp"
	DefaultHost             = "127.0.0.1"
	DefaultPort             = 3000
	DefaultShutdownTimeout  = 5 * time.Second
	DefaultTimeout          = 30 * time.Second
	DefaultMaxResponseBytes = 50 << 20
	DefaultDebounce         = 500 * time.Millisecond
	DefaultMetricsPath      = "/metrics"
)

// Default returns the configuration used when no file overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Name:            DefaultName,
			Mode:            ModeStdio,
			Host:            DefaultHost,
			Port:            DefaultPort,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Endpoint: EndpointConfig{
			Timeout:          DefaultTimeout,
			MaxResponseBytes: DefaultMaxResponseBytes,
			Auth:             AuthConfig{Type: AuthNone},
			RateLimit:        RateLimitConfig{Burst: 1},
		},
		Spec: SpecConfig{
			Debounce: DefaultDebounce,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    DefaultMetricsPath,
		},
	}
}
