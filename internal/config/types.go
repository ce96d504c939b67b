package config

import "time"

// Config is the top-level configuration structure for yas-mcp.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Endpoint EndpointConfig `yaml:"endpoint"`
	Spec     SpecConfig     `yaml:"spec"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

const (
	// ModeStdio serves the tool protocol over standard input and output.
	ModeStdio = "stdio"
	// ModeSSE is the Server-Sent Events transport.
	ModeSSE = "sse"
	// ModeHTTP is the streamable HTTP transport.
	ModeHTTP = "http"
)

// ServerConfig defines how the tool server is exposed.
type ServerConfig struct {
	Name              string        `yaml:"name,omitempty"`
	Version           string        `yaml:"version,omitempty"`
	Mode              string        `yaml:"mode,omitempty"`            // stdio, sse or http (default: stdio)
	Host              string        `yaml:"host,omitempty"`            // Host to bind to (default: 127.0.0.1)
	Port              int           `yaml:"port,omitempty"`            // Port for sse/http modes (default: 3000)
	ShutdownTimeout   time.Duration `yaml:"shutdownTimeout,omitempty"` // Grace period for in-flight requests
	ValidateArguments bool          `yaml:"validateArguments,omitempty"`
}

// LoggingConfig controls log verbosity and encoding.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, error
	Format string `yaml:"format,omitempty"` // text or json
}

// EndpointConfig describes the backend the tools call.
type EndpointConfig struct {
	BaseURL          string            `yaml:"baseURL,omitempty"`
	Timeout          time.Duration     `yaml:"timeout,omitempty"`
	MaxResponseBytes int64             `yaml:"maxResponseBytes,omitempty"`
	Headers          map[string]string `yaml:"headers,omitempty"`
	Auth             AuthConfig        `yaml:"auth,omitempty"`
	RateLimit        RateLimitConfig   `yaml:"rateLimit,omitempty"`
}

// Auth types accepted in AuthConfig.Type.
const (
	AuthNone   = "none"
	AuthBearer = "bearer"
	AuthBasic  = "basic"
	AuthAPIKey = "api_key"
)

// AuthConfig holds static credentials for the backend.
type AuthConfig struct {
	Type       string `yaml:"type,omitempty"`
	Token      string `yaml:"token,omitempty"`
	Username   string `yaml:"username,omitempty"`
	Password   string `yaml:"password,omitempty"`
	HeaderName string `yaml:"headerName,omitempty"`
	Value      string `yaml:"value,omitempty"`
}

// RateLimitConfig enables outbound throttling when RequestsPerSecond > 0.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requestsPerSecond,omitempty"`
	Burst             int     `yaml:"burst,omitempty"`
}

// SpecConfig locates the API description and its adjustments.
type SpecConfig struct {
	File            string        `yaml:"file,omitempty"`
	AdjustmentsFile string        `yaml:"adjustmentsFile,omitempty"`
	Watch           bool          `yaml:"watch,omitempty"`
	Debounce        time.Duration `yaml:"debounce,omitempty"`
}

// MetricsConfig controls the Prometheus endpoint of the sse/http modes.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}
