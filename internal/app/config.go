package app

import (
	"os"
	"strings"

	"yasmcp/internal/config"
	"yasmcp/pkg/logging"
)

// Config holds the command line inputs of a run.
type Config struct {
	// Debug forces debug logging regardless of the configured level.
	Debug bool

	// ConfigPath names an explicit configuration file. When empty the
	// default search paths apply.
	ConfigPath string

	// Overrides are command line flags; zero values leave the file and
	// environment settings untouched.
	Overrides Overrides

	// Settings is the resolved configuration, filled by ResolveSettings.
	Settings *config.Config
}

// Overrides carries flag values that take precedence over config and env.
type Overrides struct {
	SpecFile        string
	AdjustmentsFile string
	Mode            string
	Host            string
	Port            int
	BaseURL         string
	Watch           bool
	// Version is the build version, used when the config file sets none.
	Version string
}

// NewConfig creates a new application configuration
func NewConfig(debug bool, configPath string, overrides Overrides) *Config {
	return &Config{
		Debug:      debug,
		ConfigPath: configPath,
		Overrides:  overrides,
	}
}

// ResolveSettings loads the config file, applies environment and flag
// overrides, and validates the result.
func ResolveSettings(cfg *Config) (config.Config, error) {
	settings, path, err := config.Load(cfg.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	if path != "" {
		logging.Debug("Bootstrap", "Using configuration file %s", path)
	}

	applyOverrides(&settings, cfg.Overrides)
	if cfg.Debug {
		settings.Logging.Level = logging.LevelDebug.String()
	}

	if err := settings.Validate(); err != nil {
		return config.Config{}, err
	}
	cfg.Settings = &settings
	return settings, nil
}

func applyOverrides(settings *config.Config, o Overrides) {
	if o.SpecFile != "" {
		settings.Spec.File = o.SpecFile
	}
	if o.AdjustmentsFile != "" {
		settings.Spec.AdjustmentsFile = o.AdjustmentsFile
	}
	if o.Mode != "" {
		settings.Server.Mode = strings.ToLower(o.Mode)
	}
	if o.Host != "" {
		settings.Server.Host = o.Host
	}
	if o.Port != 0 {
		settings.Server.Port = o.Port
	}
	if o.BaseURL != "" {
		settings.Endpoint.BaseURL = o.BaseURL
	}
	if o.Watch {
		settings.Spec.Watch = true
	}
	if settings.Server.Version == "" {
		settings.Server.Version = o.Version
	}
}

// initLogging configures the logger from the resolved settings. Logs always
// go to stderr; stdout belongs to the stdio transport.
func initLogging(settings config.Config) {
	level, err := logging.ParseLevel(settings.Logging.Level)
	if err != nil {
		level = logging.LevelInfo
	}
	logging.InitWithFormat(level, settings.Logging.Format, os.Stderr)
}
