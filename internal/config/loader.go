package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"yasmcp/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	configFileName = "config.yaml"
	systemConfig   = "/etc/yas-mcp/config.yaml"

	// EnvPrefix is prepended to every environment override.
	EnvPrefix = "YAS_MCP_"
)

// searchPaths lists the implicit config locations; overridden in tests.
var searchPaths = func() []string {
	return []string{configFileName, systemConfig}
}

// Load reads the configuration file, falling back to defaults, and applies
// environment overrides. explicitPath, when set, must exist. The returned
// path is the file actually read, or empty when defaults were used.
func Load(explicitPath string) (Config, string, error) {
	cfg, path, err := loadFile(explicitPath)
	if err != nil {
		return Config{}, "", err
	}
	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, "", err
	}
	return cfg, path, nil
}

func loadFile(explicitPath string) (Config, string, error) {
	config := Default()

	candidates := searchPaths()
	if explicitPath != "" {
		candidates = []string{explicitPath}
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) && explicitPath == "" {
				continue
			}
			logging.Info("Config", "Error loading %s: %s", path, err)
			return Config{}, "", fmt.Errorf("error loading config from %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			// config malformed
			return Config{}, "", fmt.Errorf("error loading config from %s: %w", path, err)
		}
		logging.Info("Config", "Loaded configuration from %s", path)
		return config, path, nil
	}

	logging.Info("Config", "No %s found, using defaults", configFileName)
	return config, "", nil
}

// ApplyEnv overrides cfg from YAS_MCP_* variables found through lookup.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		if !ok || strings.TrimSpace(v) == "" {
			return "", false
		}
		return strings.TrimSpace(v), true
	}

	if v, ok := get("SPEC_FILE"); ok {
		cfg.Spec.File = v
	}
	if v, ok := get("ADJUSTMENTS_FILE"); ok {
		cfg.Spec.AdjustmentsFile = v
	}
	if v, ok := get("ENDPOINT_BASE_URL"); ok {
		cfg.Endpoint.BaseURL = v
	}
	if v, ok := get("ENDPOINT_TIMEOUT"); ok {
		d, err := parseDuration(v)
		if err != nil {
			return ValidationError{Field: EnvPrefix + "ENDPOINT_TIMEOUT", Value: v, Message: err.Error()}
		}
		cfg.Endpoint.Timeout = d
	}
	if v, ok := get("SERVER_MODE"); ok {
		cfg.Server.Mode = strings.ToLower(v)
	}
	if v, ok := get("SERVER_HOST"); ok {
		cfg.Server.Host = v
	}
	if v, ok := get("SERVER_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return ValidationError{Field: EnvPrefix + "SERVER_PORT", Value: v, Message: "must be an integer"}
		}
		cfg.Server.Port = port
	}
	if v, ok := get("LOG_LEVEL"); ok {
		cfg.Logging.Level = v
	}
	if v, ok := get("LOG_FORMAT"); ok {
		cfg.Logging.Format = v
	}
	if v, ok := get("AUTH_TOKEN"); ok {
		cfg.Endpoint.Auth.Token = v
		if cfg.Endpoint.Auth.Type == "" || cfg.Endpoint.Auth.Type == AuthNone {
			cfg.Endpoint.Auth.Type = AuthBearer
		}
	}
	return nil
}

// parseDuration accepts Go duration strings and bare seconds.
func parseDuration(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}
