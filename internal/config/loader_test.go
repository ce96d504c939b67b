package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to point the implicit search at a temporary directory
func withSearchPaths(t *testing.T, paths ...string) {
	t.Helper()
	original := searchPaths
	searchPaths = func() []string { return paths }
	t.Cleanup(func() { searchPaths = original })
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_DefaultOnly(t *testing.T) {
	tempDir := t.TempDir()
	withSearchPaths(t, filepath.Join(tempDir, "missing.yaml"))

	cfg, path, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, Default().Server, cfg.Server)
	assert.Equal(t, 30*time.Second, cfg.Endpoint.Timeout)
	assert.Equal(t, int64(52428800), cfg.Endpoint.MaxResponseBytes)
	assert.Equal(t, 500*time.Millisecond, cfg.Spec.Debounce)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	tempDir := t.TempDir()
	first := writeFile(t, tempDir, "first.yaml", `
server:
  mode: http
  port: 8088
endpoint:
  baseURL: https://api.example.com
  timeout: 5s
  headers:
    X-Tenant: acme
  auth:
    type: basic
    username: ann
spec:
  file: ./api.yaml
  watch: true
metrics:
  enabled: false
`)
	second := writeFile(t, tempDir, "second.yaml", "server:\n  port: 1\n")
	withSearchPaths(t, filepath.Join(tempDir, "missing.yaml"), first, second)

	cfg, path, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, first, path, "the first existing candidate wins")

	assert.Equal(t, ModeHTTP, cfg.Server.Mode)
	assert.Equal(t, 8088, cfg.Server.Port)
	assert.Equal(t, DefaultHost, cfg.Server.Host, "unset fields keep their defaults")
	assert.Equal(t, 5*time.Second, cfg.Endpoint.Timeout)
	assert.Equal(t, map[string]string{"X-Tenant": "acme"}, cfg.Endpoint.Headers)
	assert.Equal(t, AuthBasic, cfg.Endpoint.Auth.Type)
	assert.True(t, cfg.Spec.Watch)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_ExplicitPath(t *testing.T) {
	tempDir := t.TempDir()
	withSearchPaths(t)

	_, _, err := Load(filepath.Join(tempDir, "absent.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	bad := writeFile(t, tempDir, "bad.yaml", "server: [\n")
	_, _, err = Load(bad)
	assert.Error(t, err)

	good := writeFile(t, tempDir, "good.yaml", "logging:\n  level: debug\n")
	cfg, path, err := Load(good)
	require.NoError(t, err)
	assert.Equal(t, good, path)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"YAS_MCP_SPEC_FILE":         "/specs/api.json",
		"YAS_MCP_ADJUSTMENTS_FILE":  "/specs/adjust.yaml",
		"YAS_MCP_ENDPOINT_BASE_URL": "http://backend:8080",
		"YAS_MCP_ENDPOINT_TIMEOUT":  "12",
		"YAS_MCP_SERVER_MODE":       "SSE",
		"YAS_MCP_SERVER_HOST":       "0.0.0.0",
		"YAS_MCP_SERVER_PORT":       "9000",
		"YAS_MCP_LOG_LEVEL":         "warn",
		"YAS_MCP_LOG_FORMAT":        "json",
		"YAS_MCP_AUTH_TOKEN":        "tok",
		"YAS_MCP_UNRELATED":         "x",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, ApplyEnv(&cfg, lookup))

	assert.Equal(t, "/specs/api.json", cfg.Spec.File)
	assert.Equal(t, "/specs/adjust.yaml", cfg.Spec.AdjustmentsFile)
	assert.Equal(t, "http://backend:8080", cfg.Endpoint.BaseURL)
	assert.Equal(t, 12*time.Second, cfg.Endpoint.Timeout)
	assert.Equal(t, ModeSSE, cfg.Server.Mode)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, AuthBearer, cfg.Endpoint.Auth.Type)
	assert.Equal(t, "tok", cfg.Endpoint.Auth.Token)
}

func TestApplyEnv_InvalidValues(t *testing.T) {
	tests := map[string]string{
		"YAS_MCP_SERVER_PORT":      "eighty",
		"YAS_MCP_ENDPOINT_TIMEOUT": "soon",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			cfg := Default()
			err := ApplyEnv(&cfg, func(k string) (string, bool) {
				if k == key {
					return value, true
				}
				return "", false
			})
			var verr ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, key, verr.Field)
		})
	}
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	withSearchPaths(t)
	t.Setenv("YAS_MCP_SERVER_PORT", "4123")

	cfg, _, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 4123, cfg.Server.Port)
}
