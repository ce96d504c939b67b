package config

import (
	"fmt"
	"net/url"
	"strings"

	"yasmcp/pkg/logging"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// Validate checks the configuration for a serve run.
func (c Config) Validate() error {
	var errs ValidationErrors

	if strings.TrimSpace(c.Spec.File) == "" {
		errs.Add("spec.file", "is required")
	}

	switch c.Server.Mode {
	case ModeStdio, ModeSSE, ModeHTTP:
	default:
		errs.Add("server.mode", fmt.Sprintf("must be one of %s, %s, %s", ModeStdio, ModeSSE, ModeHTTP), c.Server.Mode)
	}
	if c.Server.Mode != ModeStdio && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		errs.Add("server.port", "must be between 1 and 65535", c.Server.Port)
	}
	if c.Server.ShutdownTimeout < 0 {
		errs.Add("server.shutdownTimeout", "must not be negative", c.Server.ShutdownTimeout)
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs.Add("logging.level", err.Error(), c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", logging.FormatText, logging.FormatJSON:
	default:
		errs.Add("logging.format", "must be text or json", c.Logging.Format)
	}

	if c.Endpoint.BaseURL != "" {
		u, err := url.Parse(c.Endpoint.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs.Add("endpoint.baseURL", "must be an absolute URL", c.Endpoint.BaseURL)
		}
	}
	if c.Endpoint.Timeout <= 0 {
		errs.Add("endpoint.timeout", "must be positive", c.Endpoint.Timeout)
	}
	if c.Endpoint.MaxResponseBytes < 0 {
		errs.Add("endpoint.maxResponseBytes", "must not be negative", c.Endpoint.MaxResponseBytes)
	}
	if c.Endpoint.RateLimit.RequestsPerSecond < 0 {
		errs.Add("endpoint.rateLimit.requestsPerSecond", "must not be negative", c.Endpoint.RateLimit.RequestsPerSecond)
	}

	auth := c.Endpoint.Auth
	switch auth.Type {
	case "", AuthNone:
	case AuthBearer:
		if auth.Token == "" {
			errs.Add("endpoint.auth.token", "is required for bearer auth")
		}
	case AuthBasic:
		if auth.Username == "" {
			errs.Add("endpoint.auth.username", "is required for basic auth")
		}
	case AuthAPIKey:
		if auth.Value == "" {
			errs.Add("endpoint.auth.value", "is required for api_key auth")
		}
	default:
		errs.Add("endpoint.auth.type", "must be one of none, bearer, basic, api_key", auth.Type)
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		errs.Add("metrics.path", "must start with /", c.Metrics.Path)
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
