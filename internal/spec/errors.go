package spec

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned when the input is neither JSON nor YAML.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrMalformedDocument is returned when the input parses but is not a usable API description.
	ErrMalformedDocument = errors.New("malformed api document")
)

// ParseError reports why a document could not be loaded.
type ParseError struct {
	Source string
	Kind   error
	Err    error
}

func (e *ParseError) Error() string {
	src := e.Source
	if src == "" {
		src = "<input>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v: %v", src, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", src, e.Kind)
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newParseError(source string, kind, err error) *ParseError {
	return &ParseError{Source: source, Kind: kind, Err: err}
}
