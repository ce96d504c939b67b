package adjust

import (
	"errors"
	"fmt"
)

// ErrMalformedDocument is returned for adjustment documents that cannot be used.
var ErrMalformedDocument = errors.New("malformed adjustments document")

// ParseError describes why an adjustment document was rejected.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("%v: %v", ErrMalformedDocument, e.Err)
	}
	return fmt.Sprintf("%s: %v: %v", e.Source, ErrMalformedDocument, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrMalformedDocument, e.Err}
}
