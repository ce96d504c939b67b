package dispatch

import (
	"errors"
	"fmt"
)

// Kind classifies a dispatch failure.
type Kind string

const (
	KindMissingPathParameter     Kind = "missing_path_parameter"
	KindMissingRequiredParameter Kind = "missing_required_parameter"
	KindTransport                Kind = "transport"
	KindEncoding                 Kind = "encoding"
)

var (
	ErrMissingPathParameter     = errors.New("missing path parameter")
	ErrMissingRequiredParameter = errors.New("missing required parameter")
	ErrTransport                = errors.New("transport failure")
	ErrEncoding                 = errors.New("request encoding failure")
)

// Error is returned by Execute for every failure that prevents a response.
// An HTTP status, whatever its value, is never an Error.
type Error struct {
	Kind   Kind
	Param  string
	Method string
	URL    string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindMissingPathParameter:
		return fmt.Sprintf("%v %q", ErrMissingPathParameter, e.Param)
	case KindMissingRequiredParameter:
		return fmt.Sprintf("%v %q", ErrMissingRequiredParameter, e.Param)
	}
	msg := e.sentinel().Error()
	if e.Method != "" {
		msg = fmt.Sprintf("%s: %s %s", msg, e.Method, e.URL)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	return target == e.sentinel()
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case KindMissingPathParameter:
		return ErrMissingPathParameter
	case KindMissingRequiredParameter:
		return ErrMissingRequiredParameter
	case KindTransport:
		return ErrTransport
	default:
		return ErrEncoding
	}
}
