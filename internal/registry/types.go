package registry

import (
	"yasmcp/internal/schema"
)

// Tool is the externally visible definition of one operation.
type Tool struct {
	Name         string
	Description  string
	InputSchema  *schema.Object
	OutputSchema schema.Schema

	OperationID string
}

// RouteParameter is a declared non-body parameter of a route.
type RouteParameter struct {
	Name     string
	In       string
	Required bool
}

// Route is everything the dispatcher needs to rebuild a request.
type Route struct {
	Path       string
	Method     string
	Parameters []RouteParameter
	// BodyFields lists the properties of an object request body.
	BodyFields []string
	HasBody    bool
	// RawBody is set when the body is not an object and travels in the
	// reserved "body" argument.
	RawBody         bool
	BodyContentType string
	Accept          string
	Headers         map[string]string
}

// Entry pairs a tool with its route.
type Entry struct {
	Tool  Tool
	Route Route
}

// DiagnosticKind classifies a non-fatal build finding.
type DiagnosticKind string

const (
	// NamingCollision means an operation was dropped because its tool name was taken.
	NamingCollision DiagnosticKind = "NamingCollision"
)

// Diagnostic is a non-fatal finding recorded during Build.
type Diagnostic struct {
	Kind    DiagnosticKind
	Tool    string
	Path    string
	Method  string
	Message string
}

func (r Route) clone() Route {
	out := r
	out.Parameters = append([]RouteParameter(nil), r.Parameters...)
	out.BodyFields = append([]string(nil), r.BodyFields...)
	if r.Headers != nil {
		out.Headers = make(map[string]string, len(r.Headers))
		for k, v := range r.Headers {
			out.Headers[k] = v
		}
	}
	return out
}

// Parameter looks up a declared parameter by name.
func (r Route) Parameter(name string) (RouteParameter, bool) {
	for _, p := range r.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return RouteParameter{}, false
}

// IsBodyField reports whether name belongs to the object request body.
func (r Route) IsBodyField(name string) bool {
	for _, f := range r.BodyFields {
		if f == name {
			return true
		}
	}
	return false
}
