// Package formatting renders tool listings and direct call responses for
// the CLI in table, JSON or YAML form.
package formatting

import (
	"fmt"
	"io"
	"strings"

	"yasmcp/internal/dispatch"
	"yasmcp/internal/registry"
	"yasmcp/internal/schema"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatTable OutputFormat = "table" // Rich table output
	FormatJSON  OutputFormat = "json"  // JSON output
	FormatYAML  OutputFormat = "yaml"  // YAML output
)

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want table, json or yaml)", s)
	}
}

// Formatter writes CLI output.
type Formatter interface {
	// FormatTools writes the tool list followed by build diagnostics.
	FormatTools(w io.Writer, entries []registry.Entry, diagnostics []registry.Diagnostic) error
	// FormatResponse writes the result of a direct tool call.
	FormatResponse(w io.Writer, resp *dispatch.HTTPResponse) error
}

// New creates the formatter for format.
func New(format OutputFormat) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return &TableFormatter{}
	}
}

// ToolView is the serializable form of a registry entry.
type ToolView struct {
	Name         string      `json:"name" yaml:"name"`
	Description  string      `json:"description" yaml:"description"`
	Method       string      `json:"method" yaml:"method"`
	Path         string      `json:"path" yaml:"path"`
	InputSchema  interface{} `json:"inputSchema" yaml:"inputSchema"`
	OutputSchema interface{} `json:"outputSchema,omitempty" yaml:"outputSchema,omitempty"`
}

// DiagnosticView is the serializable form of a build diagnostic.
type DiagnosticView struct {
	Kind    string `json:"kind" yaml:"kind"`
	Tool    string `json:"tool" yaml:"tool"`
	Method  string `json:"method" yaml:"method"`
	Path    string `json:"path" yaml:"path"`
	Message string `json:"message" yaml:"message"`
}

// ToolsView is the document written by the JSON and YAML formatters.
type ToolsView struct {
	Tools       []ToolView       `json:"tools" yaml:"tools"`
	Diagnostics []DiagnosticView `json:"diagnostics" yaml:"diagnostics"`
	Count       int              `json:"count" yaml:"count"`
}

// ResponseView is the serializable form of a call response.
type ResponseView struct {
	Status  int               `json:"status" yaml:"status"`
	Headers map[string]string `json:"headers" yaml:"headers"`
	Body    interface{}       `json:"body" yaml:"body"`
}

// newToolsView builds the listing document. Schemas are rendered by
// schemaOf so that JSON output keeps property order.
func newToolsView(entries []registry.Entry, diagnostics []registry.Diagnostic, schemaOf func(schema.Schema) interface{}) ToolsView {
	v := ToolsView{
		Tools:       make([]ToolView, 0, len(entries)),
		Diagnostics: make([]DiagnosticView, 0, len(diagnostics)),
		Count:       len(entries),
	}
	for _, e := range entries {
		tv := ToolView{
			Name:        e.Tool.Name,
			Description: e.Tool.Description,
			Method:      e.Route.Method,
			Path:        e.Route.Path,
		}
		if e.Tool.InputSchema != nil {
			tv.InputSchema = schemaOf(e.Tool.InputSchema)
		}
		if e.Tool.OutputSchema != nil {
			tv.OutputSchema = schemaOf(e.Tool.OutputSchema)
		}
		v.Tools = append(v.Tools, tv)
	}
	for _, d := range diagnostics {
		v.Diagnostics = append(v.Diagnostics, DiagnosticView{
			Kind:    string(d.Kind),
			Tool:    d.Tool,
			Method:  d.Method,
			Path:    d.Path,
			Message: d.Message,
		})
	}
	return v
}

func newResponseView(resp *dispatch.HTTPResponse) ResponseView {
	headers := resp.Headers
	if headers == nil {
		headers = map[string]string{}
	}
	return ResponseView{Status: resp.StatusCode, Headers: headers, Body: resp.Body}
}
