package formatting

import (
	"encoding/json"
	"io"

	"yasmcp/internal/dispatch"
	"yasmcp/internal/registry"
	"yasmcp/internal/schema"
)

// JSONFormatter writes indented JSON.
type JSONFormatter struct{}

// FormatTools implements Formatter.
func (f *JSONFormatter) FormatTools(w io.Writer, entries []registry.Entry, diagnostics []registry.Diagnostic) error {
	// Schemas marshal themselves in declaration order.
	view := newToolsView(entries, diagnostics, func(s schema.Schema) interface{} { return s })
	return writeJSON(w, view)
}

// FormatResponse implements Formatter.
func (f *JSONFormatter) FormatResponse(w io.Writer, resp *dispatch.HTTPResponse) error {
	return writeJSON(w, newResponseView(resp))
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
