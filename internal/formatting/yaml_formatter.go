package formatting

import (
	"io"

	"gopkg.in/yaml.v3"

	"yasmcp/internal/dispatch"
	"yasmcp/internal/registry"
	"yasmcp/internal/schema"
)

// YAMLFormatter writes YAML documents.
type YAMLFormatter struct{}

// FormatTools implements Formatter.
func (f *YAMLFormatter) FormatTools(w io.Writer, entries []registry.Entry, diagnostics []registry.Diagnostic) error {
	view := newToolsView(entries, diagnostics, func(s schema.Schema) interface{} { return s.Map() })
	return writeYAML(w, view)
}

// FormatResponse implements Formatter.
func (f *YAMLFormatter) FormatResponse(w io.Writer, resp *dispatch.HTTPResponse) error {
	return writeYAML(w, newResponseView(resp))
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
