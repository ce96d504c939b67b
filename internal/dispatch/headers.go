package dispatch

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// RenderHeaders evaluates each header value as a text/template with the
// sprig function map, e.g. `Bearer {{ env "API_TOKEN" }}`.
func RenderHeaders(headers map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(headers))
	for name, value := range headers {
		tmpl, err := template.New(name).Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(value)
		if err != nil {
			return nil, fmt.Errorf("parsing header %s: %w", name, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, nil); err != nil {
			return nil, fmt.Errorf("rendering header %s: %w", name, err)
		}
		out[name] = buf.String()
	}
	return out, nil
}
