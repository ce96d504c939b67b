package registry

import "strings"

// ToolName derives the tool name of an operation: the lower-cased path with
// every run of characters outside [a-z0-9] collapsed to "_", followed by the
// lower-cased method.
func ToolName(path, method string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(path) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	m := strings.ToLower(method)
	if b.Len() == 0 {
		return m
	}
	return b.String() + "_" + m
}
