package adjust

import (
	"fmt"
	"regexp"
	"strings"
)

// compilePattern turns a route pattern into an anchored regular expression.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	p := trimSlash(pattern)
	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(p); {
		if p[i] == '*' {
			if i+1 < len(p) && p[i+1] == '*' {
				b.WriteString(".*")
				i += 2
				continue
			}
			b.WriteString("[^/]+")
			i++
			continue
		}
		j := strings.IndexByte(p[i:], '*')
		if j < 0 {
			j = len(p) - i
		}
		b.WriteString(regexp.QuoteMeta(p[i : i+j]))
		i += j
	}
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("compiling pattern %q: %w", pattern, err)
	}
	return re, nil
}

func trimSlash(s string) string {
	if len(s) > 1 {
		return strings.TrimSuffix(s, "/")
	}
	return s
}
