// Package strings holds text helpers for terminal output.
package strings

import (
	"strings"
)

// DescriptionWidth is the column width used for tool descriptions.
const DescriptionWidth = 60

// minWidth leaves room for one character plus the ellipsis.
const minWidth = 4

// SingleLine collapses every run of whitespace, newlines included, into a
// single space.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// TruncateDescription flattens s with SingleLine and cuts it to at most
// width runes, ending a cut string with "...". Widths below 4 are raised
// to 4.
func TruncateDescription(s string, width int) string {
	if width < minWidth {
		width = minWidth
	}
	runes := []rune(SingleLine(s))
	if len(runes) <= width {
		return string(runes)
	}
	return string(runes[:width-3]) + "..."
}
