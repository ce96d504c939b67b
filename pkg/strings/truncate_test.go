package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateDescription(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		expected string
	}{
		{name: "short string unchanged", input: "List todos", width: 20, expected: "List todos"},
		{name: "exact width unchanged", input: "hello", width: 5, expected: "hello"},
		{name: "long string cut", input: "Returns every todo owned by the caller", width: 15, expected: "Returns ever..."},
		{name: "markdown paragraphs flattened", input: "Create a todo.\n\nThe title is required.", width: 80, expected: "Create a todo. The title is required."},
		{name: "crlf and tabs", input: "a\r\n\tb", width: 10, expected: "a b"},
		{name: "runes not bytes", input: "héllo wörld, ça va", width: 10, expected: "héllo w..."},
		{name: "tiny width clamped", input: "abcdefgh", width: 1, expected: "a..."},
		{name: "empty", input: "", width: 10, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateDescription(tt.input, tt.width))
		})
	}
}

func TestSingleLine(t *testing.T) {
	assert.Equal(t, "GET /todos", SingleLine("  GET\n /todos \n"))
}
