package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "page artifact and whitespace runs",
			input: "Hello   world\n\n\nPage 3 foo",
			want:  "Hello world foo",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "whitespace only",
			input: " \t\n\n \n ",
			want:  "",
		},
		{
			name:  "tabs and newlines collapse to single spaces",
			input: "a\tb\nc\r\nd",
			want:  "a b c d",
		},
		{
			name:  "page artifact is case-insensitive",
			input: "intro PAGE 12 body page 7 outro",
			want:  "intro body outro",
		},
		{
			name:  "page artifact at end of text",
			input: "conclusion\nPage 42",
			want:  "conclusion",
		},
		{
			name:  "page without digits is kept",
			input: "see the next page for details",
			want:  "see the next page for details",
		},
		{
			name:  "leading and trailing whitespace trimmed",
			input: "  padded text  ",
			want:  "padded text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Hello   world\n\n\nPage 3 foo",
		"a\tb\nc\r\nd",
		"intro PAGE 12 body page 7 outro",
		"  mixed \n\n whitespace\t and Page 9 markers \n",
		"plain text with no artifacts at all",
	}

	for _, input := range inputs {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once), "normalize should be a no-op on its own output for %q", input)
	}
}

func TestNormalizeRemovesAllNewlines(t *testing.T) {
	out := Normalize("line one\nline two\n\nline three\n\n\n\nline four")
	assert.NotContains(t, out, "\n")
	assert.Equal(t, "line one line two line three line four", out)
}
