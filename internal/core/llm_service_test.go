package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateContextUnderCeiling(t *testing.T) {
	text := "short document"
	assert.Equal(t, text, truncateContext(text))
}

func TestTruncateContextAtCeiling(t *testing.T) {
	text := strings.Repeat("a", maxContextChars)
	assert.Equal(t, text, truncateContext(text), "content exactly at the ceiling is untouched")
}

func TestTruncateContextOverCeiling(t *testing.T) {
	text := strings.Repeat("a", maxContextChars+100)

	got := truncateContext(text)
	assert.True(t, strings.HasSuffix(got, truncationMarker))
	assert.Len(t, []rune(got), maxContextChars+len([]rune(truncationMarker)))
}

func TestTruncateContextCountsRunes(t *testing.T) {
	// Multibyte content must be cut on rune boundaries.
	text := strings.Repeat("ä", maxContextChars+1)

	got := truncateContext(text)
	trimmed := strings.TrimSuffix(got, truncationMarker)
	assert.Len(t, []rune(trimmed), maxContextChars)
	assert.True(t, strings.HasSuffix(trimmed, "ä"))
}
