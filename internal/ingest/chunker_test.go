package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkBoundaryArithmetic(t *testing.T) {
	chunks, err := Chunk("abcdefghij", 4, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"abcd", "defg", "ghij", "j"}, chunks)
}

func TestChunkEmptyText(t *testing.T) {
	chunks, err := Chunk("", 4, 1)
	require.NoError(t, err)
	assert.Nil(t, chunks, "empty text must yield no chunks, not one empty chunk")
}

func TestChunkInvalidParameters(t *testing.T) {
	cases := []struct {
		name          string
		size, overlap int
	}{
		{"size equals overlap", 100, 100},
		{"size below overlap", 100, 200},
		{"zero size", 0, 0},
		{"negative size", -1, 0},
		{"negative overlap", 10, -1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Chunk("some text", tc.size, tc.overlap)
			assert.ErrorIs(t, err, ErrInvalidChunkParams)
		})
	}
}

func TestChunkCounts(t *testing.T) {
	const size, overlap = 10, 3
	step := size - overlap

	cases := []struct {
		length int
		want   int
	}{
		{0, 0},
		{1, 1},
		{size - 1, 2}, // offsets 0, 7
		{size, 2},
		{size + 1, 2},
		{5 * size, 8}, // offsets 0, 7, ..., 49
	}

	for _, tc := range cases {
		text := strings.Repeat("x", tc.length)
		count, err := ChunkCount(text, size, overlap)
		require.NoError(t, err)
		assert.Equal(t, tc.want, count, "length %d with step %d", tc.length, step)
	}
}

func TestChunkShortTextSingleChunk(t *testing.T) {
	chunks, err := Chunk("short", 2000, 200)
	require.NoError(t, err)
	assert.Equal(t, []string{"short"}, chunks)
}

func TestChunkReconstruction(t *testing.T) {
	texts := []string{
		"abcdefghij",
		"the quick brown fox jumps over the lazy dog",
		strings.Repeat("abcdefghijklmnopqrstuvwxyz", 40),
	}
	params := []struct{ size, overlap int }{
		{4, 1},
		{10, 3},
		{50, 49},
		{128, 16},
	}

	for _, text := range texts {
		for _, p := range params {
			chunks, err := Chunk(text, p.size, p.overlap)
			require.NoError(t, err)

			assert.Equal(t, text, reassemble(chunks, p.size, p.overlap),
				"de-duplicated concatenation must reconstruct the input (len=%d size=%d overlap=%d)",
				len(text), p.size, p.overlap)
		}
	}
}

// reassemble concatenates chunks, dropping the prefix of each chunk already
// covered by its predecessors. Offsets are in characters, matching Chunk.
func reassemble(chunks []string, size, overlap int) string {
	var b strings.Builder
	covered := 0
	for i, chunk := range chunks {
		runes := []rune(chunk)
		start := i * (size - overlap)
		skip := covered - start
		if skip < 0 {
			skip = 0
		}
		b.WriteString(string(runes[skip:]))
		covered = start + len(runes)
	}
	return b.String()
}

func TestChunkMultibyteRunes(t *testing.T) {
	// Offsets count characters, so multi-byte runes must never be split.
	text := strings.Repeat("héllo wörld ", 10)
	chunks, err := Chunk(text, 7, 2)
	require.NoError(t, err)

	for _, chunk := range chunks {
		assert.True(t, len([]rune(chunk)) <= 7)
	}
	assert.Equal(t, text, reassemble(chunks, 7, 2))
}
