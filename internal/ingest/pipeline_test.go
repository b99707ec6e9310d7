package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPipelineValidatesChunkParams(t *testing.T) {
	_, err := NewPipeline(DefaultRegistry(), 200, 200)
	assert.ErrorIs(t, err, ErrInvalidChunkParams)

	_, err = NewPipeline(DefaultRegistry(), 100, 200)
	assert.ErrorIs(t, err, ErrInvalidChunkParams)

	_, err = NewPipeline(DefaultRegistry(), DefaultChunkSize, DefaultChunkOverlap)
	assert.NoError(t, err)
}

func TestPipelineIngestTxt(t *testing.T) {
	p, err := NewPipeline(DefaultRegistry(), 10, 3)
	require.NoError(t, err)

	data := []byte("Hello   world\n\n\nPage 3 foo")
	doc, err := p.Ingest(context.Background(), "reports/annual report.txt", data)
	require.NoError(t, err)

	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "annual report.txt", doc.Name)
	assert.Equal(t, "text/plain", doc.MediaType)
	assert.Equal(t, "Hello world foo", doc.Content)
	assert.Equal(t, int64(len(data)), doc.SizeBytes)
	assert.False(t, doc.UploadedAt.IsZero())

	// The recorded chunk count always matches the chunker's output for the
	// pipeline's parameters.
	count, err := ChunkCount(doc.Content, 10, 3)
	require.NoError(t, err)
	assert.Equal(t, count, doc.ChunkCount)
	assert.Equal(t, 3, doc.ChunkCount)
}

func TestPipelineIngestEmptyFile(t *testing.T) {
	p, err := NewPipeline(DefaultRegistry(), DefaultChunkSize, DefaultChunkOverlap)
	require.NoError(t, err)

	doc, err := p.Ingest(context.Background(), "empty.txt", nil)
	require.NoError(t, err)
	assert.Equal(t, "", doc.Content)
	assert.Equal(t, 0, doc.ChunkCount)
}

func TestPipelineIngestUnsupportedFormat(t *testing.T) {
	p, err := NewPipeline(DefaultRegistry(), DefaultChunkSize, DefaultChunkOverlap)
	require.NoError(t, err)

	_, err = p.Ingest(context.Background(), "slides.pptx", []byte("PK"))
	var unsupported *UnsupportedFormatError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "pptx", unsupported.Extension)
}

func TestPipelineIngestDistinctIDs(t *testing.T) {
	p, err := NewPipeline(DefaultRegistry(), DefaultChunkSize, DefaultChunkOverlap)
	require.NoError(t, err)

	first, err := p.Ingest(context.Background(), "a.txt", []byte(strings.Repeat("x", 100)))
	require.NoError(t, err)
	second, err := p.Ingest(context.Background(), "a.txt", []byte(strings.Repeat("x", 100)))
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID, "re-ingesting produces a fresh document identity")
}
