package ingest

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/biniyam93/A-Mesob-Chatbot/internal/store"
)

// Pipeline turns an uploaded file into a Document record: format dispatch,
// text extraction, normalization and chunk bookkeeping.
type Pipeline struct {
	registry     *Registry
	chunkSize    int
	chunkOverlap int
}

// NewPipeline creates a pipeline over the given registry. Chunk parameters
// are validated up front so a misconfiguration fails at startup rather than
// on the first upload.
func NewPipeline(registry *Registry, chunkSize, chunkOverlap int) (*Pipeline, error) {
	if chunkSize <= 0 || chunkOverlap < 0 || chunkSize <= chunkOverlap {
		return nil, ErrInvalidChunkParams
	}
	return &Pipeline{
		registry:     registry,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}, nil
}

// Ingest decodes, normalizes and chunks an uploaded file, producing the
// Document record the caller persists. The chunk count recorded on the
// document always equals the chunker's output for the pipeline's parameters;
// the chunks themselves are not retained.
func (p *Pipeline) Ingest(ctx context.Context, filename string, data []byte) (*store.Document, error) {
	raw, err := p.registry.Decode(ctx, filename, data)
	if err != nil {
		return nil, err
	}

	content := Normalize(raw)

	chunks, err := Chunk(content, p.chunkSize, p.chunkOverlap)
	if err != nil {
		return nil, err
	}

	decoder, _ := p.registry.Lookup(filepath.Ext(filename))

	return &store.Document{
		ID:         uuid.NewString(),
		Name:       filepath.Base(filename),
		MediaType:  decoder.MediaType(),
		Content:    content,
		SizeBytes:  int64(len(data)),
		ChunkCount: len(chunks),
		UploadedAt: time.Now(),
	}, nil
}
