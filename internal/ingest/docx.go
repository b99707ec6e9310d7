package ingest

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/fumiama/go-docx"
)

// DocxDecoder extracts the raw textual content of Word documents via
// github.com/fumiama/go-docx. Formatting and embedded structure are dropped;
// paragraphs are joined with newlines.
type DocxDecoder struct{}

func NewDocxDecoder() *DocxDecoder {
	return &DocxDecoder{}
}

func (d *DocxDecoder) Extension() string {
	return "docx"
}

func (d *DocxDecoder) MediaType() string {
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}

func (d *DocxDecoder) Decode(_ context.Context, data []byte) (string, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}

	var paragraphs []string
	for _, item := range doc.Document.Body.Items {
		switch block := item.(type) {
		case *docx.Paragraph:
			paragraphs = append(paragraphs, block.String())
		case *docx.Table:
			paragraphs = append(paragraphs, block.String())
		}
	}

	return strings.Join(paragraphs, "\n"), nil
}
