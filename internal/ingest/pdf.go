package ingest

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFDecoder extracts text from PDF files via github.com/ledongthuc/pdf.
// For each page, in physical page order, the laid-out text fragments are
// joined with single spaces; pages are joined with a newline.
type PDFDecoder struct{}

func NewPDFDecoder() *PDFDecoder {
	return &PDFDecoder{}
}

func (d *PDFDecoder) Extension() string {
	return "pdf"
}

func (d *PDFDecoder) MediaType() string {
	return "application/pdf"
}

func (d *PDFDecoder) Decode(_ context.Context, data []byte) (text string, err error) {
	// The underlying library panics on some malformed inputs; surface those
	// as ordinary decode errors.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		var fragments []string
		for _, t := range page.Content().Text {
			fragments = append(fragments, t.S)
		}
		pages = append(pages, strings.Join(fragments, " "))
	}

	return strings.Join(pages, "\n"), nil
}
