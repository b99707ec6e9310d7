// Package ingest converts uploaded files into normalized text and derived
// chunk metadata. The pipeline is synchronous and side-effect-free: decoding
// is delegated to format-specific adapters, the result is normalized and
// partitioned into overlapping fixed-size chunks for bookkeeping.
package ingest

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
)

// Decoder extracts plain text from the raw bytes of one file format.
type Decoder interface {
	// Extension returns the lower-cased file extension this decoder handles,
	// without the leading dot.
	Extension() string

	// MediaType returns the declared media type for documents of this format.
	MediaType() string

	// Decode extracts UTF-8 text from the raw file content.
	Decode(ctx context.Context, data []byte) (string, error)
}

// Registry maps file extensions to decoders. Selection is a pure lookup,
// case-insensitive on the extension; no content sniffing is attempted.
type Registry struct {
	decoders map[string]Decoder
}

func NewRegistry() *Registry {
	return &Registry{decoders: make(map[string]Decoder)}
}

// DefaultRegistry returns a registry with the supported decoders registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewTxtDecoder())
	r.Register(NewPDFDecoder())
	r.Register(NewDocxDecoder())
	return r
}

func (r *Registry) Register(d Decoder) {
	r.decoders[d.Extension()] = d
}

// Lookup returns the decoder for the given extension. A leading dot and any
// casing are ignored.
func (r *Registry) Lookup(ext string) (Decoder, bool) {
	d, ok := r.decoders[normalizeExt(ext)]
	return d, ok
}

// Extensions returns the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.decoders))
	for ext := range r.decoders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Decode selects a decoder by the file name's extension and extracts text.
// An unknown extension fails with UnsupportedFormatError naming the offending
// extension; a decoder failure propagates as an ExtractionError identifying
// the source file.
func (r *Registry) Decode(ctx context.Context, filename string, data []byte) (string, error) {
	ext := normalizeExt(filepath.Ext(filename))
	d, ok := r.decoders[ext]
	if !ok {
		return "", &UnsupportedFormatError{Extension: ext, Accepted: r.Extensions()}
	}

	text, err := d.Decode(ctx, data)
	if err != nil {
		return "", &ExtractionError{Filename: filename, Err: err}
	}
	return text, nil
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
