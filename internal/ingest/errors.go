package ingest

import (
	"errors"
	"fmt"
)

// ErrInvalidChunkParams is returned when the chunk size does not exceed the
// overlap. Without the guard the chunker's offset would never advance.
var ErrInvalidChunkParams = errors.New("invalid chunk parameters: size must be greater than overlap")

// UnsupportedFormatError is returned when a file's extension maps to no
// registered decoder.
type UnsupportedFormatError struct {
	Extension string
	Accepted  []string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format %q: accepted formats are %v", e.Extension, e.Accepted)
}

// ExtractionError wraps a decoder-level failure, identifying the source file.
type ExtractionError struct {
	Filename string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text from %q: %v", e.Filename, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
