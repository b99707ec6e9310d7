package ingest

import "context"

// TxtDecoder handles plain text files. The raw bytes are taken as UTF-8
// verbatim; cleanup is left to the shared normalization step.
type TxtDecoder struct{}

func NewTxtDecoder() *TxtDecoder {
	return &TxtDecoder{}
}

func (d *TxtDecoder) Extension() string {
	return "txt"
}

func (d *TxtDecoder) MediaType() string {
	return "text/plain"
}

func (d *TxtDecoder) Decode(_ context.Context, data []byte) (string, error) {
	return string(data), nil
}
