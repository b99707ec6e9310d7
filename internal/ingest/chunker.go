package ingest

// DefaultChunkSize is the default chunk size in characters.
const DefaultChunkSize = 2000

// DefaultChunkOverlap is the default overlap between consecutive chunks.
const DefaultChunkOverlap = 200

// Chunk partitions text into an ordered sequence of fixed-size windows.
// Starting at offset 0 it emits up to size characters, then advances the
// offset by size-overlap, stopping once the offset reaches the end of the
// text. Boundaries are purely positional; no alignment to words or sentences
// is attempted. The final chunk may be shorter than size and is still
// emitted. Empty text yields no chunks.
func Chunk(text string, size, overlap int) ([]string, error) {
	if size <= 0 || overlap < 0 || size <= overlap {
		return nil, ErrInvalidChunkParams
	}
	if text == "" {
		return nil, nil
	}

	// Offsets count characters, not bytes, so multi-byte runes are never
	// split across chunks.
	runes := []rune(text)

	var chunks []string
	for off := 0; off < len(runes); off += size - overlap {
		end := off + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[off:end]))
	}
	return chunks, nil
}

// ChunkCount reports how many chunks Chunk would produce for the given text.
func ChunkCount(text string, size, overlap int) (int, error) {
	chunks, err := Chunk(text, size, overlap)
	if err != nil {
		return 0, err
	}
	return len(chunks), nil
}
