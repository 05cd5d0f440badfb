package wav

import "encoding/base64"

// Buffer collects PCM chunks as they arrive and builds the container once the
// stream has ended. The header needs the total length, so nothing is emitted
// before Encode. A Buffer is not safe for concurrent writers.
type Buffer struct {
	chunks [][]byte
	size   int
}

// Write appends a copy of p. It never fails; the error satisfies io.Writer.
func (b *Buffer) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	chunk := make([]byte, len(p))
	copy(chunk, p)
	b.chunks = append(b.chunks, chunk)
	b.size += len(p)
	return len(p), nil
}

// Len returns the number of PCM bytes written so far
func (b *Buffer) Len() int {
	return b.size
}

// Encode builds the WAV container from every chunk written, in order
func (b *Buffer) Encode(f Format) ([]byte, error) {
	if err := check(b.size, f); err != nil {
		return nil, err
	}

	out := make([]byte, HeaderSize+b.size)
	NewHeader(f, b.size).put(out)
	off := HeaderSize
	for _, c := range b.chunks {
		off += copy(out[off:], c)
	}

	return out, nil
}

// EncodeDataURI is Encode followed by data URI wrapping
func (b *Buffer) EncodeDataURI(f Format) (string, error) {
	out, err := b.Encode(f)
	if err != nil {
		return "", err
	}
	return DataURIPrefix + base64.StdEncoding.EncodeToString(out), nil
}

