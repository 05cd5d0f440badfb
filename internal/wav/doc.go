// Package wav wraps raw linear PCM in a RIFF/WAVE container.
//
// The encoder is a pure function of its input: it writes the canonical
// 44-byte header (RIFF descriptor, 16-byte fmt chunk, data chunk) followed by
// the PCM body, unmodified. It holds no state, so any number of goroutines
// may call it at once.
//
//	uri, err := wav.EncodeDataURI(pcm, wav.DefaultFormat())
//	if errors.Is(err, wav.ErrEmptyPayload) {
//	    // the generator produced nothing
//	}
//
// The data size written is always the length of the PCM body. Bodies that do
// not hold a whole number of frames are accepted as they are.
//
// ParseHeader reads the header back; Inspect reads a container with the
// go-audio decoder for an independent check.
package wav
