package wav

import (
	"encoding/base64"
	"fmt"
)

// DataURIPrefix precedes the base64 payload of an encoded container
const DataURIPrefix = "data:" + MIMEType + ";base64,"

// Encode wraps pcm in a WAV container: the 44-byte header followed by pcm,
// unmodified. The data size is always len(pcm), even when pcm does not hold
// a whole number of frames.
func Encode(pcm []byte, f Format) ([]byte, error) {
	if err := check(len(pcm), f); err != nil {
		return nil, err
	}

	out := make([]byte, HeaderSize+len(pcm))
	NewHeader(f, len(pcm)).put(out)
	copy(out[HeaderSize:], pcm)

	return out, nil
}

// EncodeBase64 encodes pcm as a WAV container in standard padded base64
func EncodeBase64(pcm []byte, f Format) (string, error) {
	b, err := Encode(pcm, f)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// EncodeDataURI encodes pcm as data:audio/wav;base64,<payload>
func EncodeDataURI(pcm []byte, f Format) (string, error) {
	b, err := Encode(pcm, f)
	if err != nil {
		return "", err
	}

	enc := base64.StdEncoding
	out := make([]byte, len(DataURIPrefix)+enc.EncodedLen(len(b)))
	copy(out, DataURIPrefix)
	enc.Encode(out[len(DataURIPrefix):], b)

	return string(out), nil
}

// check validates everything before any output is allocated
func check(dataLen int, f Format) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if dataLen == 0 {
		return &EmptyPayloadError{}
	}
	if uint64(dataLen) > maxDataSize {
		return fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, dataLen)
	}
	return nil
}
