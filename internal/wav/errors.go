package wav

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidFormat     = errors.New("invalid PCM format")
	ErrEmptyPayload      = errors.New("empty PCM payload")
	ErrPayloadTooLarge   = errors.New("PCM payload too large for a WAV container")
	ErrNotWav            = errors.New("not a WAV file")
	ErrUnsupportedLayout = errors.New("unsupported WAV layout")
)

// InvalidFormatError reports a format parameter the encoder cannot write
type InvalidFormatError struct {
	Field  string
	Value  int
	Reason string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("%s: %s %d %s", ErrInvalidFormat, e.Field, e.Value, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidFormat) match
func (e *InvalidFormatError) Is(target error) bool {
	return target == ErrInvalidFormat
}

// EmptyPayloadError reports a zero-length PCM body. Upstream generators that
// return nothing have failed; a silent clip still carries samples.
type EmptyPayloadError struct{}

func (e *EmptyPayloadError) Error() string {
	return ErrEmptyPayload.Error()
}

// Is makes errors.Is(err, ErrEmptyPayload) match
func (e *EmptyPayloadError) Is(target error) bool {
	return target == ErrEmptyPayload
}
