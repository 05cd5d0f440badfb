package tts

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrNoAudio is returned when the upstream answered without an audio part
var ErrNoAudio = errors.New("no audio in response")

// Request is a single narration to synthesize
type Request struct {
	Text  string
	Voice string // Optional, generator default when empty
}

// Generator turns a script into speech.
// Generate returns a data URI whose payload is raw little-endian PCM, e.g.
// data:audio/L16;codec=pcm;rate=24000;base64,...
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)

	// Name identifies the provider in logs, metrics and responses
	Name() string
}

// APIError is a non-success HTTP answer from a speech provider
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s API returned status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s API returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// Temporary reports whether the request is worth repeating
func (e *APIError) Temporary() bool {
	return isTemporaryStatus(e.StatusCode)
}

func isTemporaryStatus(code int) bool {
	return code == http.StatusTooManyRequests || code == http.StatusRequestTimeout || code >= 500
}

// IsTemporary reports whether err is an upstream answer that may succeed on retry
func IsTemporary(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}
	return false
}
