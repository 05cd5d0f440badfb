package studio

import (
	"errors"
	"fmt"
)

var (
	// ErrAudioGenerationFailed is the single failure callers see once a request was accepted
	ErrAudioGenerationFailed = errors.New("audio generation failed")

	// ErrInvalidRequest marks requests rejected before any upstream call
	ErrInvalidRequest = errors.New("invalid audio request")
)

// ValidationError describes a rejected request field
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidRequest, e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidRequest) match
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidRequest
}

// GenerationError wraps the cause of a failed generation
type GenerationError struct {
	Stage string // generate, decode, resample, encode
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s (%s): %v", ErrAudioGenerationFailed, e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrAudioGenerationFailed) match
func (e *GenerationError) Is(target error) bool {
	return target == ErrAudioGenerationFailed
}

func failed(stage string, err error) error {
	return &GenerationError{Stage: stage, Err: err}
}
