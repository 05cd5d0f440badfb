// Package studio produces playable narration for the command hub's audio
// room: a script goes to the configured speech generator and comes back as a
// WAV data URI the browser can play directly.
package studio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/commandhub/audio-studio/internal/audio"
	"github.com/commandhub/audio-studio/internal/config"
	"github.com/commandhub/audio-studio/internal/datauri"
	"github.com/commandhub/audio-studio/internal/observability"
	"github.com/commandhub/audio-studio/internal/resilience"
	"github.com/commandhub/audio-studio/internal/tts"
	"github.com/commandhub/audio-studio/internal/wav"
)

const (
	MinOutputSampleRate = 8000
	MaxOutputSampleRate = 48000
)

// GenerateRequest is one narration request from the audio room
type GenerateRequest struct {
	Script     string
	Voice      string // Optional, provider default when empty
	SampleRate int    // 0 keeps the generator's rate
	RequestID  string // Optional, used for log correlation
}

// GenerateResult is a playable clip
type GenerateResult struct {
	AudioDataURI string
	Format       wav.Format
	Bytes        int // WAV container size
	Duration     time.Duration
	Provider     string
	Silent       bool
}

// AudioService turns scripts into WAV data URIs
type AudioService struct {
	generator        tts.Generator
	breaker          *resilience.CircuitBreaker
	retry            *resilience.RetryConfig
	format           wav.Format // Assumed upstream PCM layout
	maxScriptChars   int
	attemptTimeout   time.Duration
	silenceThreshold float64
}

// NewAudioService wires a generator with the configured limits and resilience policy
func NewAudioService(gen tts.Generator, cfg *config.Config) *AudioService {
	breaker := resilience.NewCircuitBreaker(
		gen.Name(),
		cfg.CircuitBreakerMaxFailures,
		time.Duration(cfg.CircuitBreakerResetTimeout)*time.Second,
	)
	breaker.SetFailurePredicate(countsAgainstBreaker)
	breaker.SetStateObserver(func(name string, state resilience.CircuitState) {
		observability.UpdateCircuitBreakerState(name, int(state), state.String())
		logger := observability.GetLogger()
		logger.Warn().
			Str("service", name).
			Str("state", state.String()).
			Msg("Circuit breaker state changed")
	})

	return &AudioService{
		generator: gen,
		breaker:   breaker,
		retry: &resilience.RetryConfig{
			MaxAttempts:       cfg.RetryMaxAttempts,
			InitialBackoff:    time.Duration(cfg.RetryInitialBackoff) * time.Millisecond,
			MaxBackoff:        5 * time.Second,
			BackoffMultiplier: 2.0,
			Jitter:            true,
		},
		format: wav.Format{
			Channels:   cfg.AudioChannels,
			SampleRate: cfg.AudioSampleRate,
			BitDepth:   cfg.AudioBitDepth,
		},
		maxScriptChars:   cfg.MaxScriptChars,
		attemptTimeout:   cfg.GenerationTimeoutDuration(),
		silenceThreshold: cfg.SilenceThreshold,
	}
}

// Provider returns the generator name
func (s *AudioService) Provider() string {
	return s.generator.Name()
}

// Ready reports whether the service would currently call upstream
func (s *AudioService) Ready(ctx context.Context) (bool, error) {
	state, requests, failures, _ := s.breaker.GetStats()
	if state == resilience.StateOpen {
		return false, fmt.Errorf("%w: %d of %d calls failed", resilience.ErrCircuitOpen, failures, requests)
	}
	return true, nil
}

// Validate checks a request without generating anything
func (s *AudioService) Validate(req GenerateRequest) error {
	script := strings.TrimSpace(req.Script)
	if script == "" {
		return &ValidationError{Field: "script", Reason: "must not be empty"}
	}
	if n := utf8.RuneCountInString(script); n > s.maxScriptChars {
		return &ValidationError{Field: "script", Reason: "exceeds the character limit"}
	}
	if req.SampleRate != 0 && (req.SampleRate < MinOutputSampleRate || req.SampleRate > MaxOutputSampleRate) {
		return &ValidationError{Field: "sample_rate", Reason: "must be between 8000 and 48000"}
	}
	return nil
}

// Generate synthesizes req.Script and returns it as a WAV data URI.
// Validation failures are *ValidationError; everything after that matches
// ErrAudioGenerationFailed.
func (s *AudioService) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	logger := observability.WithRequestID(req.RequestID).With().
		Str("provider", s.generator.Name()).
		Logger()
	metrics := observability.NewGenerationMetrics(s.generator.Name())

	if err := s.Validate(req); err != nil {
		metrics.RecordEnd("invalid")
		logger.Debug().Err(err).Msg("Rejected audio request")
		return nil, err
	}

	result, err := s.generate(ctx, req, logger)
	if err != nil {
		var vErr *ValidationError
		switch {
		case errors.As(err, &vErr):
			metrics.RecordEnd("invalid")
		case errors.Is(err, resilience.ErrCircuitOpen):
			metrics.RecordEnd("unavailable")
		default:
			metrics.RecordEnd("error")
		}
		var gErr *GenerationError
		if errors.As(err, &gErr) {
			metrics.RecordError(gErr.Stage, "studio")
		}
		logger.Error().Err(err).Msg("Audio generation failed")
		return nil, err
	}

	metrics.RecordClip(result.Bytes, result.Duration, result.Silent)
	metrics.RecordEnd("success")

	logger.Info().
		Int("bytes", result.Bytes).
		Dur("duration", result.Duration).
		Int("sample_rate", result.Format.SampleRate).
		Bool("silent", result.Silent).
		Msg("Audio generated")

	return result, nil
}

func (s *AudioService) generate(ctx context.Context, req GenerateRequest, logger zerolog.Logger) (*GenerateResult, error) {
	uri, err := s.callGenerator(ctx, tts.Request{
		Text:  strings.TrimSpace(req.Script),
		Voice: strings.TrimSpace(req.Voice),
	}, logger)
	if err != nil {
		return nil, failed("generate", err)
	}

	pcm, format, err := s.decode(uri)
	if err != nil {
		return nil, failed("decode", err)
	}
	if err := format.Validate(); err != nil {
		return nil, failed("decode", err)
	}

	if req.SampleRate != 0 && req.SampleRate != format.SampleRate {
		if format.BitDepth != 16 {
			return nil, &ValidationError{Field: "sample_rate", Reason: "resampling requires 16-bit audio"}
		}
		// A trailing partial frame cannot be interpolated
		pcm = pcm[:len(pcm)-len(pcm)%format.BlockAlign()]
		if len(pcm) > 0 {
			pcm, err = audio.ResamplePCM16(pcm, format.Channels, format.SampleRate, req.SampleRate)
			if err != nil {
				return nil, failed("resample", err)
			}
		}
		format.SampleRate = req.SampleRate
	}

	encoded, err := wav.EncodeDataURI(pcm, format)
	if err != nil {
		return nil, failed("encode", err)
	}

	silent := false
	if format.BitDepth == 16 {
		silent = audio.DetectSilence(audio.BytesToSamples(pcm), s.silenceThreshold)
	}

	return &GenerateResult{
		AudioDataURI: encoded,
		Format:       format,
		Bytes:        wav.HeaderSize + len(pcm),
		Duration:     time.Duration(len(pcm)) * time.Second / time.Duration(format.ByteRate()),
		Provider:     s.generator.Name(),
		Silent:       silent,
	}, nil
}

// callGenerator runs one upstream call per attempt through the breaker
func (s *AudioService) callGenerator(ctx context.Context, req tts.Request, logger zerolog.Logger) (string, error) {
	var uri string
	attempt := 0

	err := resilience.Retry(ctx, func(ctx context.Context) error {
		attempt++
		return s.breaker.Call(func() error {
			attemptCtx, cancel := context.WithTimeout(ctx, s.attemptTimeout)
			defer cancel()

			out, err := s.generator.Generate(attemptCtx, req)
			if err != nil {
				logger.Warn().Err(err).Int("attempt", attempt).Msg("Generator call failed")
				return err
			}
			uri = out
			return nil
		})
	}, s.retry, func(err error) bool {
		return ctx.Err() == nil && isRetryable(err)
	})

	return uri, err
}

// decode reads the generator's data URI into PCM and its layout
func (s *AudioService) decode(uri string) ([]byte, wav.Format, error) {
	u, err := datauri.Parse(uri)
	if err != nil {
		return nil, wav.Format{}, err
	}

	if u.MIMEType == wav.MIMEType || u.MIMEType == "audio/x-wav" || u.MIMEType == "audio/wave" {
		return unwrapWav(u.Data)
	}

	format := s.format
	if rate, ok := u.IntParam("rate"); ok {
		format.SampleRate = rate
	}
	if channels, ok := u.IntParam("channels"); ok {
		format.Channels = channels
	}
	return u.Data, format, nil
}

// unwrapWav accepts an upstream that already answered with a canonical WAV
func unwrapWav(b []byte) ([]byte, wav.Format, error) {
	h, err := wav.ParseHeader(b)
	if err != nil {
		return nil, wav.Format{}, err
	}
	end := min(len(b), wav.HeaderSize+int(h.DataSize))
	return bytes.Clone(b[wav.HeaderSize:end]), h.Format(), nil
}

func isRetryable(err error) bool {
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return false
	}
	return tts.IsTemporary(err) || errors.Is(err, context.DeadlineExceeded) || resilience.IsRetryableNetworkError(err)
}

// countsAgainstBreaker ignores caller cancellations and request-specific rejections
func countsAgainstBreaker(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *tts.APIError
	if errors.As(err, &apiErr) && !apiErr.Temporary() && apiErr.StatusCode < http.StatusInternalServerError {
		return false
	}
	return true
}
