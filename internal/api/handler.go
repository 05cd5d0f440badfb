// Package api exposes the audio studio over HTTP and websocket.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/commandhub/audio-studio/internal/observability"
	"github.com/commandhub/audio-studio/internal/resilience"
	"github.com/commandhub/audio-studio/internal/studio"
)

const requestIDHeader = "X-Request-ID"

// AudioGenerator is the part of studio.AudioService the transport needs
type AudioGenerator interface {
	Generate(ctx context.Context, req studio.GenerateRequest) (*studio.GenerateResult, error)
}

// AudioRequest is the JSON body of POST /v1/audio and of each stream frame
type AudioRequest struct {
	ID         string `json:"id,omitempty"` // Stream only, echoed in the reply
	Script     string `json:"script"`
	Voice      string `json:"voice,omitempty"`
	SampleRate int    `json:"sample_rate,omitempty"`
}

// FormatResponse describes the encoded PCM layout
type FormatResponse struct {
	Channels   int `json:"channels"`
	SampleRate int `json:"sample_rate"`
	BitDepth   int `json:"bit_depth"`
}

// AudioResponse is a generated clip, or an error when Error is set
type AudioResponse struct {
	ID         string          `json:"id,omitempty"`
	RequestID  string          `json:"request_id,omitempty"`
	Audio      string          `json:"audio,omitempty"`
	Format     *FormatResponse `json:"format,omitempty"`
	Bytes      int             `json:"bytes,omitempty"`
	DurationMs int64           `json:"duration_ms,omitempty"`
	Provider   string          `json:"provider,omitempty"`
	Silent     bool            `json:"silent,omitempty"`
	Error      string          `json:"error,omitempty"`
}

func newAudioResponse(res *studio.GenerateResult) AudioResponse {
	return AudioResponse{
		Audio: res.AudioDataURI,
		Format: &FormatResponse{
			Channels:   res.Format.Channels,
			SampleRate: res.Format.SampleRate,
			BitDepth:   res.Format.BitDepth,
		},
		Bytes:      res.Bytes,
		DurationMs: res.Duration.Milliseconds(),
		Provider:   res.Provider,
		Silent:     res.Silent,
	}
}

// errorStatus maps service errors to an HTTP status and a client-safe message.
// Upstream details stay in the logs.
func errorStatus(err error) (int, string) {
	var vErr *studio.ValidationError
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest, vErr.Error()
	case errors.Is(err, resilience.ErrCircuitOpen):
		return http.StatusServiceUnavailable, studio.ErrAudioGenerationFailed.Error()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, studio.ErrAudioGenerationFailed.Error()
	default:
		return http.StatusBadGateway, studio.ErrAudioGenerationFailed.Error()
	}
}

// HandleGenerate serves POST /v1/audio
func HandleGenerate(gen AudioGenerator, maxBodyBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = observability.NewCorrelationID()
		}
		w.Header().Set(requestIDHeader, requestID)
		logger := observability.WithRequestID(requestID)

		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeJSON(w, http.StatusMethodNotAllowed, AudioResponse{RequestID: requestID, Error: "method not allowed"})
			return
		}

		var req AudioRequest
		body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeJSON(w, http.StatusRequestEntityTooLarge, AudioResponse{RequestID: requestID, Error: "request body too large"})
				return
			}
			logger.Debug().Err(err).Msg("Invalid request body")
			writeJSON(w, http.StatusBadRequest, AudioResponse{RequestID: requestID, Error: "invalid JSON body"})
			return
		}

		res, err := gen.Generate(r.Context(), studio.GenerateRequest{
			Script:     req.Script,
			Voice:      req.Voice,
			SampleRate: req.SampleRate,
			RequestID:  requestID,
		})
		if err != nil {
			code, msg := errorStatus(err)
			writeJSON(w, code, AudioResponse{RequestID: requestID, Error: msg})
			return
		}

		resp := newAudioResponse(res)
		resp.RequestID = requestID
		writeJSON(w, http.StatusOK, resp)
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger := observability.GetLogger()
		logger.Warn().Err(err).Msg("Failed to write response")
	}
}
