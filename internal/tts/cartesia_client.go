package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/commandhub/audio-studio/internal/config"
	"github.com/commandhub/audio-studio/internal/datauri"
	"github.com/commandhub/audio-studio/internal/observability"
)

const (
	cartesiaSampleRate = 24000
	cartesiaVersion    = "2024-06-10"
	maxErrorBody       = 512
)

// CartesiaGenerator implements Generator using Cartesia's bytes endpoint
type CartesiaGenerator struct {
	apiKey     string
	apiURL     string
	voiceID    string
	modelID    string
	httpClient *http.Client
}

type cartesiaVoice struct {
	Mode string `json:"mode"`
	ID   string `json:"id"`
}

type cartesiaOutputFormat struct {
	Container  string `json:"container"`
	Encoding   string `json:"encoding"`
	SampleRate int    `json:"sample_rate"`
}

// CartesiaRequest represents the request payload for Cartesia TTS API
type CartesiaRequest struct {
	ModelID      string               `json:"model_id"`
	Transcript   string               `json:"transcript"`
	Voice        cartesiaVoice        `json:"voice"`
	OutputFormat cartesiaOutputFormat `json:"output_format"`
}

// NewCartesiaGenerator creates a new Cartesia TTS generator
func NewCartesiaGenerator(cfg *config.Config, httpClient *http.Client) *CartesiaGenerator {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.GenerationTimeoutDuration()}
	}
	return &CartesiaGenerator{
		apiKey:     cfg.CartesiaAPIKey,
		apiURL:     cfg.CartesiaAPIURL,
		voiceID:    cfg.CartesiaVoiceID,
		modelID:    cfg.CartesiaModelID,
		httpClient: httpClient,
	}
}

// Name returns the provider name
func (c *CartesiaGenerator) Name() string {
	return config.ProviderCartesia
}

// Generate requests raw 16-bit PCM and wraps it in an audio/L16 data URI
func (c *CartesiaGenerator) Generate(ctx context.Context, req Request) (string, error) {
	voice := req.Voice
	if voice == "" {
		voice = c.voiceID
	}

	reqBody := CartesiaRequest{
		ModelID:    c.modelID,
		Transcript: req.Text,
		Voice:      cartesiaVoice{Mode: "id", ID: voice},
		OutputFormat: cartesiaOutputFormat{
			Container:  "raw",
			Encoding:   "pcm_s16le",
			SampleRate: cartesiaSampleRate,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-API-Key", c.apiKey)
	httpReq.Header.Set("Cartesia-Version", cartesiaVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &APIError{
			Provider:   config.ProviderCartesia,
			StatusCode: resp.StatusCode,
			Body:       string(bytes.TrimSpace(body)),
		}
	}

	pcm, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read cartesia audio: %w", err)
	}

	logger := observability.GetLogger()
	logger.Debug().
		Int("bytes", len(pcm)).
		Str("voice", voice).
		Msg("Cartesia synthesis complete")

	u := &datauri.URI{
		MIMEType: "audio/l16",
		Params: map[string]string{
			"codec": "pcm",
			"rate":  strconv.Itoa(cartesiaSampleRate),
		},
		Data: pcm,
	}
	return u.String("codec", "rate"), nil
}
