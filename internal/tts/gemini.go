package tts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/commandhub/audio-studio/internal/config"
	"github.com/commandhub/audio-studio/internal/datauri"
	"github.com/commandhub/audio-studio/internal/observability"
)

// GeminiGenerator implements Generator with Gemini's native speech models
type GeminiGenerator struct {
	client *genai.Client
	model  string
	voice  string
}

// NewGeminiGenerator creates a Gemini client for speech generation
func NewGeminiGenerator(ctx context.Context, cfg *config.Config) (*GeminiGenerator, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiGenerator{
		client: client,
		model:  cfg.GeminiModel,
		voice:  cfg.GeminiVoice,
	}, nil
}

// Name returns the provider name
func (g *GeminiGenerator) Name() string {
	return config.ProviderGemini
}

// Generate asks the model for an audio-only answer spoken in the requested voice
func (g *GeminiGenerator) Generate(ctx context.Context, req Request) (string, error) {
	voice := req.Voice
	if voice == "" {
		voice = g.voice
	}

	contents := []*genai.Content{
		genai.NewContentFromText(req.Text, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, speechConfig(voice))
	if err != nil {
		return "", classifyGeminiError(err)
	}

	uri, err := audioFromResponse(result)
	if err != nil {
		return "", err
	}

	logger := observability.GetLogger()
	logger.Debug().
		Str("model", g.model).
		Str("voice", voice).
		Msg("Gemini synthesis complete")

	return uri, nil
}

func speechConfig(voice string) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
					VoiceName: voice,
				},
			},
		},
	}
}

// audioFromResponse returns the first inline audio part as a data URI
func audioFromResponse(result *genai.GenerateContentResponse) (string, error) {
	if result == nil || len(result.Candidates) == 0 {
		return "", ErrNoAudio
	}

	for _, cand := range result.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			mime := part.InlineData.MIMEType
			if mime == "" {
				mime = "audio/L16;codec=pcm;rate=24000"
			}
			if !strings.HasPrefix(strings.ToLower(mime), "audio/") {
				continue
			}
			return datauri.Encode(mime, part.InlineData.Data), nil
		}
	}

	return "", ErrNoAudio
}

// classifyGeminiError marks throttling and server faults as temporary
func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &APIError{
			Provider:   config.ProviderGemini,
			StatusCode: apiErr.Code,
			Body:       apiErr.Message,
		}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &APIError{
			Provider:   config.ProviderGemini,
			StatusCode: apiErrPtr.Code,
			Body:       apiErrPtr.Message,
		}
	}
	return fmt.Errorf("gemini generate failed: %w", err)
}
