package tts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/genai"

	"github.com/commandhub/audio-studio/internal/config"
	"github.com/commandhub/audio-studio/internal/datauri"
)

func TestGeminiGenerator_Generate(t *testing.T) {
	pcm := []byte{0x01, 0x00, 0x02, 0x00}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "gemini-2.5-flash-preview-tts:generateContent") {
			t.Errorf("Unexpected path '%s'", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(&genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{
					Role: "model",
					Parts: []*genai.Part{
						{InlineData: &genai.Blob{MIMEType: "audio/L16;codec=pcm;rate=24000", Data: pcm}},
					},
				},
			}},
		})
	}))
	defer server.Close()

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: server.URL + "/"},
	})
	if err != nil {
		t.Fatalf("NewClient() failed: %v", err)
	}
	g := &GeminiGenerator{client: client, model: "gemini-2.5-flash-preview-tts", voice: "Kore"}

	uri, err := g.Generate(context.Background(), Request{Text: "Weekly revenue summary"})
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	parsed, err := datauri.Parse(uri)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if string(parsed.Data) != string(pcm) {
		t.Errorf("Expected payload %v, got %v", pcm, parsed.Data)
	}
}

func TestAudioFromResponse(t *testing.T) {
	pcm := []byte{0x10, 0x00, 0x20, 0x00}
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Parts: []*genai.Part{
					{Text: "ignored"},
					{InlineData: &genai.Blob{MIMEType: "audio/L16;codec=pcm;rate=24000", Data: pcm}},
				},
			},
		}},
	}

	uri, err := audioFromResponse(resp)
	if err != nil {
		t.Fatalf("audioFromResponse() failed: %v", err)
	}

	parsed, err := datauri.Parse(uri)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if parsed.MIMEType != "audio/l16" {
		t.Errorf("Expected audio/l16, got '%s'", parsed.MIMEType)
	}
	if rate, _ := parsed.IntParam("rate"); rate != 24000 {
		t.Errorf("Expected rate 24000, got %d", rate)
	}
	if string(parsed.Data) != string(pcm) {
		t.Errorf("Expected payload %v, got %v", pcm, parsed.Data)
	}
}

func TestAudioFromResponse_NoAudio(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
	}{
		{"nil response", nil},
		{"no candidates", &genai.GenerateContentResponse{}},
		{"nil content", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}},
		{"text only", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: "I cannot speak"}}},
		}}}},
		{"non-audio inline data", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte{1}}}}},
		}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := audioFromResponse(tt.resp)
			if !errors.Is(err, ErrNoAudio) {
				t.Errorf("Expected ErrNoAudio, got %v", err)
			}
		})
	}
}

func TestAudioFromResponse_DefaultMIME(t *testing.T) {
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []*genai.Part{{InlineData: &genai.Blob{Data: []byte{0, 0}}}}},
	}}}

	uri, err := audioFromResponse(resp)
	if err != nil {
		t.Fatalf("audioFromResponse() failed: %v", err)
	}
	if uri != "data:audio/L16;codec=pcm;rate=24000;base64,AAA=" {
		t.Errorf("Unexpected URI: %s", uri)
	}
}

func TestSpeechConfig(t *testing.T) {
	cfg := speechConfig("Kore")

	if len(cfg.ResponseModalities) != 1 || cfg.ResponseModalities[0] != "AUDIO" {
		t.Errorf("Expected AUDIO modality, got %v", cfg.ResponseModalities)
	}
	if cfg.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName != "Kore" {
		t.Errorf("Expected voice 'Kore', got '%s'", cfg.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName)
	}
}

func TestClassifyGeminiError(t *testing.T) {
	err := classifyGeminiError(genai.APIError{Code: 429, Message: "quota"})
	if !IsTemporary(err) {
		t.Errorf("Expected 429 to be temporary, got %v", err)
	}

	err = classifyGeminiError(genai.APIError{Code: 400, Message: "bad voice"})
	if IsTemporary(err) {
		t.Errorf("Expected 400 not to be temporary, got %v", err)
	}

	cause := errors.New("dial tcp: connection refused")
	err = classifyGeminiError(cause)
	if !errors.Is(err, cause) {
		t.Errorf("Expected cause to be wrapped, got %v", err)
	}
}

func TestNewGeminiGenerator_RequiresKey(t *testing.T) {
	if _, err := NewGeminiGenerator(context.Background(), &config.Config{}); err == nil {
		t.Error("Expected error without API key")
	}
}

func TestNew(t *testing.T) {
	gen, err := New(context.Background(), &config.Config{
		TTSProvider:       config.ProviderCartesia,
		CartesiaAPIKey:    "k",
		GenerationTimeout: 1,
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if gen.Name() != config.ProviderCartesia {
		t.Errorf("Expected cartesia generator, got '%s'", gen.Name())
	}

	if _, err := New(context.Background(), &config.Config{TTSProvider: "espeak"}); err == nil {
		t.Error("Expected error for unknown provider")
	}
}
