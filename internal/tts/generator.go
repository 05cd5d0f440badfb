package tts

import (
	"context"
	"fmt"

	"github.com/commandhub/audio-studio/internal/config"
)

// New builds the generator selected by TTS_PROVIDER
func New(ctx context.Context, cfg *config.Config) (Generator, error) {
	switch cfg.TTSProvider {
	case config.ProviderGemini:
		return NewGeminiGenerator(ctx, cfg)
	case config.ProviderCartesia:
		return NewCartesiaGenerator(cfg, nil), nil
	default:
		return nil, fmt.Errorf("unknown TTS provider %q", cfg.TTSProvider)
	}
}
