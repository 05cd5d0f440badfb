package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	ProviderGemini   = "gemini"
	ProviderCartesia = "cartesia"
)

// Config holds all configuration for the audio studio service
type Config struct {
	// Server configuration
	Port           string `envconfig:"PORT" default:"8080"`
	GRPCHealthPort string `envconfig:"GRPC_HEALTH_PORT" default:"9090"` // Empty disables the gRPC health server
	MaxBodyBytes   int64  `envconfig:"MAX_BODY_BYTES" default:"1048576"`

	// Speech generator selection: gemini or cartesia
	TTSProvider string `envconfig:"TTS_PROVIDER" default:"gemini"`

	// Gemini (Google GenAI) speech generation
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	GeminiModel  string `envconfig:"GEMINI_TTS_MODEL" default:"gemini-2.5-flash-preview-tts"`
	GeminiVoice  string `envconfig:"GEMINI_VOICE" default:"Algenib"`

	// Cartesia TTS API configuration
	CartesiaAPIKey  string `envconfig:"CARTESIA_API_KEY"`
	CartesiaAPIURL  string `envconfig:"CARTESIA_API_URL" default:"https://api.cartesia.ai/tts/bytes"`
	CartesiaVoiceID string `envconfig:"CARTESIA_VOICE_ID" default:"sonic-english"` // Voice ID for Cartesia
	CartesiaModelID string `envconfig:"CARTESIA_MODEL_ID" default:"sonic"`         // Model ID (sonic, etc.)

	// PCM produced by the generators, used when the payload does not say otherwise
	AudioChannels   int `envconfig:"AUDIO_CHANNELS" default:"1"`
	AudioSampleRate int `envconfig:"AUDIO_SAMPLE_RATE" default:"24000"`
	AudioBitDepth   int `envconfig:"AUDIO_BIT_DEPTH" default:"16"`

	// Request limits
	MaxScriptChars    int     `envconfig:"MAX_SCRIPT_CHARS" default:"5000"`
	GenerationTimeout int     `envconfig:"GENERATION_TIMEOUT" default:"60"`   // seconds, per upstream attempt
	SilenceThreshold  float64 `envconfig:"SILENCE_THRESHOLD" default:"100.0"` // RMS below which a clip is reported silent

	// Resilience configuration
	CircuitBreakerMaxFailures  int `envconfig:"CIRCUIT_BREAKER_MAX_FAILURES" default:"5"`   // Failures before opening circuit
	CircuitBreakerResetTimeout int `envconfig:"CIRCUIT_BREAKER_RESET_TIMEOUT" default:"30"` // Seconds before attempting recovery
	RetryMaxAttempts           int `envconfig:"RETRY_MAX_ATTEMPTS" default:"3"`             // Maximum retry attempts
	RetryInitialBackoff        int `envconfig:"RETRY_INITIAL_BACKOFF" default:"250"`        // Initial backoff in milliseconds

	// Observability configuration
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`       // Log level: debug, info, warn, error
	LogPretty      bool   `envconfig:"LOG_PRETTY" default:"false"`     // Pretty print logs (for development)
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"` // Enable Prometheus metrics
}

// Load reads configuration from environment variables
// It first attempts to load from .env file if it exists, then from environment
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	return LoadFromEnv()
}

// LoadFromEnv loads configuration directly from environment variables
// without attempting to load .env file (useful for containerized deployments)
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks provider credentials and numeric ranges
func (c *Config) Validate() error {
	c.TTSProvider = strings.ToLower(strings.TrimSpace(c.TTSProvider))

	switch c.TTSProvider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when TTS_PROVIDER=gemini")
		}
	case ProviderCartesia:
		if c.CartesiaAPIKey == "" {
			return fmt.Errorf("CARTESIA_API_KEY is required when TTS_PROVIDER=cartesia")
		}
	default:
		return fmt.Errorf("unknown TTS_PROVIDER %q (want %s or %s)", c.TTSProvider, ProviderGemini, ProviderCartesia)
	}

	if c.AudioChannels <= 0 || c.AudioSampleRate <= 0 || c.AudioBitDepth <= 0 || c.AudioBitDepth%8 != 0 {
		return fmt.Errorf("invalid audio format: channels=%d sample_rate=%d bit_depth=%d",
			c.AudioChannels, c.AudioSampleRate, c.AudioBitDepth)
	}
	if c.MaxScriptChars <= 0 {
		return fmt.Errorf("MAX_SCRIPT_CHARS must be positive")
	}
	if c.GenerationTimeout <= 0 {
		return fmt.Errorf("GENERATION_TIMEOUT must be positive")
	}

	return nil
}

// GenerationTimeoutDuration returns the per-attempt upstream timeout
func (c *Config) GenerationTimeoutDuration() time.Duration {
	return time.Duration(c.GenerationTimeout) * time.Second
}
