package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/commandhub/audio-studio/internal/observability"
)

// RouterConfig collects what NewRouter needs besides the generator
type RouterConfig struct {
	MaxBodyBytes   int64
	MetricsEnabled bool
	ReadyChecks    map[string]observability.HealthCheckFunc
}

// NewRouter registers the audio, health and metrics endpoints
func NewRouter(gen AudioGenerator, cfg RouterConfig) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/v1/audio", HandleGenerate(gen, cfg.MaxBodyBytes))
	mux.HandleFunc("/v1/audio/stream", HandleStream(gen, cfg.MaxBodyBytes))

	mux.HandleFunc("/health", observability.HealthCheckHandler())
	mux.HandleFunc("/ready", observability.ReadinessHandler(cfg.ReadyChecks))

	if cfg.MetricsEnabled {
		mux.Handle("/metrics", promhttp.Handler())
	}

	return mux
}
