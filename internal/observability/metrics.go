package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Request metrics
	generationRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "audio_studio_generation_requests_total",
		Help: "Total number of audio generation requests",
	}, []string{"provider", "status"})

	generationLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "audio_studio_generation_latency_seconds",
		Help:    "End-to-end audio generation latency in seconds",
		Buckets: []float64{0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0},
	}, []string{"provider"})

	activeStreams = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "audio_studio_active_streams",
		Help: "Number of open websocket streams",
	})

	// Encoder metrics
	encodedBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "audio_studio_encoded_bytes_total",
		Help: "Total WAV bytes produced",
	})

	audioSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "audio_studio_audio_duration_seconds",
		Help:    "Duration of generated clips in seconds",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
	})

	silentClips = promauto.NewCounter(prometheus.CounterOpts{
		Name: "audio_studio_silent_clips_total",
		Help: "Generated clips whose RMS fell below the silence threshold",
	})

	// Error metrics
	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "audio_studio_errors_total",
		Help: "Total number of errors",
	}, []string{"type", "component"})

	// Circuit breaker metrics
	circuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "audio_studio_circuit_breaker_state",
		Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
	}, []string{"service"})

	circuitBreakerTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "audio_studio_circuit_breaker_transitions_total",
		Help: "Circuit breaker state transitions",
	}, []string{"service", "state"})
)

// Metrics tracks metrics for a single generation request
type Metrics struct {
	provider  string
	startTime time.Time
}

// NewGenerationMetrics starts timing a generation request
func NewGenerationMetrics(provider string) *Metrics {
	return &Metrics{
		provider:  provider,
		startTime: time.Now(),
	}
}

// RecordEnd records latency and outcome; status is e.g. "success", "invalid", "error"
func (m *Metrics) RecordEnd(status string) {
	generationLatency.WithLabelValues(m.provider).Observe(time.Since(m.startTime).Seconds())
	generationRequests.WithLabelValues(m.provider, status).Inc()
}

// RecordClip records a successfully encoded clip
func (m *Metrics) RecordClip(wavBytes int, duration time.Duration, silent bool) {
	encodedBytes.Add(float64(wavBytes))
	audioSeconds.Observe(duration.Seconds())
	if silent {
		silentClips.Inc()
	}
}

// RecordError records an error
func (m *Metrics) RecordError(errorType, component string) {
	errorsTotal.WithLabelValues(errorType, component).Inc()
}

// StreamOpened tracks a new websocket stream
func StreamOpened() {
	activeStreams.Inc()
}

// StreamClosed tracks a closed websocket stream
func StreamClosed() {
	activeStreams.Dec()
}

// UpdateCircuitBreakerState updates circuit breaker state metric
func UpdateCircuitBreakerState(service string, state int, stateName string) {
	circuitBreakerState.WithLabelValues(service).Set(float64(state))
	circuitBreakerTransitions.WithLabelValues(service, stateName).Inc()
}
