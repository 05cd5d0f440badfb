package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestGenerationMetrics(t *testing.T) {
	before := testutil.ToFloat64(generationRequests.WithLabelValues("test", "success"))
	silentBefore := testutil.ToFloat64(silentClips)
	bytesBefore := testutil.ToFloat64(encodedBytes)

	m := NewGenerationMetrics("test")
	m.RecordClip(1044, 500*time.Millisecond, true)
	m.RecordEnd("success")

	if got := testutil.ToFloat64(generationRequests.WithLabelValues("test", "success")); got != before+1 {
		t.Errorf("Expected %v requests, got %v", before+1, got)
	}
	if got := testutil.ToFloat64(silentClips); got != silentBefore+1 {
		t.Errorf("Expected %v silent clips, got %v", silentBefore+1, got)
	}
	if got := testutil.ToFloat64(encodedBytes); got != bytesBefore+1044 {
		t.Errorf("Expected %v encoded bytes, got %v", bytesBefore+1044, got)
	}
}

func TestUpdateCircuitBreakerState(t *testing.T) {
	UpdateCircuitBreakerState("test-breaker", 1, "open")

	if got := testutil.ToFloat64(circuitBreakerState.WithLabelValues("test-breaker")); got != 1 {
		t.Errorf("Expected state 1, got %v", got)
	}
	if got := testutil.ToFloat64(circuitBreakerTransitions.WithLabelValues("test-breaker", "open")); got != 1 {
		t.Errorf("Expected 1 transition, got %v", got)
	}
}

func TestStreamGauge(t *testing.T) {
	before := testutil.ToFloat64(activeStreams)
	StreamOpened()
	StreamClosed()
	if got := testutil.ToFloat64(activeStreams); got != before {
		t.Errorf("Expected gauge back at %v, got %v", before, got)
	}
}
