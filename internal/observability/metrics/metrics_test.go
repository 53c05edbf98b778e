package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestTriageMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewTriageMetrics(reg)

	m.ObserveClassification("emergency", "critical")
	m.ObserveClassification("emergency", "critical")
	m.ObserveClassification("fallback", "")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.classifications.WithLabelValues("emergency", "critical")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.classifications.WithLabelValues("fallback", "none")))
}

func TestBookingMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)

	m.ObserveAttempt("booked")
	m.ObserveAttempt("conflict")
	m.ObserveAttempt("booked")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.attempts.WithLabelValues("booked")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.attempts.WithLabelValues("conflict")))
}

func TestHTTPMetricsCustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.ObserveRequest("GET", "/api/health", 200, 0.01)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/api/health", "200")))
}

func TestMetricsNilSafe(t *testing.T) {
	var triage *TriageMetrics
	triage.ObserveClassification("fallback", "")

	var booking *BookingMetrics
	booking.ObserveAttempt("booked")

	var httpMetrics *HTTPMetrics
	httpMetrics.ObserveRequest("GET", "/", 200, 0.1)
}
