package providers

import (
	"testing"
	"time"

	"rpd/internal/structures"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestNoopMetrics_WhenDisabled(t *testing.T) {
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: false},
	}
	m := NewMetricsProvider(conf)
	_, ok := m.(*noopMetrics)
	assert.True(t, ok, "should return noopMetrics when disabled")

	// Ensure no-op methods don't panic
	m.IncRequestsTotal("/persona", 200)
	m.ObserveRequestDuration("/persona", time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.IncRedditRequests("about", 200)
	m.ObserveRedditRequestDuration("about", time.Millisecond)
	m.IncRecordsQuarantined()
	m.IncPersonasBuilt()
	m.ObservePersistDuration(time.Millisecond)
	m.SetArchivedUsers(10)
}

func TestMetricsProvider_WhenEnabled(t *testing.T) {
	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	defer func() {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()
		prometheus.DefaultGatherer = prometheus.DefaultRegisterer.(prometheus.Gatherer)
	}()

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf)
	_, ok := m.(*MetricsProvider)
	assert.True(t, ok, "should return MetricsProvider when enabled")
}

func TestMetricsProvider_RecordObservations(t *testing.T) {
	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	defer func() {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()
		prometheus.DefaultGatherer = prometheus.DefaultRegisterer.(prometheus.Gatherer)
	}()

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf)

	// These should not panic
	m.IncRequestsTotal("/persona", 200)
	m.IncRequestsTotal("/persona", 404)
	m.ObserveRequestDuration("/persona", 5*time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.IncRedditRequests("comments", 200)
	m.ObserveRedditRequestDuration("comments", 80*time.Millisecond)
	m.IncRecordsQuarantined()
	m.IncPersonasBuilt()
	m.ObservePersistDuration(100 * time.Millisecond)
	m.SetArchivedUsers(42)
}

func TestHttpStatusBucket(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{100, "1xx"},
		{200, "2xx"},
		{201, "2xx"},
		{301, "3xx"},
		{400, "4xx"},
		{404, "4xx"},
		{422, "4xx"},
		{500, "5xx"},
		{502, "5xx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, httpStatusBucket(tt.code))
	}
}
