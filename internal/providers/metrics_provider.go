package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"rpd/internal/structures"
	"time"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncRedditRequests(endpoint string, status int)
	ObserveRedditRequestDuration(endpoint string, duration time.Duration)
	IncRecordsQuarantined()
	IncPersonasBuilt()
	ObservePersistDuration(duration time.Duration)
	SetArchivedUsers(count int)
}

type MetricsProvider struct {
	requestsTotal      *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	cacheHits          prometheus.Counter
	cacheMisses        prometheus.Counter
	redditRequests     *prometheus.CounterVec
	redditDuration     *prometheus.HistogramVec
	recordsQuarantined prometheus.Counter
	personasBuilt      prometheus.Counter
	persistDuration    prometheus.Histogram
	archivedUsers      prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncRedditRequests(endpoint string, status int) {
	m.redditRequests.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRedditRequestDuration(endpoint string, duration time.Duration) {
	m.redditDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncRecordsQuarantined() {
	m.recordsQuarantined.Inc()
}

func (m *MetricsProvider) IncPersonasBuilt() {
	m.personasBuilt.Inc()
}

func (m *MetricsProvider) ObservePersistDuration(duration time.Duration) {
	m.persistDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) SetArchivedUsers(count int) {
	m.archivedUsers.Set(float64(count))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rpd_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rpd_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rpd_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rpd_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		redditRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rpd_reddit_requests_total",
			Help: "Total number of requests issued to the Reddit API",
		}, []string{"endpoint", "status"}),

		redditDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rpd_reddit_request_duration_seconds",
			Help:    "Reddit API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		recordsQuarantined: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rpd_records_quarantined_total",
			Help: "Total number of activity records dropped at ingestion",
		}),

		personasBuilt: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rpd_personas_built_total",
			Help: "Total number of persona reports aggregated",
		}),

		persistDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rpd_archive_persist_duration_seconds",
			Help:    "Duration of archive persistence operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		archivedUsers: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "rpd_archived_users",
			Help: "Number of users currently held in the activity store",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                       {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)       {}
func (n *noopMetrics) IncCacheHits()                                          {}
func (n *noopMetrics) IncCacheMisses()                                        {}
func (n *noopMetrics) IncRedditRequests(_ string, _ int)                      {}
func (n *noopMetrics) ObserveRedditRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncRecordsQuarantined()                                 {}
func (n *noopMetrics) IncPersonasBuilt()                                      {}
func (n *noopMetrics) ObservePersistDuration(_ time.Duration)                 {}
func (n *noopMetrics) SetArchivedUsers(_ int)                                 {}
