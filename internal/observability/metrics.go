package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsloom_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "newsloom_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// FeedConnectionsTotal is the gauge of active WebSocket feed connections.
	FeedConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "newsloom_feed_connections_total",
		Help: "Number of active WebSocket feed connections",
	})

	// FeedEventsTotal counts feed events broadcast to subscribers by type.
	FeedEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsloom_feed_events_total",
		Help: "Total feed events broadcast by event type",
	}, []string{"event_type"})

	// FeedBackpressureDrops counts feed events dropped because a subscriber
	// could not keep up.
	FeedBackpressureDrops = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newsloom_feed_backpressure_drops_total",
		Help: "Total feed events dropped due to slow subscribers",
	})

	// IngestionRunsTotal counts ingestion pipeline runs by trigger source.
	IngestionRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsloom_ingestion_runs_total",
		Help: "Total ingestion pipeline runs by trigger",
	}, []string{"trigger"})

	// IngestionArticlesTotal counts articles handled by the pipeline by outcome.
	IngestionArticlesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsloom_ingestion_articles_total",
		Help: "Total articles handled by the ingestion pipeline by outcome",
	}, []string{"outcome"})

	// RewriteLatency records generative rewrite latency per topic category.
	RewriteLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "newsloom_rewrite_latency_seconds",
		Help:    "Generative article rewrite latency in seconds",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30},
	}, []string{"category"})
)

// Article outcome label values for IngestionArticlesTotal.
const (
	OutcomeIngested  = "ingested"
	OutcomeDuplicate = "duplicate"
	OutcomeSkipped   = "skipped"
	OutcomeFailed    = "failed"
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}

// FeedMetrics tracks WebSocket feed connection counts and event throughput.
type FeedMetrics struct{}

// NewFeedMetrics returns a new FeedMetrics instance.
func NewFeedMetrics() *FeedMetrics {
	return &FeedMetrics{}
}

// ConnectionOpened increments the active feed connection gauge.
func (*FeedMetrics) ConnectionOpened() {
	FeedConnectionsTotal.Inc()
}

// ConnectionClosed decrements the active feed connection gauge.
func (*FeedMetrics) ConnectionClosed() {
	FeedConnectionsTotal.Dec()
}

// RecordEvent increments the feed event counter for the event type.
func (*FeedMetrics) RecordEvent(eventType string) {
	FeedEventsTotal.WithLabelValues(eventType).Inc()
}

// RecordDrop increments the backpressure drop counter.
func (*FeedMetrics) RecordDrop() {
	FeedBackpressureDrops.Inc()
}
