package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Engine metrics
var (
	// RunsTotal counts analysis runs by outcome ("ok", "truncated", or a run error kind)
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commentflow_runs_total",
			Help: "Total analysis runs by outcome",
		},
		[]string{"outcome"},
	)

	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "commentflow_run_duration_seconds",
			Help:    "Analysis run duration in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"provider"},
	)

	CommentsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commentflow_comments_processed_total",
			Help: "Top-level comments processed by provider",
		},
		[]string{"provider"},
	)

	ProviderCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commentflow_provider_calls_total",
			Help: "Sentiment provider calls by provider",
		},
		[]string{"provider"},
	)

	// ProviderFailures counts calls that failed and were replaced by a neutral result
	ProviderFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commentflow_provider_failures_total",
			Help: "Sentiment provider failures recovered as neutral, by provider",
		},
		[]string{"provider"},
	)
)

// Client metrics
var (
	YouTubeRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commentflow_youtube_requests_total",
			Help: "YouTube Data API requests by endpoint and status code",
		},
		[]string{"endpoint", "status"},
	)

	RunStoreOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commentflow_run_store_operations_total",
			Help: "Run store operations by operation and status",
		},
		[]string{"operation", "status"},
	)

	AnalyzerHealthy = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "commentflow_analyzer_healthy",
			Help: "1 when the remote sentiment analyzer passed its last health check",
		},
	)
)

// Worker metrics
var (
	WorkerMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commentflow_worker_messages_total",
			Help: "Analysis request messages handled by result status",
		},
		[]string{"status"},
	)

	ArchivedSummaries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commentflow_archived_summaries_total",
			Help: "Summaries written to the archive table, by outcome",
		},
		[]string{"outcome"},
	)
)
