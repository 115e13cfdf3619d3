package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	httpRequestsTotal      *prometheus.CounterVec
	httpLatencySeconds     *prometheus.HistogramVec
	httpErrorsTotal        *prometheus.CounterVec
	quorumDecisionsTotal   *prometheus.CounterVec
	leaderboardComputation prometheus.Histogram
)

// RegisterMetrics initialises the Prometheus collectors shared across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "projectdesk",
			Name:      "http_requests_total",
			Help:      "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "projectdesk",
			Name:      "http_latency_seconds",
			Help:      "Latency distribution for API requests.",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "projectdesk",
			Name:      "http_errors_total",
			Help:      "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		quorumDecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "projectdesk",
			Name:      "quorum_decisions_total",
			Help:      "Submission quorum outcomes observed after votes.",
		}, []string{"outcome"})

		leaderboardComputation = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "projectdesk",
			Name:      "leaderboard_computation_seconds",
			Help:      "Time spent computing project leaderboards.",
		})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			quorumDecisionsTotal,
			leaderboardComputation,
		)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for API error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// QuorumDecisions exposes the counter for submission quorum outcomes.
func QuorumDecisions() *prometheus.CounterVec {
	RegisterMetrics()
	return quorumDecisionsTotal
}

// LeaderboardComputation exposes the histogram for leaderboard compute time.
func LeaderboardComputation() prometheus.Histogram {
	RegisterMetrics()
	return leaderboardComputation
}
