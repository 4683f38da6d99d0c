package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pagelab/reflow/layout"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reflow_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reflow_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Analysis metrics
	analyzeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reflow_analyze_requests_total",
			Help: "Total number of analysis requests",
		},
		[]string{"transport", "status"}, // transport: http, websocket
	)

	analyzeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reflow_analyze_duration_seconds",
			Help:    "Layout detection duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"transport"},
	)

	paragraphsPerPage = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reflow_paragraphs_per_page",
			Help:    "Number of paragraphs reconstructed per page",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		},
	)

	stripsPerPage = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reflow_strips_per_page",
			Help:    "Number of vertical strips detected per page",
			Buckets: []float64{0, 1, 2, 3, 5, 8},
		},
	)

	bandsPerPage = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reflow_bands_per_page",
			Help:    "Number of horizontal bands detected per page",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13},
		},
	)

	// WebSocket metrics
	websocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reflow_websocket_active_connections",
			Help: "Number of active WebSocket connections",
		},
	)

	websocketMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reflow_websocket_messages_total",
			Help: "Total number of WebSocket messages",
		},
		[]string{"direction"}, // direction: sent, received
	)
)

// observeResult records the per-page detection metrics.
func observeResult(result *layout.Result) {
	paragraphsPerPage.Observe(float64(result.Stats.ParagraphCount))
	stripsPerPage.Observe(float64(result.Stats.StripCount))
	bandsPerPage.Observe(float64(result.Stats.BandCount))
}
