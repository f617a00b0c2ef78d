package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// HTTPRequestsTotal counts served API requests by route template.
	HTTPRequestsTotal *prometheus.CounterVec

	// UpstreamFetchSeconds tracks how long each upstream fetch took.
	UpstreamFetchSeconds *prometheus.HistogramVec

	// ListingsExtracted counts listings kept after extraction, per source.
	ListingsExtracted *prometheus.CounterVec
)

func init() {
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pricecheck",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	UpstreamFetchSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pricecheck",
			Subsystem: "upstream",
			Name:      "fetch_seconds",
			Help:      "Upstream fetch duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"engine", "outcome"},
	)

	ListingsExtracted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pricecheck",
			Name:      "listings_extracted_total",
			Help:      "Total listings extracted from search pages",
		},
		[]string{"platform"},
	)

	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(UpstreamFetchSeconds)
	prometheus.MustRegister(ListingsExtracted)
}

// RecordRequest records a served HTTP request.
func RecordRequest(method, route string, status string) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
}

// RecordFetch records one upstream fetch. outcome is "ok" or an error code.
func RecordFetch(engine, outcome string, d time.Duration) {
	if outcome == "" {
		outcome = "unknown"
	}
	UpstreamFetchSeconds.WithLabelValues(engine, outcome).Observe(d.Seconds())
}

// RecordListings adds n extracted listings for platform.
func RecordListings(platform string, n int) {
	if n <= 0 {
		return
	}
	ListingsExtracted.WithLabelValues(platform).Add(float64(n))
}
