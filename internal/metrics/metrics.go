// Package metrics provides Prometheus instrumentation for the gateway.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// QuotesServed counts swap quotes computed, partitioned by input outcome.
	QuotesServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "market_gateway_quotes_total",
		Help: "Total swap quotes served",
	}, []string{"outcome"})

	// MatchesFound observes the number of crossed pairs per matcher run.
	MatchesFound = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "market_gateway_matches_found",
		Help:    "Crossed pairs surfaced per matcher run",
		Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
	})

	// EventsIngested counts swap events accepted from the poller.
	EventsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "market_gateway_events_ingested_total",
		Help: "Swap events ingested from the chain poller",
	})

	// EventsRejected counts events refused at the parsing boundary.
	EventsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "market_gateway_events_rejected_total",
		Help: "Malformed swap events rejected at ingestion",
	})

	// TrackedMarkets tracks the number of registered markets.
	TrackedMarkets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "market_gateway_tracked_markets",
		Help: "Number of markets the gateway tracks",
	})

	// WebSocketClients tracks connected WebSocket clients.
	WebSocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "market_gateway_websocket_clients",
		Help: "Number of connected WebSocket clients",
	})

	// RiskRejections counts intents refused by the notional limiter.
	RiskRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "market_gateway_risk_rejections_total",
		Help: "Intents rejected by the notional limiter",
	})

	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "market_gateway_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "market_gateway_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware returns an HTTP middleware that records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start).Seconds()

		// Use the raw path for the label; route patterns keep cardinality low
		// enough at this API's size.
		path := r.URL.Path
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
