package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "admin_dashboard",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "admin_dashboard",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	kanbanMoves = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "admin_dashboard",
			Subsystem: "kanban",
			Name:      "moves_total",
			Help:      "Drag-end events by outcome (noop, reordered, moved, stale).",
		},
		[]string{"outcome"},
	)

	persistFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "admin_dashboard",
			Subsystem: "kanban",
			Name:      "persist_failures_total",
			Help:      "Failed board writes by operation.",
		},
		[]string{"op"},
	)

	wsConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "admin_dashboard",
			Subsystem: "ws",
			Name:      "connections",
			Help:      "Open websocket board sessions.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		kanbanMoves,
		persistFailures,
		wsConnections,
		prometheus.NewGoCollector(),
	)
}

// Handler exposes the registered collectors.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func ObserveHTTP(method, path string, status int, d time.Duration) {
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

func RecordMove(outcome string) {
	kanbanMoves.WithLabelValues(outcome).Inc()
}

func RecordPersistFailure(op string) {
	persistFailures.WithLabelValues(op).Inc()
}

func WSConnected()    { wsConnections.Inc() }
func WSDisconnected() { wsConnections.Dec() }
