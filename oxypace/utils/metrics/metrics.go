package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "oxypace",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "oxypace",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "oxypace",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	contentCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "oxypace",
			Subsystem: "content",
			Name:      "created_total",
			Help:      "Records created, by kind (post, comment, message, contact, media, user).",
		},
		[]string{"kind"},
	)

	realtimeClients = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: "oxypace",
			Subsystem: "realtime",
			Name:      "clients",
			Help:      "Connected realtime websocket clients.",
		},
		func() float64 { return float64(clientCount()) },
	)

	ingestedPosts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "oxypace",
			Subsystem: "ingest",
			Name:      "posts_total",
			Help:      "Posts created by bot ingestion, by bot.",
		},
		[]string{"bot"},
	)

	clientCount = func() int { return 0 }
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		contentCreated,
		realtimeClients,
		ingestedPosts,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func IncInFlight() { httpInFlight.Inc() }
func DecInFlight() { httpInFlight.Dec() }

func RecordHTTPRequest(method, route, status string, seconds float64) {
	httpRequests.WithLabelValues(method, route, status).Inc()
	httpDuration.WithLabelValues(method, route).Observe(seconds)
}

func RecordCreated(kind string) {
	contentCreated.WithLabelValues(kind).Inc()
}

func RecordIngested(bot string, n int) {
	ingestedPosts.WithLabelValues(bot).Add(float64(n))
}

// SetClientCounter wires the realtime gauge to the hub.
func SetClientCounter(fn func() int) {
	clientCount = fn
}
