package metrics

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"code", "method", "path"},
	)
	httpRequestsDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current Number of HTTP requests being processed.",
		},
	)

	// VotesTotal counts vote submissions by outcome (submitted, already_voted, error).
	VotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "munera_votes_total",
			Help: "Vote submissions by outcome.",
		},
		[]string{"outcome"},
	)

	TallyIncrementFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "munera_tally_increment_failures_total",
			Help: "Vote tally increments that failed or were dropped.",
		},
	)

	CartMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "munera_cart_mutations_total",
			Help: "Cart mutations by operation.",
		},
		[]string{"operation"},
	)

	// FlyerRenders counts renders by background outcome (none, loaded, fallback).
	FlyerRenders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "munera_flyer_renders_total",
			Help: "Flyer renders by background outcome.",
		},
		[]string{"background"},
	)

	RealtimeEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "munera_realtime_events_total",
			Help: "Row change notifications received by table and type.",
		},
		[]string{"table", "type"},
	)

	RealtimeDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "munera_realtime_dropped_total",
			Help: "Row change notifications dropped for slow subscribers.",
		},
	)

	LeaderboardWatchers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "munera_leaderboard_watchers",
			Help: "Open leaderboard streams.",
		},
	)
)

func init() {
	if err := prometheus.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		slog.Debug("ProcessCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}

	if err := prometheus.Register(collectors.NewGoCollector()); err != nil {
		slog.Debug("GoCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}
}

// wrapper around http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		start := time.Now()
		httpRequestsInFlight.Inc()

		rw := newResponseWriter(w)

		defer func() {

			// the mux records the matched route on the request
			pathPattern := r.Pattern
			if pathPattern == "" {
				pathPattern = "unmatched"
			}

			duration := time.Since(start)
			statusCodeStr := strconv.Itoa(rw.statusCode)

			httpRequestsTotal.WithLabelValues(statusCodeStr, r.Method, pathPattern).Inc()
			httpRequestsDuration.WithLabelValues(r.Method, pathPattern).Observe(duration.Seconds())
			httpRequestsInFlight.Dec()

		}()

		next.ServeHTTP(rw, r)

	})
}

// http.Handler for the Prometheus /metrics endpoint
func Handler() http.Handler {

	return promhttp.Handler()
}
