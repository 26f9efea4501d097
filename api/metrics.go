package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/warp/xp-tracker/qualification"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	Computations        prometheus.Counter
	ComputationDuration prometheus.Histogram
	Warnings            *prometheus.CounterVec
	SnapshotsSaved      prometheus.Counter
	SnapshotErrors      prometheus.Counter
	HTTPRequests        *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewMetrics registers the metrics on reg. Tests pass a fresh
// prometheus.NewRegistry(); the server passes its own registry too so that
// /metrics only exposes what it registered.
func NewMetrics(reg *prometheus.Registry, namespace string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Computations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "computations_total",
			Help:      "The total number of qualification computations",
		}),
		ComputationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "computation_duration_seconds",
			Help:      "Time taken to compute cycles for one traveler",
			Buckets:   prometheus.DefBuckets,
		}),
		Warnings: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "warnings_total",
			Help:      "Data-quality warnings returned by computations",
		}, []string{"code"}),
		SnapshotsSaved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_saved_total",
			Help:      "The total number of status snapshots saved",
		}),
		SnapshotErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_errors_total",
			Help:      "Travelers the snapshot scheduler failed to process",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status code",
		}, []string{"method", "route", "status"}),
		gatherer: reg,
	}
}

// ObserveComputation records one Compute call.
func (m *Metrics) ObserveComputation(elapsed time.Duration, warnings []qualification.Warning) {
	if m == nil {
		return
	}
	m.Computations.Inc()
	m.ComputationDuration.Observe(elapsed.Seconds())
	for code, n := range qualification.CountByCode(warnings) {
		m.Warnings.WithLabelValues(string(code)).Add(float64(n))
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Middleware counts requests by chi route pattern, keeping label
// cardinality bounded by the route table.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
	})
}
