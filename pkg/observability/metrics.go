package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Command and query bus metrics
	BusOperations *prometheus.CounterVec
	BusDuration   *prometheus.HistogramVec

	// Repository metrics
	StoreOperations *prometheus.CounterVec
	StoreDuration   *prometheus.HistogramVec

	// Business metrics
	SubmissionsSaved *prometheus.CounterVec
}

// NewCollector creates a collector backed by its own registry
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	busOperations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bus_operations_total",
			Help:      "Command and query bus outcomes by message type",
		},
		[]string{"metric", "type"},
	)

	busDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bus_operation_duration_seconds",
			Help:      "Command and query handling duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"metric", "type"},
	)

	storeOperations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Total number of event store operations",
		},
		[]string{"operation", "store", "status"},
	)

	storeDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_duration_seconds",
			Help:      "Event store operation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation", "store"},
	)

	submissionsSaved := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_saved_total",
			Help:      "Total number of persisted submissions",
		},
		[]string{"kind"},
	)

	registry.MustRegister(
		httpRequests,
		httpDuration,
		busOperations,
		busDuration,
		storeOperations,
		storeDuration,
		submissionsSaved,
	)

	return &Collector{
		registry:         registry,
		HTTPRequests:     httpRequests,
		HTTPDuration:     httpDuration,
		BusOperations:    busOperations,
		BusDuration:      busDuration,
		StoreOperations:  storeOperations,
		StoreDuration:    storeDuration,
		SubmissionsSaved: submissionsSaved,
	}
}

// GetRegistry returns the Prometheus registry for this collector
func (c *Collector) GetRegistry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector's registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Increment counts one bus outcome such as command_count or query_errors
func (c *Collector) Increment(metric, label string) {
	c.BusOperations.WithLabelValues(metric, label).Inc()
}

// StartTimer starts timing a bus operation; Stop records the elapsed time
func (c *Collector) StartTimer(metric, label string) *Timer {
	return &Timer{
		observer: c.BusDuration.WithLabelValues(metric, label),
		start:    time.Now(),
	}
}

// RecordSubmission counts a persisted submission of the given kind
func (c *Collector) RecordSubmission(kind string) {
	c.SubmissionsSaved.WithLabelValues(kind).Inc()
}

// RecordStoreOperation counts one event store call and its latency
func (c *Collector) RecordStoreOperation(operation, store string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.StoreOperations.WithLabelValues(operation, store, status).Inc()
	c.StoreDuration.WithLabelValues(operation, store).Observe(duration.Seconds())
}

// Timer records a duration into a histogram when stopped
type Timer struct {
	observer prometheus.Observer
	start    time.Time
}

// Stop observes the time elapsed since the timer started
func (t *Timer) Stop() {
	t.observer.Observe(time.Since(t.start).Seconds())
}

// HTTPMiddleware records request counts and latency per chi route pattern
func (c *Collector) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		c.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
