package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mxcloud",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mxcloud",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mxcloud",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// Refresh metrics
	refreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mxcloud",
			Subsystem: "refresh",
			Name:      "total",
			Help:      "Total number of account refreshes",
		},
		[]string{"status"},
	)

	refreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mxcloud",
			Subsystem: "refresh",
			Name:      "duration_seconds",
			Help:      "Duration of an account refresh in seconds",
			Buckets:   []float64{.25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	// Provider metrics
	providerCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mxcloud",
			Subsystem: "provider",
			Name:      "calls_total",
			Help:      "Total number of provider API calls",
		},
		[]string{"action", "status"},
	)

	validRegions = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "mxcloud",
			Subsystem: "provider",
			Name:      "valid_regions",
			Help:      "Number of regions holding at least one instance",
		},
		[]string{"account"},
	)

	// Alert metrics
	alertsTriggeredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mxcloud",
			Subsystem: "alert",
			Name:      "triggered_total",
			Help:      "Total number of notifications raised by alert rules",
		},
		[]string{"level"},
	)

	// Database metrics
	dbQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mxcloud",
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation", "table"},
	)
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware returns a middleware that records Prometheus metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()

		routePattern := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			routePattern = rctx.RoutePattern()
		}

		status := strconv.Itoa(wrapped.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, routePattern, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, routePattern, status).Observe(duration)
	})
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRefresh records the outcome of one account refresh
func RecordRefresh(status string, duration time.Duration) {
	refreshTotal.WithLabelValues(status).Inc()
	refreshDuration.Observe(duration.Seconds())
}

// RecordProviderCall records one provider API call by action and outcome
func RecordProviderCall(action, status string) {
	providerCallsTotal.WithLabelValues(action, status).Inc()
}

// SetValidRegions sets the number of regions with instances for an account
func SetValidRegions(account string, count int) {
	validRegions.WithLabelValues(account).Set(float64(count))
}

// RecordAlertTriggered counts a notification raised at the given level
func RecordAlertTriggered(level string) {
	alertsTriggeredTotal.WithLabelValues(level).Inc()
}

// RecordDBQuery records a database query duration
func RecordDBQuery(operation, table string, duration time.Duration) {
	dbQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}
