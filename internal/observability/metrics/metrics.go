package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry builds the process-wide prometheus registry with the
// standard runtime collectors attached.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// HTTPMetrics instruments inbound HTTP traffic.
type HTTPMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func NewHTTPMetrics(reg *prometheus.Registry) *HTTPMetrics {
	return &HTTPMetrics{
		requestsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "camcrew_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "camcrew_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// GinMiddleware records request counts and latency per route.
func (m *HTTPMetrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		m.requestsTotal.WithLabelValues(method, route, status).Inc()
		m.requestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the registry for the /metrics endpoint.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// Metrics exposes application-level instruments.
type Metrics struct {
	bookingsCreated *prometheus.CounterVec
	paymentEvents   *prometheus.CounterVec
	gatewayRequests *prometheus.CounterVec
	sweepRuns       *prometheus.CounterVec
	sweepReleased   prometheus.Counter
}

func New(reg *prometheus.Registry) *Metrics {
	return &Metrics{
		bookingsCreated: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "camcrew_bookings_created_total",
			Help: "Bookings created, by outcome.",
		}, []string{"outcome"}),
		paymentEvents: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "camcrew_payment_events_total",
			Help: "Payment state transitions observed from gateway callbacks.",
		}, []string{"kind", "event_type"}),
		gatewayRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "camcrew_gateway_requests_total",
			Help: "Outbound payment gateway calls by result.",
		}, []string{"result"}),
		sweepRuns: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "camcrew_sweep_runs_total",
			Help: "Background sweep executions by job.",
		}, []string{"job"}),
		sweepReleased: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "camcrew_sweep_released_bookings_total",
			Help: "Stale paying bookings released by the sweep.",
		}),
	}
}

func (m *Metrics) RecordBookingCreated(outcome string) {
	if m == nil {
		return
	}
	m.bookingsCreated.WithLabelValues(strings.TrimSpace(outcome)).Inc()
}

func (m *Metrics) RecordPaymentEvent(kind, eventType string) {
	if m == nil {
		return
	}
	m.paymentEvents.WithLabelValues(strings.TrimSpace(kind), strings.TrimSpace(eventType)).Inc()
}

func (m *Metrics) RecordGatewayRequest(result string) {
	if m == nil {
		return
	}
	m.gatewayRequests.WithLabelValues(strings.TrimSpace(result)).Inc()
}

func (m *Metrics) RecordSweepRun(job string) {
	if m == nil {
		return
	}
	m.sweepRuns.WithLabelValues(strings.TrimSpace(job)).Inc()
}

func (m *Metrics) RecordSweepReleased(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.sweepReleased.Add(float64(count))
}
