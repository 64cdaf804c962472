package monitoring

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics manages Prometheus metrics for the service.
type Metrics struct {
	serviceName string

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	FareEscalations   prometheus.Counter
	BookingsCreated   prometheus.Counter
	WalletDebits      prometheus.Counter
	InsufficientFunds prometheus.Counter
}

// NewMetrics creates and registers the service metrics.
func NewMetrics(serviceName string) *Metrics {
	// Prometheus metric names cannot contain hyphens.
	name := strings.ReplaceAll(serviceName, "-", "_")

	m := &Metrics{serviceName: name}

	m.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: name + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	m.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    name + "_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	m.FareEscalations = prometheus.NewCounter(prometheus.CounterOpts{
		Name: name + "_fare_escalations_total",
		Help: "Number of flights escalated to the demand price",
	})

	m.BookingsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: name + "_bookings_created_total",
		Help: "Number of confirmed bookings",
	})

	m.WalletDebits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: name + "_wallet_debits_total",
		Help: "Number of committed wallet debits",
	})

	m.InsufficientFunds = prometheus.NewCounter(prometheus.CounterOpts{
		Name: name + "_insufficient_funds_total",
		Help: "Number of debits rejected for insufficient funds",
	})

	prometheus.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.FareEscalations,
		m.BookingsCreated,
		m.WalletDebits,
		m.InsufficientFunds,
	)

	return m
}

// Middleware returns gin middleware that collects HTTP metrics.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		m.httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		m.httpRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}
