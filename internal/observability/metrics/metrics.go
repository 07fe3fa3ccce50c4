// Package metrics exposes Prometheus instruments for the HTTP layer and the
// invoice generator.
package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// HTTPMetrics instruments the gin engine.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// BillingMetrics counts invoice outcomes.
type BillingMetrics struct {
	InvoicesGenerated *prometheus.CounterVec
}

func NewHTTPMetrics(reg prometheus.Registerer) (*HTTPMetrics, error) {
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
	for _, c := range []prometheus.Collector{m.requests, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func NewBillingMetrics(reg prometheus.Registerer) (*BillingMetrics, error) {
	m := &BillingMetrics{
		InvoicesGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "invoices_generated_total",
			Help: "Invoice generation attempts by outcome.",
		}, []string{"outcome"}),
	}
	if err := reg.Register(m.InvoicesGenerated); err != nil {
		return nil, err
	}
	return m, nil
}

// GinMiddleware records request counts and latency.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		m.requests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

func provideRegistry() prometheus.Registerer {
	return prometheus.DefaultRegisterer
}

// Module provides the Prometheus instruments.
var Module = fx.Module("observability.metrics",
	fx.Provide(provideRegistry),
	fx.Provide(NewHTTPMetrics),
	fx.Provide(NewBillingMetrics),
)
