package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "chatbot_bank"

// Metrics owns a registry and the collectors registered in it
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec

	trainingRunning  prometheus.Gauge
	trainingFinished *prometheus.CounterVec
	trainingDuration prometheus.Histogram

	chatRequests *prometheus.CounterVec
	chatTokens   *prometheus.CounterVec
	chatLatency  *prometheus.HistogramVec
}

// New creates Metrics with process and Go runtime collectors registered
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		trainingRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "training_jobs_running",
			Help:      "Fine-tuning jobs currently running.",
		}),
		trainingFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "training_jobs_finished_total",
			Help:      "Finished fine-tuning jobs by outcome.",
		}, []string{"outcome"}),
		trainingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "training_job_duration_seconds",
			Help:      "Wall time of fine-tuning jobs.",
			Buckets:   prometheus.ExponentialBuckets(60, 2, 10),
		}),
		chatRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_requests_total",
			Help:      "Chat generations by mode and outcome.",
		}, []string{"mode", "outcome"}),
		chatTokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_tokens_total",
			Help:      "Tokens processed by chat generations.",
		}, []string{"kind"}),
		chatLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chat_duration_seconds",
			Help:      "Chat generation latency by mode.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
		}, []string{"mode"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests, m.httpLatency,
		m.trainingRunning, m.trainingFinished, m.trainingDuration,
		m.chatRequests, m.chatTokens, m.chatLatency,
	)
	return m
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RegisterGaugeFunc exposes fn as a gauge evaluated at scrape time
func (m *Metrics) RegisterGaugeFunc(name, help string, fn func() float64) error {
	return m.registry.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, fn))
}

// GinMiddleware records the count and latency of every request by its route template
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpLatency.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
