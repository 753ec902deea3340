// Package telemetry exposes Prometheus metrics for the analyzer.
package telemetry

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spigell/hireability/internal/ai"
)

const (
	defaultNamespace = "hireability"

	errorClassNone      = "none"
	errorClassTransport = "transport"
	errorClassParse     = "parse"
	errorClassOther     = "other"
)

type Option func(*Manager)

func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.buckets = buckets
		}
	}
}

// WithRuntimeCollectors adds the Go runtime and process collectors.
func WithRuntimeCollectors() Option {
	return func(m *Manager) {
		m.runtime = true
	}
}

// Manager owns a private registry and every collector registered on it.
type Manager struct {
	namespace string
	buckets   []float64
	runtime   bool
	registry  *prometheus.Registry

	providerCalls    *prometheus.CounterVec
	providerDuration *prometheus.HistogramVec
	enrichments      *prometheus.CounterVec
	analyses         *prometheus.CounterVec
	analysisDuration prometheus.Histogram
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: defaultNamespace,
		buckets:   prometheus.DefBuckets,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.runtime {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	auto := promauto.With(m.registry)

	m.providerCalls = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "ai",
		Name:      "provider_calls_total",
		Help:      "AI provider calls by provider, enrichment kind and error class.",
	}, []string{"provider", "kind", "error"})

	m.providerDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "ai",
		Name:      "provider_call_duration_seconds",
		Help:      "Latency of AI provider calls.",
		Buckets:   m.buckets,
	}, []string{"provider"})

	m.enrichments = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "enrichment",
		Name:      "outcomes_total",
		Help:      "Settled enrichments by kind and result (provider, failed, timeout, cancelled).",
	}, []string{"kind", "result"})

	m.analyses = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "analysis",
		Name:      "requests_total",
		Help:      "Analyses by outcome.",
	}, []string{"outcome"})

	m.analysisDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "analysis",
		Name:      "duration_seconds",
		Help:      "End-to-end latency of an analysis including enrichment.",
		Buckets:   m.buckets,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	m.httpDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   m.buckets,
	}, []string{"method", "route"})

	return m
}

func (m *Manager) ObserveProviderCall(provider, kind string, elapsed time.Duration, err error) {
	m.providerCalls.WithLabelValues(provider, kind, errorClass(err)).Inc()
	m.providerDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

func (m *Manager) ObserveEnrichment(kind, result string) {
	m.enrichments.WithLabelValues(kind, result).Inc()
}

func (m *Manager) ObserveAnalysis(outcome string, elapsed time.Duration) {
	m.analyses.WithLabelValues(outcome).Inc()
	m.analysisDuration.Observe(elapsed.Seconds())
}

func (m *Manager) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the private registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

func errorClass(err error) string {
	switch {
	case err == nil:
		return errorClassNone
	case errors.Is(err, ai.ErrParse):
		return errorClassParse
	case errors.Is(err, ai.ErrTransport):
		return errorClassTransport
	default:
		return errorClassOther
	}
}
