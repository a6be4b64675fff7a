package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors exported on /metrics. Each server owns its own
// registry so tests can build several servers in one process.
type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	taxComputations *prometheus.CounterVec
	reloads         *prometheus.CounterVec
}

// NewMetrics registers the application collectors plus the Go runtime ones
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zurich_perspectives",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "zurich_perspectives",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		taxComputations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zurich_perspectives",
			Name:      "tax_computations_total",
			Help:      "Tax breakdowns computed, by source.",
		}, []string{"source"}),
		reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zurich_perspectives",
			Name:      "fixture_reloads_total",
			Help:      "Fixture reload attempts by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(
		m.requests,
		m.requestDuration,
		m.taxComputations,
		m.reloads,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveTax counts one tax computation. source is "persona", "adhoc" or "compare".
func (m *Metrics) ObserveTax(source string) {
	if m == nil {
		return
	}
	m.taxComputations.WithLabelValues(source).Inc()
}

// ObserveReload counts a reload attempt
func (m *Metrics) ObserveReload(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.reloads.WithLabelValues(result).Inc()
}
