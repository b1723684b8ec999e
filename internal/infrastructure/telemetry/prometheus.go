package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusCollector exposes a scrape endpoint with container and dispatch
// counters, next to the OTLP pipeline. It uses its own registry so tests can
// create several without duplicate registration panics.
type PrometheusCollector struct {
	registry            *prometheus.Registry
	containerTransition *prometheus.CounterVec
	dispatchEvents      *prometheus.CounterVec
}

// NewPrometheusCollector creates a collector with Go runtime and process metrics.
func NewPrometheusCollector(namespace string) *PrometheusCollector {
	if namespace == "" {
		namespace = "tms"
	}
	registry := prometheus.NewRegistry()

	c := &PrometheusCollector{
		registry: registry,
		containerTransition: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "container",
				Name:      "transitions_total",
				Help:      "Container status transitions by direction and status pair.",
			},
			[]string{"direction", "from", "to"},
		),
		dispatchEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "dispatch",
				Name:      "events_total",
				Help:      "Dispatch lifecycle events by type.",
			},
			[]string{"event"},
		),
	}

	registry.MustRegister(
		c.containerTransition,
		c.dispatchEvents,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// ObserveTransition increments the transition counter.
func (c *PrometheusCollector) ObserveTransition(direction, from, to string) {
	c.containerTransition.WithLabelValues(direction, from, to).Inc()
}

// ObserveDispatchEvent increments the dispatch event counter.
func (c *PrometheusCollector) ObserveDispatchEvent(event string) {
	c.dispatchEvents.WithLabelValues(event).Inc()
}

// Registry returns the underlying registry.
func (c *PrometheusCollector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns the HTTP handler serving the registry in exposition format.
func (c *PrometheusCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
