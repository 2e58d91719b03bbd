// Package metrics exposes the gateway's Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns the Prometheus registry for one gateway instance. Using a
// per-instance registry instead of the global default keeps tests and
// multiple embedded instances from colliding on metric registration.
type Collector struct {
	registry *prometheus.Registry
}

// NewCollector creates a Collector with Go runtime and process collectors
// pre-registered.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Collector{registry: registry}
}

// Registerer returns the registry for component metric registration.
func (c *Collector) Registerer() prometheus.Registerer {
	return c.registry
}

// Handler returns the HTTP handler for the metrics endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
