package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns the Prometheus registry and the metric groups registered
// on it. It is the single entry point for wiring metrics into the rest of
// the service.
type Collector struct {
	registry *prometheus.Registry

	cacheMetrics      *CacheMetrics
	validationMetrics *ValidationMetrics
}

// NewCollector creates a collector with all metric groups registered. If
// registry is nil, a fresh registry is created. The namespace prefixes
// every exported metric name.
func NewCollector(namespace string, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if namespace == "" {
		namespace = "ordinance"
	}

	return &Collector{
		registry:          registry,
		cacheMetrics:      NewCacheMetrics(namespace, registry),
		validationMetrics: NewValidationMetrics(namespace, registry),
	}
}

// Cache returns the cache metric group. The result satisfies
// ruleset.CacheRecorder.
func (c *Collector) Cache() *CacheMetrics {
	return c.cacheMetrics
}

// Validation returns the validation metric group. The result satisfies
// compliance.ValidationRecorder.
func (c *Collector) Validation() *ValidationMetrics {
	return c.validationMetrics
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns an HTTP handler serving the /metrics endpoint for this
// collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
