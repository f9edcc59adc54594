package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/randomart/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private Prometheus registry so tests and embedders never clash
// with the global default registry.
type Metrics struct {
	registry *prometheus.Registry

	Trees       *prometheus.CounterVec
	TreeNodes   prometheus.Histogram
	Renders     *prometheus.CounterVec
	RenderTime  prometheus.Histogram
	InFlight    prometheus.Gauge
	CacheLookup *prometheus.CounterVec
}

// NewMetrics registers the randomart collectors plus the Go runtime collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Trees: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "randomart_trees_total",
				Help: "Trees built, by origin (generated or parsed)",
			},
			[]string{"origin"},
		),
		TreeNodes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "randomart_tree_nodes",
				Help:    "Node count of built trees",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
		),
		Renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "randomart_renders_total",
				Help: "Finished renders, by outcome",
			},
			[]string{"outcome"},
		),
		RenderTime: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "randomart_render_duration_seconds",
				Help:    "Duration of raster renders",
				Buckets: prometheus.DefBuckets,
			},
		),
		InFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "randomart_renders_in_flight",
				Help: "Renders currently running",
			},
		),
		CacheLookup: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "randomart_cache_lookups_total",
				Help: "Image cache lookups, by result (hit or miss)",
			},
			[]string{"result"},
		),
	}

	m.registry.MustRegister(
		m.Trees, m.TreeNodes, m.Renders, m.RenderTime, m.InFlight, m.CacheLookup,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// CacheResult records one cache lookup.
func (m *Metrics) CacheResult(hit bool) {
	if hit {
		m.CacheLookup.WithLabelValues("hit").Inc()
		return
	}
	m.CacheLookup.WithLabelValues("miss").Inc()
}

// Hooks returns lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTreeGenerated: func(_ context.Context, e *domain.TreeEvent) {
			m.Trees.WithLabelValues("generated").Inc()
			m.TreeNodes.Observe(float64(e.Nodes))
		},
		OnTreeParsed: func(_ context.Context, e *domain.TreeEvent) {
			m.Trees.WithLabelValues("parsed").Inc()
			m.TreeNodes.Observe(float64(e.Nodes))
		},
		OnRenderStart: func(context.Context, *domain.RenderEvent) {
			m.InFlight.Inc()
		},
		OnRenderDone: func(_ context.Context, e *domain.RenderEvent) {
			m.InFlight.Dec()
			m.RenderTime.Observe(e.Duration.Seconds())
			if e.Err != nil {
				m.Renders.WithLabelValues("error").Inc()
				return
			}
			m.Renders.WithLabelValues("ok").Inc()
		},
	}
}
