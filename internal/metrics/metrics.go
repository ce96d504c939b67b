// Package metrics exposes Prometheus collectors for tool builds and
// outbound dispatches. A nil *Collector is valid and records nothing.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"yasmcp/internal/dispatch"
	"yasmcp/internal/registry"
)

const namespace = "yas_mcp"

// Collector owns the process metrics.
type Collector struct {
	registry *prometheus.Registry

	dispatchTotal    *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec
	toolsRegistered  prometheus.Gauge
	collisions       prometheus.Counter
	reloads          *prometheus.CounterVec
	rejected         *prometheus.CounterVec
}

// New registers the collectors on reg. A nil reg gets a fresh registry
// carrying the Go and process collectors.
func New(reg *prometheus.Registry) *Collector {
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		dispatchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dispatch_total",
				Help:      "Outbound API calls by route and outcome",
			},
			[]string{"method", "path", "outcome"},
		),
		dispatchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "dispatch_duration_seconds",
				Help:      "Duration of outbound API calls",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method", "path"},
		),
		toolsRegistered: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tools_registered",
			Help:      "Number of tools in the active registry",
		}),
		collisions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "naming_collisions_total",
			Help:      "Operations dropped because their tool name was already taken",
		}),
		reloads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reloads_total",
				Help:      "Registry reloads by result",
			},
			[]string{"result"},
		),
		rejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "arguments_rejected_total",
				Help:      "Tool calls rejected by argument validation",
			},
			[]string{"tool"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// ObserveDispatch implements dispatch.Observer.
func (c *Collector) ObserveDispatch(route registry.Route, status int, err error, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.dispatchTotal.WithLabelValues(route.Method, route.Path, outcome(status, err)).Inc()
	c.dispatchDuration.WithLabelValues(route.Method, route.Path).Observe(elapsed.Seconds())
}

// RecordBuild publishes the size of a freshly built snapshot and counts its collisions.
func (c *Collector) RecordBuild(snap *registry.Snapshot) {
	if c == nil || snap == nil {
		return
	}
	c.toolsRegistered.Set(float64(snap.Len()))
	for _, d := range snap.Diagnostics() {
		if d.Kind == registry.NamingCollision {
			c.collisions.Inc()
		}
	}
}

// RecordReload counts a reload attempt.
func (c *Collector) RecordReload(err error) {
	if c == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	c.reloads.WithLabelValues(result).Inc()
}

// RecordRejected counts a call refused before dispatch.
func (c *Collector) RecordRejected(tool string) {
	if c == nil {
		return
	}
	c.rejected.WithLabelValues(tool).Inc()
}

func outcome(status int, err error) string {
	if err != nil {
		var derr *dispatch.Error
		if errors.As(err, &derr) {
			return string(derr.Kind)
		}
		return "error"
	}
	return strconv.Itoa(status/100) + "xx"
}
