package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Identifier outcomes.
const (
	OutcomeAssembled  = "assembled"
	OutcomeIncomplete = "incomplete"
	OutcomeUnknown    = "unknown_option"
)

// Metrics holds the collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	optionLoads  prometheus.Counter
	loadFailures *prometheus.CounterVec
	cacheHits    prometheus.Counter
	cacheMisses  prometheus.Counter
	identifiers  *prometheus.CounterVec
	optionCounts *prometheus.GaugeVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		optionLoads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "skugen",
			Name:      "option_loads_total",
			Help:      "Number of option loads against the tabular source.",
		}),
		loadFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skugen",
			Name:      "option_load_failures_total",
			Help:      "Per-category option load failures.",
		}, []string{"category"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "skugen",
			Name:      "option_cache_hits_total",
			Help:      "Option cache hits.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "skugen",
			Name:      "option_cache_misses_total",
			Help:      "Option cache misses.",
		}),
		identifiers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skugen",
			Name:      "identifiers_total",
			Help:      "Identifier assembly requests by outcome.",
		}, []string{"outcome"}),
		optionCounts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "skugen",
			Name:      "options",
			Help:      "Number of options loaded per category.",
		}, []string{"category"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.optionLoads,
		m.loadFailures,
		m.cacheHits,
		m.cacheMisses,
		m.identifiers,
		m.optionCounts,
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveLoad() {
	if m == nil {
		return
	}
	m.optionLoads.Inc()
}

func (m *Metrics) ObserveCategory(category string, options int, failed bool) {
	if m == nil {
		return
	}
	if failed {
		m.loadFailures.WithLabelValues(category).Inc()
	}
	m.optionCounts.WithLabelValues(category).Set(float64(options))
}

func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
		return
	}
	m.cacheMisses.Inc()
}

func (m *Metrics) ObserveIdentifier(outcome string) {
	if m == nil {
		return
	}
	m.identifiers.WithLabelValues(outcome).Inc()
}
