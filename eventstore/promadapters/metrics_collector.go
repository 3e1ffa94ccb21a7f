// Package promadapters implements eventstore.MetricsCollector with the Prometheus client,
// for deployments that scrape /metrics instead of pushing OTLP.
package promadapters

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/AntonStoeckl/library-lending-go/eventstore"
)

// MetricsCollector creates a vector per metric name on first use:
//   - RecordDuration -> HistogramVec observed in seconds
//   - IncrementCounter -> CounterVec
//   - RecordValue -> GaugeVec
//
// The label names of a metric are fixed by its first call. Later calls with missing labels
// report them as empty, unknown labels are dropped.
type MetricsCollector struct {
	factory promauto.Factory

	mu         sync.Mutex
	histograms map[string]*labeledVec[*prometheus.HistogramVec]
	counters   map[string]*labeledVec[*prometheus.CounterVec]
	gauges     map[string]*labeledVec[*prometheus.GaugeVec]
}

type labeledVec[V any] struct {
	vec        V
	labelNames []string
}

func (l *labeledVec[V]) values(labels map[string]string) []string {
	values := make([]string, len(l.labelNames))
	for i, name := range l.labelNames {
		values[i] = labels[name]
	}

	return values
}

// NewMetricsCollector registers all metrics with registerer.
func NewMetricsCollector(registerer prometheus.Registerer) *MetricsCollector {
	return &MetricsCollector{
		factory:    promauto.With(registerer),
		histograms: make(map[string]*labeledVec[*prometheus.HistogramVec]),
		counters:   make(map[string]*labeledVec[*prometheus.CounterVec]),
		gauges:     make(map[string]*labeledVec[*prometheus.GaugeVec]),
	}
}

func (m *MetricsCollector) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	m.mu.Lock()
	histogram, exists := m.histograms[metric]
	if !exists {
		names := sortedKeys(labels)
		histogram = &labeledVec[*prometheus.HistogramVec]{
			vec: m.factory.NewHistogramVec(prometheus.HistogramOpts{
				Name:    metric,
				Help:    "Duration in seconds",
				Buckets: prometheus.DefBuckets,
			}, names),
			labelNames: names,
		}
		m.histograms[metric] = histogram
	}
	m.mu.Unlock()

	histogram.vec.WithLabelValues(histogram.values(labels)...).Observe(duration.Seconds())
}

func (m *MetricsCollector) IncrementCounter(metric string, labels map[string]string) {
	m.mu.Lock()
	counter, exists := m.counters[metric]
	if !exists {
		names := sortedKeys(labels)
		counter = &labeledVec[*prometheus.CounterVec]{
			vec:        m.factory.NewCounterVec(prometheus.CounterOpts{Name: metric, Help: "Counter"}, names),
			labelNames: names,
		}
		m.counters[metric] = counter
	}
	m.mu.Unlock()

	counter.vec.WithLabelValues(counter.values(labels)...).Inc()
}

func (m *MetricsCollector) RecordValue(metric string, value float64, labels map[string]string) {
	m.mu.Lock()
	gauge, exists := m.gauges[metric]
	if !exists {
		names := sortedKeys(labels)
		gauge = &labeledVec[*prometheus.GaugeVec]{
			vec:        m.factory.NewGaugeVec(prometheus.GaugeOpts{Name: metric, Help: "Last recorded value"}, names),
			labelNames: names,
		}
		m.gauges[metric] = gauge
	}
	m.mu.Unlock()

	gauge.vec.WithLabelValues(gauge.values(labels)...).Set(value)
}

func sortedKeys(labels map[string]string) []string {
	return slices.Sorted(maps.Keys(labels))
}

var _ eventstore.MetricsCollector = (*MetricsCollector)(nil)
