package testspies

import (
	"context"
	"maps"
	"sync"
	"time"
)

// MetricRecord is one captured metrics call. Duration and Value are set depending on the kind of call.
type MetricRecord struct {
	Metric   string
	Duration time.Duration
	Value    float64
	Labels   map[string]string
}

// MetricsCollectorSpy captures all calls to eventstore.MetricsCollector and its context-aware extension.
type MetricsCollectorSpy struct {
	mu        sync.Mutex
	durations []MetricRecord
	counters  []MetricRecord
	values    []MetricRecord
}

// NewMetricsCollectorSpy creates an empty MetricsCollectorSpy.
func NewMetricsCollectorSpy() *MetricsCollectorSpy {
	return &MetricsCollectorSpy{}
}

func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.durations = append(s.durations, MetricRecord{Metric: metric, Duration: duration, Labels: maps.Clone(labels)})
}

func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters = append(s.counters, MetricRecord{Metric: metric, Value: 1, Labels: maps.Clone(labels)})
}

func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = append(s.values, MetricRecord{Metric: metric, Value: value, Labels: maps.Clone(labels)})
}

func (s *MetricsCollectorSpy) RecordDurationContext(_ context.Context, metric string, duration time.Duration, labels map[string]string) {
	s.RecordDuration(metric, duration, labels)
}

func (s *MetricsCollectorSpy) IncrementCounterContext(_ context.Context, metric string, labels map[string]string) {
	s.IncrementCounter(metric, labels)
}

func (s *MetricsCollectorSpy) RecordValueContext(_ context.Context, metric string, value float64, labels map[string]string) {
	s.RecordValue(metric, value, labels)
}

// Durations returns the captured duration records for metric.
func (s *MetricsCollectorSpy) Durations(metric string) []MetricRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return filterRecords(s.durations, metric)
}

// Counters returns the captured counter increments for metric.
func (s *MetricsCollectorSpy) Counters(metric string) []MetricRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return filterRecords(s.counters, metric)
}

// Values returns the captured value records for metric.
func (s *MetricsCollectorSpy) Values(metric string) []MetricRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return filterRecords(s.values, metric)
}

func filterRecords(records []MetricRecord, metric string) []MetricRecord {
	result := make([]MetricRecord, 0)

	for _, record := range records {
		if record.Metric == metric {
			result = append(result, record)
		}
	}

	return result
}
