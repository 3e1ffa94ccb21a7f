package promadapters_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/eventstore/promadapters"
)

func Test_MetricsCollector_IncrementCounter(t *testing.T) {
	// arrange
	registry := prometheus.NewRegistry()
	collector := promadapters.NewMetricsCollector(registry)
	labels := map[string]string{"operation": "append", "conflict_type": "concurrency"}

	// act
	collector.IncrementCounter("eventstore_concurrency_conflicts_total", labels)
	collector.IncrementCounter("eventstore_concurrency_conflicts_total", labels)

	// assert
	count, err := testutil.GatherAndCount(registry, "eventstore_concurrency_conflicts_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func Test_MetricsCollector_RecordDuration_CreatesHistogramSeries(t *testing.T) {
	// arrange
	registry := prometheus.NewRegistry()
	collector := promadapters.NewMetricsCollector(registry)

	// act
	collector.RecordDuration("eventstore_query_duration_seconds", 20*time.Millisecond, map[string]string{"operation": "query", "status": "success"})
	collector.RecordDuration("eventstore_query_duration_seconds", 30*time.Millisecond, map[string]string{"operation": "query", "status": "error"})

	// assert
	count, err := testutil.GatherAndCount(registry, "eventstore_query_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func Test_MetricsCollector_RecordValue_SetsGauge(t *testing.T) {
	// arrange
	registry := prometheus.NewRegistry()
	collector := promadapters.NewMetricsCollector(registry)

	// act
	collector.RecordValue("scanner_overdue_loans_marked", 3, map[string]string{"status": "success"})
	collector.RecordValue("scanner_overdue_loans_marked", 5, map[string]string{"status": "success"})

	// assert
	families, err := registry.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, float64(5), families[0].GetMetric()[0].GetGauge().GetValue())
}

func Test_MetricsCollector_ToleratesDifferingLabelSets(t *testing.T) {
	// arrange
	registry := prometheus.NewRegistry()
	collector := promadapters.NewMetricsCollector(registry)
	collector.IncrementCounter("eventstore_database_errors_total", map[string]string{"operation": "query", "error_type": "row_scan"})

	// act + assert
	assert.NotPanics(t, func() {
		collector.IncrementCounter("eventstore_database_errors_total", map[string]string{"operation": "append"})
		collector.IncrementCounter("eventstore_database_errors_total", map[string]string{"operation": "append", "extra": "dropped"})
	})
}
