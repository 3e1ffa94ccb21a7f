package postgresengine

import (
	"regexp"

	"github.com/AntonStoeckl/library-lending-go/eventstore"
)

var validTableName = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

// Option defines a functional option for configuring EventStore.
type Option func(*EventStore) error

// WithTableName sets the table name for the EventStore.
// Only lower case identifiers are accepted because the name is rendered into DDL.
func WithTableName(tableName string) Option {
	return func(es *EventStore) error {
		if tableName == "" {
			return eventstore.ErrEmptyEventsTableName
		}

		if !validTableName.MatchString(tableName) {
			return eventstore.ErrInvalidEventsTableName
		}

		es.eventTableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the EventStore.
//
// Debug level: SQL queries with execution timing
// Info level: event counts, durations, concurrency conflicts
// Warn level: cleanup failures
// Error level: failures that abort an operation.
func WithLogger(logger eventstore.Logger) Option {
	return func(es *EventStore) error {
		es.logger = logger
		return nil
	}
}

// WithContextualLogger sets a logger that receives the operation context, so that log records can
// be correlated with the active trace. It takes precedence over WithLogger.
func WithContextualLogger(logger eventstore.ContextualLogger) Option {
	return func(es *EventStore) error {
		es.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for query/append durations, event counts,
// concurrency conflicts and database errors.
func WithMetrics(collector eventstore.MetricsCollector) Option {
	return func(es *EventStore) error {
		es.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector, each Query and Append gets its own span.
func WithTracing(collector eventstore.TracingCollector) Option {
	return func(es *EventStore) error {
		es.tracingCollector = collector
		return nil
	}
}
