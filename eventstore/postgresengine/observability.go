package postgresengine

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/AntonStoeckl/library-lending-go/eventstore"
)

const (
	logMsgBuildSelectQueryFailed   = "failed to build select query"
	logMsgDBQueryFailed            = "database query execution failed"
	logMsgCloseRowsFailed          = "failed to close database rows"
	logMsgScanRowFailed            = "failed to scan database row"
	logMsgBuildStorableEventFailed = "failed to build storable event from database row"
	logMsgBuildInsertQueryFailed   = "failed to build insert query"
	logMsgDBExecFailed             = "database execution failed during event append"
	logMsgRowsAffectedFailed       = "failed to get rows affected count"
	logMsgQueryCompleted           = "query completed"
	logMsgEventsAppended           = "events appended"
	logMsgConcurrencyConflict      = "concurrency conflict detected"
	logMsgSQLExecuted              = "executed sql for: "
	logMsgOperation                = "eventstore operation: "

	logAttrError            = "error"
	logAttrQuery            = "query"
	logAttrEventType        = "event_type"
	logAttrEventCount       = "event_count"
	logAttrDurationMS       = "duration_ms"
	logAttrExpectedEvents   = "expected_events"
	logAttrRowsAffected     = "rows_affected"
	logAttrExpectedSequence = "expected_sequence"
	logActionQuery          = "query"
	logActionAppend         = "append"

	metricQueryDuration        = "eventstore_query_duration_seconds"
	metricAppendDuration       = "eventstore_append_duration_seconds"
	metricEventsQueried        = "eventstore_events_queried_total"
	metricEventsAppended       = "eventstore_events_appended_total"
	metricConcurrencyConflicts = "eventstore_concurrency_conflicts_total"
	metricDatabaseErrors       = "eventstore_database_errors_total"

	spanNameQuery  = "eventstore.query"
	spanNameAppend = "eventstore.append"

	spanAttrOperation    = "operation"
	spanAttrEventCount   = "event_count"
	spanAttrEventType    = "event_type"
	spanAttrExpectedSeq  = "expected_sequence"
	spanAttrMaxSequence  = "max_sequence"
	spanAttrRowsAffected = "rows_affected"
	spanAttrErrorType    = "error_type"
	spanAttrConsistency  = "consistency"

	labelStatus       = "status"
	labelConflictType = "conflict_type"

	operationQuery  = "query"
	operationAppend = "append"

	statusSuccess = "success"
	statusError   = "error"

	errorTypeBuildQuery         = "build_query"
	errorTypeDatabaseQuery      = "database_query"
	errorTypeDatabaseExec       = "database_exec"
	errorTypeRowScan            = "row_scan"
	errorTypeBuildStorableEvent = "build_storable_event"
	errorTypeRowsAffected       = "rows_affected"
	errorTypeConcurrency        = "concurrency_conflict"
)

// operationObserver bundles the tracing span and the metrics of one Query or Append call.
type operationObserver struct {
	es        *EventStore
	ctx       context.Context
	span      eventstore.SpanContext
	operation string
	start     time.Time
}

func (es *EventStore) observeQuery(ctx context.Context) (*operationObserver, context.Context) {
	attrs := map[string]string{
		spanAttrOperation:   operationQuery,
		spanAttrConsistency: eventstore.GetConsistencyLevel(ctx).String(),
	}

	return es.startObserving(ctx, operationQuery, spanNameQuery, attrs)
}

func (es *EventStore) observeAppend(
	ctx context.Context,
	events eventstore.StorableEvents,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (*operationObserver, context.Context) {

	attrs := map[string]string{
		spanAttrOperation:   operationAppend,
		spanAttrEventCount:  strconv.Itoa(len(events)),
		spanAttrEventType:   events[0].EventType,
		spanAttrExpectedSeq: strconv.FormatUint(uint64(expectedMaxSequenceNumber), 10),
	}

	return es.startObserving(ctx, operationAppend, spanNameAppend, attrs)
}

func (es *EventStore) startObserving(
	ctx context.Context,
	operation string,
	spanName string,
	attrs map[string]string,
) (*operationObserver, context.Context) {

	obs := &operationObserver{es: es, operation: operation, start: time.Now()}

	if es.tracingCollector != nil {
		ctx, obs.span = es.tracingCollector.StartSpan(ctx, spanName, attrs)
	}

	obs.ctx = ctx

	return obs, ctx
}

func (o *operationObserver) elapsed() time.Duration {
	return time.Since(o.start)
}

func (o *operationObserver) queried(events eventstore.StorableEvents, maxSequenceNumber eventstore.MaxSequenceNumberUint) {
	o.recordDuration(metricQueryDuration, statusSuccess)
	o.recordValue(metricEventsQueried, float64(len(events)))
	o.finishSpan(statusSuccess, map[string]string{
		spanAttrEventCount:  strconv.Itoa(len(events)),
		spanAttrMaxSequence: strconv.FormatUint(uint64(maxSequenceNumber), 10),
	})
}

func (o *operationObserver) appended(rowsAffected int64) {
	o.recordDuration(metricAppendDuration, statusSuccess)
	o.recordValue(metricEventsAppended, float64(rowsAffected))
	o.finishSpan(statusSuccess, map[string]string{
		spanAttrRowsAffected: strconv.FormatInt(rowsAffected, 10),
	})
}

func (o *operationObserver) conflicted() {
	o.recordDuration(metricAppendDuration, statusError)
	o.incrementCounter(metricConcurrencyConflicts, map[string]string{
		spanAttrOperation: o.operation,
		labelConflictType: "concurrency",
	})
	o.finishSpan(statusError, map[string]string{spanAttrErrorType: errorTypeConcurrency})
}

func (o *operationObserver) failed(errorType string) {
	metric := metricQueryDuration
	if o.operation == operationAppend {
		metric = metricAppendDuration
	}

	o.recordDuration(metric, statusError)
	o.incrementCounter(metricDatabaseErrors, map[string]string{
		spanAttrOperation: o.operation,
		labelStatus:       statusError,
		spanAttrErrorType: errorType,
	})
	o.finishSpan(statusError, map[string]string{spanAttrErrorType: errorType})
}

func (o *operationObserver) labels(status string) map[string]string {
	return map[string]string{spanAttrOperation: o.operation, labelStatus: status}
}

func (o *operationObserver) recordDuration(metric string, status string) {
	collector := o.es.metricsCollector
	if collector == nil {
		return
	}

	if contextual, ok := collector.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(o.ctx, metric, o.elapsed(), o.labels(status))
		return
	}

	collector.RecordDuration(metric, o.elapsed(), o.labels(status))
}

func (o *operationObserver) recordValue(metric string, value float64) {
	collector := o.es.metricsCollector
	if collector == nil {
		return
	}

	if contextual, ok := collector.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordValueContext(o.ctx, metric, value, o.labels(statusSuccess))
		return
	}

	collector.RecordValue(metric, value, o.labels(statusSuccess))
}

func (o *operationObserver) incrementCounter(metric string, labels map[string]string) {
	collector := o.es.metricsCollector
	if collector == nil {
		return
	}

	if contextual, ok := collector.(eventstore.ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(o.ctx, metric, labels)
		return
	}

	collector.IncrementCounter(metric, labels)
}

func (o *operationObserver) finishSpan(status string, attrs map[string]string) {
	if o.es.tracingCollector == nil || o.span == nil {
		return
	}

	o.span.AddAttribute(logAttrDurationMS, strconv.FormatFloat(toMilliseconds(o.elapsed()), 'f', 3, 64))
	o.es.tracingCollector.FinishSpan(o.span, status, attrs)
}

// logSQL logs SQL queries with execution time at debug level.
func (es *EventStore) logSQL(ctx context.Context, sqlQuery string, action string, duration time.Duration) {
	args := []any{logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery}

	switch {
	case es.contextualLogger != nil:
		es.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, args...)
	case es.logger != nil:
		es.logger.Debug(logMsgSQLExecuted+action, args...)
	}
}

// logOperation logs operational information at info level.
func (es *EventStore) logOperation(ctx context.Context, action string, args ...any) {
	switch {
	case es.contextualLogger != nil:
		es.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
	case es.logger != nil:
		es.logger.Info(logMsgOperation+action, args...)
	}
}

func (es *EventStore) logWarn(ctx context.Context, message string, err error) {
	switch {
	case es.contextualLogger != nil:
		es.contextualLogger.WarnContext(ctx, message, logAttrError, err.Error())
	case es.logger != nil:
		es.logger.Warn(message, logAttrError, err.Error())
	}
}

func (es *EventStore) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := append([]any{logAttrError, err.Error()}, args...)

	switch {
	case es.contextualLogger != nil:
		es.contextualLogger.ErrorContext(ctx, message, allArgs...)
	case es.logger != nil:
		es.logger.Error(message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
