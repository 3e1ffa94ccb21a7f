package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/eventstore/postgresengine/internal/adapters"
)

const (
	defaultEventTableName = "events"

	colEventType      = "event_type"
	colOccurredAt     = "occurred_at"
	colPayload        = "payload"
	colMetadata       = "metadata"
	colSequenceNumber = "sequence_number"
	cteContext        = "context"
	cteVals           = "vals"
	dialectPostgres   = "postgres"
	aliasMaxSeq       = "max_seq"
	castText          = "?::text"
	castTimestamp     = "?::timestamp with time zone"
	castJsonb         = "?::jsonb"
	payloadContains   = "payload @> ?::jsonb"
)

type queryResultRow struct {
	eventType         string
	payload           []byte
	metadata          []byte
	occurredAt        time.Time
	maxSequenceNumber eventstore.MaxSequenceNumberUint
}

// EventStore is the Postgres implementation of the event store. All events live in one table,
// Query and Append select their "dynamic event stream" with an eventstore.Filter.
type EventStore struct {
	db               adapters.DBAdapter
	eventTableName   string
	logger           eventstore.Logger
	contextualLogger eventstore.ContextualLogger
	metricsCollector eventstore.MetricsCollector
	tracingCollector eventstore.TracingCollector
}

// NewEventStoreFromPGXPool creates an EventStore on top of a pgx pool.
func NewEventStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapter(db), options...)
}

// NewEventStoreFromPGXPoolAndReplica creates an EventStore that serves queries marked
// with eventstore.WithEventualConsistency from the replica pool.
func NewEventStoreFromPGXPoolAndReplica(db *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (*EventStore, error) {
	if db == nil || replica == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapterWithReplica(db, replica), options...)
}

// NewEventStoreFromSQLDB creates an EventStore on top of a database/sql handle (lib/pq driver).
func NewEventStoreFromSQLDB(db *sql.DB, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLAdapter(db), options...)
}

// NewEventStoreFromSQLX creates an EventStore on top of a sqlx handle.
func NewEventStoreFromSQLX(db *sqlx.DB, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLXAdapter(db), options...)
}

func newEventStore(db adapters.DBAdapter, options ...Option) (*EventStore, error) {
	es := &EventStore{
		db:             db,
		eventTableName: defaultEventTableName,
	}

	for _, option := range options {
		if err := option(es); err != nil {
			return nil, err
		}
	}

	return es, nil
}

// Query retrieves the events matching the filter, ordered by sequence number,
// and the MaxSequenceNumberUint of this "dynamic event stream" at the time of the query.
func (es *EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	obs, ctx := es.observeQuery(ctx)

	sqlQuery, buildQueryErr := es.buildSelectQuery(filter)
	if buildQueryErr != nil {
		es.logError(ctx, logMsgBuildSelectQueryFailed, buildQueryErr)
		obs.failed(errorTypeBuildQuery)

		return nil, 0, buildQueryErr
	}

	start := time.Now()
	rows, queryErr := es.db.Query(ctx, sqlQuery)
	es.logSQL(ctx, sqlQuery, logActionQuery, time.Since(start))

	if queryErr != nil {
		es.logError(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		obs.failed(errorTypeDatabaseQuery)

		return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, queryErr)
	}
	defer es.closeRows(ctx, rows)

	eventStream, maxSequenceNumber, errorType, scanErr := es.processQueryResults(ctx, rows)
	if scanErr != nil {
		obs.failed(errorType)

		return nil, 0, scanErr
	}

	es.logOperation(ctx, logMsgQueryCompleted, logAttrEventCount, len(eventStream), logAttrDurationMS, toMilliseconds(obs.elapsed()))
	obs.queried(eventStream, maxSequenceNumber)

	return eventStream, maxSequenceNumber, nil
}

func (es *EventStore) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		es.logWarn(ctx, logMsgCloseRowsFailed, closeErr)
	}
}

func (es *EventStore) processQueryResults(ctx context.Context, rows adapters.DBRows) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	string,
	error,
) {

	result := queryResultRow{}
	eventStream := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for rows.Next() {
		rowScanErr := rows.Scan(&result.eventType, &result.occurredAt, &result.payload, &result.metadata, &result.maxSequenceNumber)
		if rowScanErr != nil {
			es.logError(ctx, logMsgScanRowFailed, rowScanErr)

			return nil, 0, errorTypeRowScan, errors.Join(eventstore.ErrScanningDBRowFailed, rowScanErr)
		}

		event, buildStorableErr := eventstore.BuildStorableEvent(result.eventType, result.occurredAt, result.payload, result.metadata)
		if buildStorableErr != nil {
			es.logError(ctx, logMsgBuildStorableEventFailed, buildStorableErr, logAttrEventType, result.eventType)

			return nil, 0, errorTypeBuildStorableEvent, errors.Join(eventstore.ErrBuildingStorableEventFailed, buildStorableErr)
		}

		eventStream = append(eventStream, event)
		maxSequenceNumber = result.maxSequenceNumber
	}

	if iterErr := rows.Err(); iterErr != nil {
		es.logError(ctx, logMsgScanRowFailed, iterErr)

		return nil, 0, errorTypeRowScan, errors.Join(eventstore.ErrScanningDBRowFailed, iterErr)
	}

	return eventStream, maxSequenceNumber, "", nil
}

// Append appends the events atomically if the "dynamic event stream" selected by the filter
// still ends at expectedMaxSequenceNumber, otherwise it returns eventstore.ErrConcurrencyConflict.
//
// The filter must be the same one that was used for the Query the decision was based on.
func (es *EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	events ...eventstore.StorableEvent,
) error {

	if len(events) == 0 {
		return eventstore.ErrNoEventsToAppend
	}

	obs, ctx := es.observeAppend(ctx, events, expectedMaxSequenceNumber)

	sqlQuery, buildQueryErr := es.buildAppendQuery(events, filter, expectedMaxSequenceNumber)
	if buildQueryErr != nil {
		es.logError(ctx, logMsgBuildInsertQueryFailed, buildQueryErr, logAttrEventCount, len(events))
		obs.failed(errorTypeBuildQuery)

		return buildQueryErr
	}

	start := time.Now()
	result, execErr := es.db.ExecSerialized(ctx, es.eventTableName, sqlQuery)
	es.logSQL(ctx, sqlQuery, logActionAppend, time.Since(start))

	if execErr != nil {
		es.logError(ctx, logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		obs.failed(errorTypeDatabaseExec)

		return errors.Join(eventstore.ErrAppendingEventFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		es.logError(ctx, logMsgRowsAffectedFailed, rowsAffectedErr)
		obs.failed(errorTypeRowsAffected)

		return errors.Join(eventstore.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	if rowsAffected < int64(len(events)) {
		es.logOperation(
			ctx,
			logMsgConcurrencyConflict,
			logAttrExpectedEvents, len(events),
			logAttrRowsAffected, rowsAffected,
			logAttrExpectedSequence, expectedMaxSequenceNumber,
		)
		obs.conflicted()

		return eventstore.ErrConcurrencyConflict
	}

	es.logOperation(ctx, logMsgEventsAppended, logAttrEventCount, len(events), logAttrDurationMS, toMilliseconds(obs.elapsed()))
	obs.appended(rowsAffected)

	return nil
}

func (es *EventStore) buildAppendQuery(
	events eventstore.StorableEvents,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (string, error) {

	if len(events) == 1 {
		return es.buildInsertQueryForSingleEvent(events[0], filter, expectedMaxSequenceNumber)
	}

	return es.buildInsertQueryForMultipleEvents(events, filter, expectedMaxSequenceNumber)
}

func (es *EventStore) buildSelectQuery(filter eventstore.Filter) (string, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(es.eventTableName).
		Select(colEventType, colOccurredAt, colPayload, colMetadata, colSequenceNumber).
		Order(goqu.I(colSequenceNumber).Asc())

	selectStmt, whereErr := addWhereClause(filter, selectStmt)
	if whereErr != nil {
		return "", whereErr
	}

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (es *EventStore) buildContextCTE(builder goqu.DialectWrapper, filter eventstore.Filter) (*goqu.SelectDataset, error) {
	cteStmt := builder.
		From(es.eventTableName).
		Select(goqu.MAX(colSequenceNumber).As(aliasMaxSeq))

	return addWhereClause(filter, cteStmt)
}

func (es *EventStore) buildInsertQueryForSingleEvent(
	event eventstore.StorableEvent,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (string, error) {

	builder := goqu.Dialect(dialectPostgres)

	cteStmt, cteErr := es.buildContextCTE(builder, filter)
	if cteErr != nil {
		return "", cteErr
	}

	selectStmt := builder.
		From(cteContext).
		Select(
			goqu.L(castText, event.EventType),
			goqu.L(castTimestamp, event.OccurredAt),
			goqu.L(castJsonb, string(event.PayloadJSON)),
			goqu.L(castJsonb, string(event.MetadataJSON)),
		).
		Where(goqu.COALESCE(goqu.C(aliasMaxSeq), 0).Eq(goqu.V(expectedMaxSequenceNumber)))

	insertStmt := builder.
		Insert(es.eventTableName).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata).
		FromQuery(selectStmt).
		With(cteContext, cteStmt)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (es *EventStore) buildInsertQueryForMultipleEvents(
	events eventstore.StorableEvents,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (string, error) {

	builder := goqu.Dialect(dialectPostgres)

	cteStmt, cteErr := es.buildContextCTE(builder, filter)
	if cteErr != nil {
		return "", cteErr
	}

	var valuesStmt *goqu.SelectDataset
	for _, event := range events {
		eventStmt := builder.Select(
			goqu.L(castText, event.EventType).As(colEventType),
			goqu.L(castTimestamp, event.OccurredAt).As(colOccurredAt),
			goqu.L(castJsonb, string(event.PayloadJSON)).As(colPayload),
			goqu.L(castJsonb, string(event.MetadataJSON)).As(colMetadata),
		)

		if valuesStmt == nil {
			valuesStmt = eventStmt
			continue
		}

		valuesStmt = valuesStmt.UnionAll(eventStmt)
	}

	insertStmt := builder.
		Insert(es.eventTableName).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata).
		With(cteContext, cteStmt).
		With(cteVals, valuesStmt).
		FromQuery(
			builder.From(cteContext, cteVals).
				Select(
					fmt.Sprintf("%s.%s", cteVals, colEventType),
					fmt.Sprintf("%s.%s", cteVals, colOccurredAt),
					fmt.Sprintf("%s.%s", cteVals, colPayload),
					fmt.Sprintf("%s.%s", cteVals, colMetadata),
				).
				Where(goqu.COALESCE(goqu.C(aliasMaxSeq), 0).Eq(goqu.V(expectedMaxSequenceNumber))),
		)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// addWhereClause ORs the filter items. Inside an item the event types are ORed and the predicates
// are ANDed or ORed, depending on AllPredicatesMustMatch. An empty filter selects all events.
func addWhereClause(filter eventstore.Filter, selectStmt *goqu.SelectDataset) (*goqu.SelectDataset, error) {
	if filter.IsEmpty() {
		return selectStmt, nil
	}

	itemsExpressions := make([]goqu.Expression, 0, len(filter.Items()))

	for _, item := range filter.Items() {
		itemExpressions := make([]goqu.Expression, 0, 2)

		if len(item.EventTypes()) > 0 {
			itemExpressions = append(itemExpressions, goqu.C(colEventType).In(item.EventTypes()))
		}

		if len(item.Predicates()) > 0 {
			predicateExpressions := make([]goqu.Expression, 0, len(item.Predicates()))

			for _, predicate := range item.Predicates() {
				containment, marshalErr := jsoniter.ConfigFastest.Marshal(map[string]string{predicate.Key(): predicate.Val()})
				if marshalErr != nil {
					return nil, errors.Join(eventstore.ErrBuildingQueryFailed, marshalErr)
				}

				predicateExpressions = append(predicateExpressions, goqu.L(payloadContains, string(containment)))
			}

			var predicatesExpressionList exp.ExpressionList
			if item.AllPredicatesMustMatch() {
				predicatesExpressionList = goqu.And(predicateExpressions...)
			} else {
				predicatesExpressionList = goqu.Or(predicateExpressions...)
			}

			itemExpressions = append(itemExpressions, predicatesExpressionList)
		}

		itemsExpressions = append(itemsExpressions, goqu.And(itemExpressions...))
	}

	return selectStmt.Where(goqu.Or(itemsExpressions...)), nil
}
