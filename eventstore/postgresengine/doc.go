// Package postgresengine is the PostgreSQL implementation of the event store.
//
// All events live in a single table. Query and Append select a "dynamic event stream" with an
// eventstore.Filter: event types become an IN clause and predicates become jsonb containment checks
// on the payload. Append is one INSERT ... SELECT statement guarded by a CTE that compares the current
// max sequence number of the stream with the expected one. Appends to one table are serialized by a
// transaction scoped advisory lock, so the statement snapshot of each append includes all earlier commits.
//
// Supported connection types are pgx.Pool (optionally with a read replica), sql.DB and sqlx.DB.
//
//	pool, _ := pgxpool.New(ctx, dsn)
//	store, _ := postgresengine.NewEventStoreFromPGXPool(
//		pool,
//		postgresengine.WithTableName("events"),
//		postgresengine.WithContextualLogger(logger),
//	)
//
//	events, maxSeq, _ := store.Query(ctx, filter)
//	err := store.Append(ctx, filter, maxSeq, newEvent)
package postgresengine
