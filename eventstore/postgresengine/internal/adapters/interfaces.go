package adapters

import "context"

// DBAdapter is the part of a database handle the event store needs.
type DBAdapter interface {
	Query(ctx context.Context, query string) (DBRows, error)
	Exec(ctx context.Context, query string) (DBResult, error)

	// ExecSerialized runs query in its own transaction after taking a transaction scoped
	// advisory lock derived from lockName. Statements run this way see each other's commits.
	ExecSerialized(ctx context.Context, lockName string, query string) (DBResult, error)
}

const advisoryLockStatement = "SELECT pg_advisory_xact_lock(hashtext($1))"

// DBRows is an iterator over query result rows.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// DBResult reports the outcome of an Exec.
type DBResult interface {
	RowsAffected() (int64, error)
}
