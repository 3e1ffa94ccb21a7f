// Package adapters hides the differences between pgx.Pool, sql.DB and sqlx.DB behind DBAdapter,
// so the Postgres event store works with any of them.
package adapters
