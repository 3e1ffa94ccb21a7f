// Package testspies contains spies for the observability interfaces of the event store
// and a slog.Handler that captures records. They are meant for tests only.
package testspies
