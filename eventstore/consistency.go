package eventstore

import "context"

// ConsistencyLevel tells an engine whether a Query may be served by a read replica.
type ConsistencyLevel int

const (
	// StrongConsistency reads from the primary. Command handlers need it to see their own writes.
	StrongConsistency ConsistencyLevel = iota

	// EventualConsistency allows reads from a replica, used by list queries.
	EventualConsistency
)

type consistencyContextKey struct{}

// WithStrongConsistency marks ctx so that engines read from the primary.
func WithStrongConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, consistencyContextKey{}, StrongConsistency)
}

// WithEventualConsistency marks ctx so that engines may read from a replica.
func WithEventualConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, consistencyContextKey{}, EventualConsistency)
}

// GetConsistencyLevel returns the level stored in ctx, StrongConsistency if none is set.
func GetConsistencyLevel(ctx context.Context) ConsistencyLevel {
	if level, ok := ctx.Value(consistencyContextKey{}).(ConsistencyLevel); ok {
		return level
	}

	return StrongConsistency
}

func (c ConsistencyLevel) String() string {
	switch c {
	case StrongConsistency:
		return "strong"
	case EventualConsistency:
		return "eventual"
	default:
		return "unknown"
	}
}
