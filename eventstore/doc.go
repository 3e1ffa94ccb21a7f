// Package eventstore holds the engine-agnostic building blocks of the lending event store.
//
// An event store engine only has to offer two operations:
//
//	Query(ctx, filter) (StorableEvents, MaxSequenceNumberUint, error)
//	Append(ctx, filter, expectedMaxSequenceNumber, events...) error
//
// Query returns all events matching a Filter together with the highest sequence number of that
// "dynamic event stream". Append only succeeds when nobody else appended a matching event in the
// meantime, otherwise it fails with ErrConcurrencyConflict. A Filter therefore doubles as the
// consistency boundary of a business decision, e.g. "all events of book X or user Y".
//
// Engines live in the sub packages postgresengine and memengine. Observability hooks are defined here as
// small dependency-free interfaces; oteladapters and promadapters implement them.
package eventstore
