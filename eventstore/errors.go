package eventstore

import (
	"errors"
)

var (
	ErrEmptyEventsTableName        = errors.New("empty events table name supplied")
	ErrNilDatabaseConnection       = errors.New("nil database connection supplied")
	ErrInvalidEventsTableName      = errors.New("events table name must be a lower case sql identifier")
	ErrNoEventsToAppend            = errors.New("no events to append")
	ErrConcurrencyConflict         = errors.New("concurrency conflict: the event stream changed since it was queried")
	ErrQueryingEventsFailed        = errors.New("querying events failed")
	ErrAppendingEventFailed        = errors.New("appending the event failed")
	ErrBuildingQueryFailed         = errors.New("building the query failed")
	ErrScanningDBRowFailed         = errors.New("scanning the database row failed")
	ErrBuildingStorableEventFailed = errors.New("building the storable event failed")
	ErrGettingRowsAffectedFailed   = errors.New("getting the rows affected failed")
)

// MaxSequenceNumberUint is the highest sequence number of a "dynamic event stream" at the time of a Query.
type MaxSequenceNumberUint = uint
