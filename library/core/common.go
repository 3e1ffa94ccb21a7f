package core

import (
	"time"
)

// Instead of implementing full value objects, some alias types and helper methods are used here.

// BookIDString represents a book identifier.
type BookIDString = string

// UserIDString represents a user identifier.
type UserIDString = string

// LoanIDString represents a loan identifier.
type LoanIDString = string

// ISBNString represents an ISBN.
type ISBNString = string

// EventTypeString represents the type of a domain event.
type EventTypeString = string

// OccurredAtTS represents when an event occurred.
type OccurredAtTS = time.Time

// ToOccurredAt converts a time to UTC with microsecond precision, the precision Postgres stores.
func ToOccurredAt(t time.Time) OccurredAtTS {
	return t.UTC().Truncate(time.Microsecond)
}
