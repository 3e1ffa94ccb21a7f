package core

import (
	"time"
)

// BookCopyReturnedByUserEventType is the event type identifier.
const BookCopyReturnedByUserEventType = "BookCopyReturnedByUser"

// BookCopyReturnedByUser represents when a loan ends: the copy is back on the shelf.
type BookCopyReturnedByUser struct {
	EventType  EventTypeString
	LoanID     LoanIDString
	BookID     BookIDString
	UserID     UserIDString
	ReturnDate time.Time
	OccurredAt OccurredAtTS
}

// BuildBookCopyReturnedByUser creates a new BookCopyReturnedByUser event.
func BuildBookCopyReturnedByUser(
	loanID LoanIDString,
	bookID BookIDString,
	userID UserIDString,
	occurredAt time.Time,
) BookCopyReturnedByUser {

	return BookCopyReturnedByUser{
		EventType:  BookCopyReturnedByUserEventType,
		LoanID:     loanID,
		BookID:     bookID,
		UserID:     userID,
		ReturnDate: ToOccurredAt(occurredAt),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BookCopyReturnedByUser) IsEventType() string {
	return BookCopyReturnedByUserEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookCopyReturnedByUser) HasOccurredAt() time.Time {
	return e.OccurredAt
}
