package core

import (
	"time"
)

// BookCopyLentToUserEventType is the event type identifier.
const BookCopyLentToUserEventType = "BookCopyLentToUser"

// BookCopyLentToUser represents when a loan is granted: one copy of the book leaves the shelf.
type BookCopyLentToUser struct {
	EventType  EventTypeString
	LoanID     LoanIDString
	BookID     BookIDString
	UserID     UserIDString
	LoanDate   time.Time
	DueDate    time.Time
	OccurredAt OccurredAtTS
}

// BuildBookCopyLentToUser creates a new BookCopyLentToUser event, the loan date is the time of occurrence.
func BuildBookCopyLentToUser(
	loanID LoanIDString,
	bookID BookIDString,
	userID UserIDString,
	dueDate time.Time,
	occurredAt time.Time,
) BookCopyLentToUser {

	return BookCopyLentToUser{
		EventType:  BookCopyLentToUserEventType,
		LoanID:     loanID,
		BookID:     bookID,
		UserID:     userID,
		LoanDate:   ToOccurredAt(occurredAt),
		DueDate:    ToOccurredAt(dueDate),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BookCopyLentToUser) IsEventType() string {
	return BookCopyLentToUserEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookCopyLentToUser) HasOccurredAt() time.Time {
	return e.OccurredAt
}
