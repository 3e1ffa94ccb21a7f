package core

import (
	"time"
)

// LoanMarkedOverdueEventType is the event type identifier.
const LoanMarkedOverdueEventType = "LoanMarkedOverdue"

// LoanMarkedOverdue represents when the overdue scanner found an active loan past its due date.
type LoanMarkedOverdue struct {
	EventType  EventTypeString
	LoanID     LoanIDString
	BookID     BookIDString
	UserID     UserIDString
	DueDate    time.Time
	OccurredAt OccurredAtTS
}

// BuildLoanMarkedOverdue creates a new LoanMarkedOverdue event.
func BuildLoanMarkedOverdue(
	loanID LoanIDString,
	bookID BookIDString,
	userID UserIDString,
	dueDate time.Time,
	occurredAt time.Time,
) LoanMarkedOverdue {

	return LoanMarkedOverdue{
		EventType:  LoanMarkedOverdueEventType,
		LoanID:     loanID,
		BookID:     bookID,
		UserID:     userID,
		DueDate:    ToOccurredAt(dueDate),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e LoanMarkedOverdue) IsEventType() string {
	return LoanMarkedOverdueEventType
}

// HasOccurredAt returns when this event occurred.
func (e LoanMarkedOverdue) HasOccurredAt() time.Time {
	return e.OccurredAt
}
