package core

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

const (
	// DefaultLoanPeriodDays applies when a loan is requested without a period.
	DefaultLoanPeriodDays = 14

	// MaxLoanPeriodDays is the longest loan period that can be requested.
	MaxLoanPeriodDays = 60
)

// LoanStatus is the lifecycle state of a loan: active -> returned, active -> overdue, overdue -> returned.
type LoanStatus string

// The loan states.
const (
	LoanActive   LoanStatus = "active"
	LoanReturned LoanStatus = "returned"
	LoanOverdue  LoanStatus = "overdue"
)

// NormalizeLoanPeriod resolves the requested loan period, 0 means the default.
func NormalizeLoanPeriod(days int) (int, error) {
	if days == 0 {
		return DefaultLoanPeriodDays, nil
	}

	if days < 1 || days > MaxLoanPeriodDays {
		return 0, validationError([]string{fmt.Sprintf("loanPeriodDays must be between 1 and %d", MaxLoanPeriodDays)})
	}

	return days, nil
}

// Loan records one copy of a book held by a user.
type Loan struct {
	LoanID     LoanIDString
	UserID     UserIDString
	BookID     BookIDString
	LoanDate   time.Time
	DueDate    time.Time
	ReturnDate *time.Time
	Status     LoanStatus
}

// IsOutstanding reports whether the copy is still held by the user.
func (l Loan) IsOutstanding() bool {
	return l.Status == LoanActive || l.Status == LoanOverdue
}

type holding struct {
	userID UserIDString
	bookID BookIDString
}

// LoanLedger holds all loans, loans are never deleted.
type LoanLedger struct {
	loans       map[LoanIDString]*Loan
	outstanding map[holding]LoanIDString
}

// NewLoanLedger returns an empty ledger.
func NewLoanLedger() *LoanLedger {
	return &LoanLedger{
		loans:       make(map[LoanIDString]*Loan),
		outstanding: make(map[holding]LoanIDString),
	}
}

// ProjectLoanLedger replays the history into a LoanLedger, events of other types are ignored.
func ProjectLoanLedger(history DomainEvents) (*LoanLedger, error) {
	ledger := NewLoanLedger()

	for _, event := range history {
		if err := ledger.Apply(event); err != nil {
			return nil, err
		}
	}

	return ledger, nil
}

// Apply folds one event into the ledger.
func (l *LoanLedger) Apply(event DomainEvent) error {
	switch e := event.(type) {
	case BookCopyLentToUser:
		l.loans[e.LoanID] = &Loan{
			LoanID:   e.LoanID,
			UserID:   e.UserID,
			BookID:   e.BookID,
			LoanDate: e.LoanDate,
			DueDate:  e.DueDate,
			Status:   LoanActive,
		}
		l.outstanding[holding{userID: e.UserID, bookID: e.BookID}] = e.LoanID

	case BookCopyReturnedByUser:
		loan, ok := l.loans[e.LoanID]
		if !ok {
			return notFound("loan", e.LoanID)
		}

		returnDate := e.ReturnDate
		loan.ReturnDate = &returnDate
		loan.Status = LoanReturned
		delete(l.outstanding, holding{userID: loan.UserID, bookID: loan.BookID})

	case LoanMarkedOverdue:
		loan, ok := l.loans[e.LoanID]
		if !ok {
			return notFound("loan", e.LoanID)
		}

		if loan.Status == LoanActive {
			loan.Status = LoanOverdue
		}
	}

	return nil
}

// HasActiveLoan reports whether the user has an active, not yet overdue, loan of the book.
func (l *LoanLedger) HasActiveLoan(userID UserIDString, bookID BookIDString) bool {
	loanID, ok := l.outstanding[holding{userID: userID, bookID: bookID}]

	return ok && l.loans[loanID].Status == LoanActive
}

// HasOutstandingLoan reports whether the user still holds a copy of the book.
func (l *LoanLedger) HasOutstandingLoan(userID UserIDString, bookID BookIDString) bool {
	_, ok := l.outstanding[holding{userID: userID, bookID: bookID}]

	return ok
}

// CreateLoan returns the event that lends one copy of the book to the user, due after periodDays.
func (l *LoanLedger) CreateLoan(
	loanID LoanIDString,
	userID UserIDString,
	bookID BookIDString,
	periodDays int,
	now time.Time,
) (BookCopyLentToUser, error) {

	if periodDays < 1 || periodDays > MaxLoanPeriodDays {
		return BookCopyLentToUser{}, validationError([]string{
			fmt.Sprintf("loanPeriodDays must be between 1 and %d", MaxLoanPeriodDays),
		})
	}

	if _, exists := l.loans[loanID]; exists {
		return BookCopyLentToUser{}, fmt.Errorf("%w: loan %s already exists", ErrConflict, loanID)
	}

	if l.HasOutstandingLoan(userID, bookID) {
		return BookCopyLentToUser{}, fmt.Errorf("%w: user %s, book %s", ErrDuplicateActiveLoan, userID, bookID)
	}

	event := BuildBookCopyLentToUser(loanID, bookID, userID, now.AddDate(0, 0, periodDays), now)
	if err := l.Apply(event); err != nil {
		return BookCopyLentToUser{}, err
	}

	return event, nil
}

// MarkReturned returns the event that ends an active or overdue loan.
func (l *LoanLedger) MarkReturned(loanID LoanIDString, now time.Time) (BookCopyReturnedByUser, error) {
	loan, ok := l.loans[loanID]
	if !ok {
		return BookCopyReturnedByUser{}, notFound("loan", loanID)
	}

	if loan.Status == LoanReturned {
		return BookCopyReturnedByUser{}, fmt.Errorf("%w: loan %s", ErrAlreadyReturned, loanID)
	}

	event := BuildBookCopyReturnedByUser(loanID, loan.BookID, loan.UserID, now)
	if err := l.Apply(event); err != nil {
		return BookCopyReturnedByUser{}, err
	}

	return event, nil
}

// MarkOverdue returns the overdue event for an active loan past its due date.
// For any other loan nothing changes and changed is false.
func (l *LoanLedger) MarkOverdue(loanID LoanIDString, now time.Time) (event LoanMarkedOverdue, changed bool, err error) {
	loan, ok := l.loans[loanID]
	if !ok {
		return LoanMarkedOverdue{}, false, notFound("loan", loanID)
	}

	if loan.Status != LoanActive || !loan.DueDate.Before(now) {
		return LoanMarkedOverdue{}, false, nil
	}

	event = BuildLoanMarkedOverdue(loanID, loan.BookID, loan.UserID, loan.DueDate, now)
	if err := l.Apply(event); err != nil {
		return LoanMarkedOverdue{}, false, err
	}

	return event, true, nil
}

// Loan returns a copy of the loan.
func (l *LoanLedger) Loan(loanID LoanIDString) (Loan, error) {
	loan, ok := l.loans[loanID]
	if !ok {
		return Loan{}, notFound("loan", loanID)
	}

	return *loan, nil
}

// Loans returns all loans ordered by loan date.
func (l *LoanLedger) Loans() []Loan {
	return l.collect(func(Loan) bool { return true })
}

// LoansOfUser returns all loans of the user, including returned ones.
func (l *LoanLedger) LoansOfUser(userID UserIDString) []Loan {
	return l.collect(func(loan Loan) bool { return loan.UserID == userID })
}

// OutstandingLoansOfUser returns the loans whose copies the user still holds.
func (l *LoanLedger) OutstandingLoansOfUser(userID UserIDString) []Loan {
	return l.collect(func(loan Loan) bool { return loan.UserID == userID && loan.IsOutstanding() })
}

// DueForOverdue returns the active loans whose due date is before now.
func (l *LoanLedger) DueForOverdue(now time.Time) []Loan {
	return l.collect(func(loan Loan) bool { return loan.Status == LoanActive && loan.DueDate.Before(now) })
}

func (l *LoanLedger) collect(keep func(Loan) bool) []Loan {
	loans := make([]Loan, 0)
	for _, loan := range l.loans {
		if keep(*loan) {
			loans = append(loans, *loan)
		}
	}

	slices.SortFunc(loans, func(a, b Loan) int {
		if byTime := a.LoanDate.Compare(b.LoanDate); byTime != 0 {
			return byTime
		}

		return strings.Compare(a.LoanID, b.LoanID)
	})

	return loans
}
