package lending

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/AntonStoeckl/library-lending-go/library/core"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/addbook"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/markoverdue"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/registeruser"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/removebook"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/removeuser"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/requestloan"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/returnloan"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/updatebook"
	"github.com/AntonStoeckl/library-lending-go/library/features/query/bookdetails"
	"github.com/AntonStoeckl/library-lending-go/library/features/query/dueloans"
	"github.com/AntonStoeckl/library-lending-go/library/features/query/finduser"
	"github.com/AntonStoeckl/library-lending-go/library/features/query/listbooks"
	"github.com/AntonStoeckl/library-lending-go/library/features/query/listloans"
	"github.com/AntonStoeckl/library-lending-go/library/features/query/listusers"
	"github.com/AntonStoeckl/library-lending-go/library/features/query/loandetails"
	"github.com/AntonStoeckl/library-lending-go/library/shell"
)

// ErrMissingEventInResult means a successful command did not report the event it appended.
var ErrMissingEventInResult = errors.New("command result carries no event")

// Service orchestrates the catalog, the loan ledger and the user registry.
type Service struct {
	handlers handlers
	clock    func() time.Time

	retryOptions     []shell.RetryOption
	metrics          shell.MetricsCollector
	tracing          shell.TracingCollector
	logger           shell.Logger
	contextualLogger shell.ContextualLogger
}

// NewService creates a Service on top of the event store.
func NewService(eventStore shell.EventStore, opts ...Option) (*Service, error) {
	service := &Service{clock: time.Now}

	for _, opt := range opts {
		opt(service)
	}

	if err := service.buildHandlers(eventStore); err != nil {
		return nil, err
	}

	return service, nil
}

/*** Catalog ***/

// AddBook puts a new book with all its copies into the catalog.
func (s *Service) AddBook(ctx context.Context, details core.BookDetails) (core.Book, error) {
	bookID, err := newUUID()
	if err != nil {
		return core.Book{}, err
	}

	result, err := s.handlers.addBook.Handle(ctx, addbook.BuildCommand(bookID, details, s.clock()))
	if err != nil {
		return core.Book{}, err
	}

	added, ok := shell.FirstEventOf[core.BookAddedToCatalog](result)
	if !ok {
		return core.Book{}, fmt.Errorf("%w: %s", ErrMissingEventInResult, core.BookAddedToCatalogEventType)
	}

	return core.Book{
		BookID:          added.BookID,
		BookDetails:     added.Details(),
		AvailableCopies: added.TotalCopies,
		AddedAt:         added.OccurredAt,
		UpdatedAt:       added.OccurredAt,
	}, nil
}

// UpdateBook applies a partial update and returns the book afterwards.
func (s *Service) UpdateBook(ctx context.Context, bookID core.BookIDString, patch core.BookPatch) (core.Book, error) {
	if _, err := s.handlers.updateBook.Handle(ctx, updatebook.BuildCommand(bookID, patch, s.clock())); err != nil {
		return core.Book{}, err
	}

	return s.Book(ctx, bookID)
}

// RemoveBook takes a book without copies on loan out of the catalog.
func (s *Service) RemoveBook(ctx context.Context, bookID core.BookIDString) error {
	_, err := s.handlers.removeBook.Handle(ctx, removebook.BuildCommand(bookID, s.clock()))

	return err
}

// ListBooks returns all catalog books, oldest first.
func (s *Service) ListBooks(ctx context.Context) ([]core.Book, error) {
	result, err := s.handlers.listBooks.Handle(ctx, listbooks.BuildQuery())
	if err != nil {
		return nil, err
	}

	return result.Books, nil
}

// Book returns one catalog book with its availability.
func (s *Service) Book(ctx context.Context, bookID core.BookIDString) (core.Book, error) {
	return s.handlers.bookDetails.Handle(ctx, bookdetails.BuildQuery(bookID))
}

/*** Loans ***/

// RequestLoan lends one copy of the book to the user for periodDays, 0 means the default period.
func (s *Service) RequestLoan(
	ctx context.Context,
	userID core.UserIDString,
	bookID core.BookIDString,
	periodDays int,
) (core.Loan, error) {

	now := s.clock()

	loanID, err := newULID(now)
	if err != nil {
		return core.Loan{}, err
	}

	result, err := s.handlers.requestLoan.Handle(ctx, requestloan.BuildCommand(loanID, userID, bookID, periodDays, now))
	if err != nil {
		return core.Loan{}, err
	}

	lent, ok := shell.FirstEventOf[core.BookCopyLentToUser](result)
	if !ok {
		return core.Loan{}, fmt.Errorf("%w: %s", ErrMissingEventInResult, core.BookCopyLentToUserEventType)
	}

	return core.Loan{
		LoanID:   lent.LoanID,
		UserID:   lent.UserID,
		BookID:   lent.BookID,
		LoanDate: lent.LoanDate,
		DueDate:  lent.DueDate,
		Status:   core.LoanActive,
	}, nil
}

// ReturnLoan ends an active or overdue loan and returns it in its final state.
func (s *Service) ReturnLoan(ctx context.Context, loanID core.LoanIDString) (core.Loan, error) {
	if _, err := s.handlers.returnLoan.Handle(ctx, returnloan.BuildCommand(loanID, s.clock())); err != nil {
		return core.Loan{}, err
	}

	return s.Loan(ctx, loanID)
}

// Loan returns one loan.
func (s *Service) Loan(ctx context.Context, loanID core.LoanIDString) (core.Loan, error) {
	return s.handlers.loanDetails.Handle(ctx, loandetails.BuildQuery(loanID))
}

// ListLoans returns the loans of all users, oldest first.
func (s *Service) ListLoans(ctx context.Context) ([]listloans.LoanView, error) {
	result, err := s.handlers.listLoans.Handle(ctx, listloans.BuildQuery())
	if err != nil {
		return nil, err
	}

	return result.Loans, nil
}

// ListLoansOfUser returns all loans of one user, returned ones included.
func (s *Service) ListLoansOfUser(ctx context.Context, userID core.UserIDString) ([]listloans.LoanView, error) {
	result, err := s.handlers.listLoans.Handle(ctx, listloans.BuildQueryForUser(userID))
	if err != nil {
		return nil, err
	}

	return result.Loans, nil
}

// DueLoans returns the active loans whose due date is before now.
func (s *Service) DueLoans(ctx context.Context, now time.Time) ([]core.Loan, error) {
	result, err := s.handlers.dueLoans.Handle(ctx, dueloans.BuildQuery(now))
	if err != nil {
		return nil, err
	}

	return result.Loans, nil
}

// MarkOverdue flags the loan as overdue if it is still active and due before now.
// It reports false without error when the loan was already overdue, returned or not yet due.
func (s *Service) MarkOverdue(ctx context.Context, loanID core.LoanIDString, now time.Time) (bool, error) {
	result, err := s.handlers.markOverdue.Handle(ctx, markoverdue.BuildCommand(loanID, now))
	if err != nil {
		return false, err
	}

	return !result.Idempotent, nil
}

/*** Users ***/

// RegisterUser registers an identity with an already hashed password.
func (s *Service) RegisterUser(ctx context.Context, registration core.Registration, passwordHash string) (core.User, error) {
	userID, err := newUUID()
	if err != nil {
		return core.User{}, err
	}

	result, err := s.handlers.registerUser.Handle(ctx, registeruser.BuildCommand(userID, registration, passwordHash, s.clock()))
	if err != nil {
		return core.User{}, err
	}

	registered, ok := shell.FirstEventOf[core.UserRegistered](result)
	if !ok {
		return core.User{}, fmt.Errorf("%w: %s", ErrMissingEventInResult, core.UserRegisteredEventType)
	}

	return core.User{
		UserID:       registered.UserID,
		Username:     registered.Username,
		Name:         registered.Name,
		Email:        registered.Email,
		CardID:       registered.CardID,
		Role:         registered.Role,
		PasswordHash: registered.PasswordHash,
		RegisteredAt: registered.OccurredAt,
	}, nil
}

// RemoveUser removes an identity that holds no books.
func (s *Service) RemoveUser(ctx context.Context, userID core.UserIDString) error {
	_, err := s.handlers.removeUser.Handle(ctx, removeuser.BuildCommand(userID, s.clock()))

	return err
}

// ListUsers returns all registered users, oldest first.
func (s *Service) ListUsers(ctx context.Context) ([]core.User, error) {
	result, err := s.handlers.listUsers.Handle(ctx, listusers.BuildQuery())
	if err != nil {
		return nil, err
	}

	return result.Users, nil
}

// User returns the registered user with the given id.
func (s *Service) User(ctx context.Context, userID core.UserIDString) (core.User, error) {
	return s.handlers.findUser.Handle(ctx, finduser.BuildQueryByID(userID))
}

// UserByUsername returns the registered user with the given username, compared case-insensitively.
func (s *Service) UserByUsername(ctx context.Context, username string) (core.User, error) {
	return s.handlers.findUser.Handle(ctx, finduser.BuildQueryByUsername(username))
}

func newUUID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

func newULID(at time.Time) (string, error) {
	id, err := ulid.New(ulid.Timestamp(at), ulid.Monotonic(rand.Reader, 0))
	if err != nil {
		return "", err
	}

	return id.String(), nil
}
