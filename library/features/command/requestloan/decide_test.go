package requestloan_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/library/core"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/requestloan"
)

func Test_Decide_Success_LendsCopyWithDefaultPeriod(t *testing.T) {
	// arrange
	now := time.Now()
	events := core.DomainEvents{
		givenBookAdded(t, 2, now.Add(-2*time.Hour)),
		givenUserRegistered(t, "u-1", core.RoleStudent, now.Add(-time.Hour)),
	}
	command := requestloan.BuildCommand("l-1", "u-1", "b-1", 0, now)

	// act
	result := requestloan.Decide(events, command)

	// assert
	require.NoError(t, result.HasError())
	require.Len(t, result.Events, 1)

	lent, ok := result.Events[0].(core.BookCopyLentToUser)
	require.True(t, ok, "Expected BookCopyLentToUser event")
	assert.Equal(t, "l-1", lent.LoanID)
	assert.Equal(t, command.OccurredAt.AddDate(0, 0, core.DefaultLoanPeriodDays), lent.DueDate)
}

func Test_Decide_Errors(t *testing.T) {
	now := time.Now()
	book := givenBookAdded(t, 1, now.Add(-3*time.Hour))
	student := givenUserRegistered(t, "u-1", core.RoleStudent, now.Add(-2*time.Hour))
	admin := givenUserRegistered(t, "u-1", core.RoleAdmin, now.Add(-2*time.Hour))
	lentToOther := core.BuildBookCopyLentToUser("l-0", "b-1", "u-2", now.AddDate(0, 0, 14), now.Add(-time.Hour))
	lentToSame := core.BuildBookCopyLentToUser("l-0", "b-1", "u-1", now.AddDate(0, 0, 14), now.Add(-time.Hour))

	tests := []struct {
		name       string
		history    core.DomainEvents
		periodDays int
		wantErr    error
	}{
		{name: "period too long", history: core.DomainEvents{book, student}, periodDays: 61, wantErr: core.ErrValidation},
		{name: "unknown user", history: core.DomainEvents{book}, wantErr: core.ErrNotFound},
		{name: "admin may not borrow", history: core.DomainEvents{book, admin}, wantErr: core.ErrNotPermitted},
		{name: "unknown book", history: core.DomainEvents{student}, wantErr: core.ErrNotFound},
		{name: "last copy lent to another user", history: core.DomainEvents{book, student, lentToOther}, wantErr: core.ErrNotAvailable},
		{
			name:    "user still holds a copy",
			history: core.DomainEvents{givenBookAdded(t, 2, now.Add(-3*time.Hour)), student, lentToSame},
			wantErr: core.ErrDuplicateActiveLoan,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// act
			result := requestloan.Decide(tc.history, requestloan.BuildCommand("l-1", "u-1", "b-1", tc.periodDays, now))

			// assert
			assert.ErrorIs(t, result.HasError(), tc.wantErr)
			assert.Empty(t, result.Events)
		})
	}
}

func Test_Decide_Success_AfterPreviousLoanWasReturned(t *testing.T) {
	// arrange
	now := time.Now()
	events := core.DomainEvents{
		givenBookAdded(t, 1, now.Add(-4*time.Hour)),
		givenUserRegistered(t, "u-1", core.RoleTeacher, now.Add(-3*time.Hour)),
		core.BuildBookCopyLentToUser("l-0", "b-1", "u-1", now.AddDate(0, 0, 14), now.Add(-2*time.Hour)),
		core.BuildBookCopyReturnedByUser("l-0", "b-1", "u-1", now.Add(-time.Hour)),
	}

	// act
	result := requestloan.Decide(events, requestloan.BuildCommand("l-1", "u-1", "b-1", 7, now))

	// assert
	assert.NoError(t, result.HasError())
	assert.True(t, result.HasEventToAppend())
}

func givenBookAdded(t *testing.T, copies int, at time.Time) core.DomainEvent {
	t.Helper()

	return core.BuildBookAddedToCatalog("b-1", core.BookDetails{
		Title:           "Learning Domain-Driven Design",
		Author:          "Vlad Khononov",
		ISBN:            "978-1-098-10013-1",
		PublicationYear: 2021,
		TotalCopies:     copies,
	}, at)
}

func givenUserRegistered(t *testing.T, userID string, role core.Role, at time.Time) core.DomainEvent {
	t.Helper()

	return core.BuildUserRegistered(userID, core.Registration{Username: "user-" + userID, Name: "Borrower", Role: role}, "hash", at)
}
