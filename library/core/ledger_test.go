package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/library/core"
)

func Test_NormalizeLoanPeriod(t *testing.T) {
	tests := []struct {
		requested int
		expected  int
		valid     bool
	}{
		{requested: 0, expected: core.DefaultLoanPeriodDays, valid: true},
		{requested: 1, expected: 1, valid: true},
		{requested: 60, expected: 60, valid: true},
		{requested: 61, valid: false},
		{requested: -3, valid: false},
	}

	for _, tc := range tests {
		days, err := core.NormalizeLoanPeriod(tc.requested)

		if !tc.valid {
			assert.ErrorIs(t, err, core.ErrValidation, "requested %d", tc.requested)
			continue
		}

		require.NoError(t, err)
		assert.Equal(t, tc.expected, days)
	}
}

func Test_CreateLoan_SetsDueDate(t *testing.T) {
	// arrange
	ledger := core.NewLoanLedger()

	// act
	event, err := ledger.CreateLoan("l-1", "u-1", "b-1", 14, fakeClock)

	// assert
	require.NoError(t, err)
	assert.Equal(t, fakeClock, event.LoanDate)
	assert.Equal(t, fakeClock.AddDate(0, 0, 14), event.DueDate)
	assert.True(t, ledger.HasActiveLoan("u-1", "b-1"))
}

func Test_CreateLoan_AtMostOneOutstandingLoanPerUserAndBook(t *testing.T) {
	// arrange
	ledger := core.NewLoanLedger()
	_, err := ledger.CreateLoan("l-1", "u-1", "b-1", 14, fakeClock)
	require.NoError(t, err)

	// act
	_, errSameBook := ledger.CreateLoan("l-2", "u-1", "b-1", 14, fakeClock)
	_, errOtherUser := ledger.CreateLoan("l-3", "u-2", "b-1", 14, fakeClock)
	_, errOtherBook := ledger.CreateLoan("l-4", "u-1", "b-2", 14, fakeClock)

	// assert
	assert.ErrorIs(t, errSameBook, core.ErrDuplicateActiveLoan)
	assert.NoError(t, errOtherUser)
	assert.NoError(t, errOtherBook)
}

func Test_CreateLoan_OverdueLoanStillCountsAsHeld(t *testing.T) {
	// arrange
	ledger := core.NewLoanLedger()
	_, err := ledger.CreateLoan("l-1", "u-1", "b-1", 1, fakeClock)
	require.NoError(t, err)
	_, changed, err := ledger.MarkOverdue("l-1", fakeClock.AddDate(0, 0, 2))
	require.NoError(t, err)
	require.True(t, changed)

	// act
	_, err = ledger.CreateLoan("l-2", "u-1", "b-1", 14, fakeClock.AddDate(0, 0, 2))

	// assert
	assert.ErrorIs(t, err, core.ErrDuplicateActiveLoan)
	assert.False(t, ledger.HasActiveLoan("u-1", "b-1"))
	assert.True(t, ledger.HasOutstandingLoan("u-1", "b-1"))
}

func Test_MarkReturned_Transitions(t *testing.T) {
	// arrange
	ledger := core.NewLoanLedger()
	_, err := ledger.CreateLoan("l-1", "u-1", "b-1", 14, fakeClock)
	require.NoError(t, err)
	returnedAt := fakeClock.Add(48 * time.Hour)

	// act
	event, err := ledger.MarkReturned("l-1", returnedAt)

	// assert
	require.NoError(t, err)
	assert.Equal(t, "b-1", event.BookID)

	loan, err := ledger.Loan("l-1")
	require.NoError(t, err)
	assert.Equal(t, core.LoanReturned, loan.Status)
	require.NotNil(t, loan.ReturnDate)
	assert.Equal(t, returnedAt, *loan.ReturnDate)
	assert.False(t, ledger.HasOutstandingLoan("u-1", "b-1"))

	_, err = ledger.MarkReturned("l-1", returnedAt)
	assert.ErrorIs(t, err, core.ErrAlreadyReturned)

	_, err = ledger.MarkReturned("l-404", returnedAt)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func Test_MarkOverdue_IsIdempotent(t *testing.T) {
	// arrange
	ledger := core.NewLoanLedger()
	_, err := ledger.CreateLoan("l-1", "u-1", "b-1", 14, fakeClock)
	require.NoError(t, err)
	later := fakeClock.AddDate(0, 0, 15)

	// act
	_, notYetDue, errNotYetDue := ledger.MarkOverdue("l-1", fakeClock.AddDate(0, 0, 13))
	event, first, errFirst := ledger.MarkOverdue("l-1", later)
	_, second, errSecond := ledger.MarkOverdue("l-1", later)

	// assert
	require.NoError(t, errNotYetDue)
	require.NoError(t, errFirst)
	require.NoError(t, errSecond)
	assert.False(t, notYetDue)
	assert.True(t, first)
	assert.False(t, second)
	assert.Equal(t, fakeClock.AddDate(0, 0, 14), event.DueDate)

	_, _, err = ledger.MarkOverdue("l-404", later)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func Test_MarkOverdue_NeverTouchesReturnedLoans(t *testing.T) {
	// arrange
	ledger := core.NewLoanLedger()
	_, err := ledger.CreateLoan("l-1", "u-1", "b-1", 1, fakeClock)
	require.NoError(t, err)
	_, err = ledger.MarkReturned("l-1", fakeClock.AddDate(0, 0, 3))
	require.NoError(t, err)

	// act
	_, changed, err := ledger.MarkOverdue("l-1", fakeClock.AddDate(0, 0, 5))

	// assert
	require.NoError(t, err)
	assert.False(t, changed)
	loan, _ := ledger.Loan("l-1")
	assert.Equal(t, core.LoanReturned, loan.Status)
}

func Test_ProjectLoanLedger_Queries(t *testing.T) {
	// arrange
	history := core.DomainEvents{
		core.BuildBookCopyLentToUser("l-1", "b-1", "u-1", fakeClock.AddDate(0, 0, 1), fakeClock),
		core.BuildBookCopyLentToUser("l-2", "b-2", "u-1", fakeClock.AddDate(0, 0, 30), fakeClock.Add(time.Minute)),
		core.BuildBookCopyLentToUser("l-3", "b-1", "u-2", fakeClock.AddDate(0, 0, 1), fakeClock.Add(2*time.Minute)),
		core.BuildBookCopyReturnedByUser("l-3", "b-1", "u-2", fakeClock.Add(time.Hour)),
		core.BuildBookAddedToCatalog("b-1", givenBookDetails("isbn-1", 2), fakeClock),
	}
	now := fakeClock.AddDate(0, 0, 2)

	// act
	ledger, err := core.ProjectLoanLedger(history)

	// assert
	require.NoError(t, err)
	assert.Len(t, ledger.Loans(), 3)
	assert.Len(t, ledger.LoansOfUser("u-1"), 2)
	assert.Len(t, ledger.OutstandingLoansOfUser("u-2"), 0)

	due := ledger.DueForOverdue(now)
	require.Len(t, due, 1)
	assert.Equal(t, "l-1", due[0].LoanID)
}

func Test_Apply_ReportsEventsForUnknownLoans(t *testing.T) {
	ledger := core.NewLoanLedger()

	assert.ErrorIs(t, ledger.Apply(core.BuildBookCopyReturnedByUser("l-1", "b-1", "u-1", fakeClock)), core.ErrNotFound)
	assert.ErrorIs(t, ledger.Apply(core.BuildLoanMarkedOverdue("l-1", "b-1", "u-1", fakeClock, fakeClock)), core.ErrNotFound)
}
