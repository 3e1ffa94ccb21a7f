package returnloan_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/library/core"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/returnloan"
)

func Test_Decide_Success_ReturnsActiveAndOverdueLoans(t *testing.T) {
	now := time.Now()
	lent := core.BuildBookCopyLentToUser("l-1", "b-1", "u-1", now.Add(-time.Hour), now.Add(-2*time.Hour))

	tests := []struct {
		name    string
		history core.DomainEvents
	}{
		{name: "active", history: core.DomainEvents{givenBookAdded(now), lent}},
		{
			name:    "overdue",
			history: core.DomainEvents{givenBookAdded(now), lent, core.BuildLoanMarkedOverdue("l-1", "b-1", "u-1", now.Add(-time.Hour), now.Add(-time.Minute))},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// act
			result := returnloan.Decide(tc.history, returnloan.BuildCommand("l-1", now))

			// assert
			require.NoError(t, result.HasError())
			require.Len(t, result.Events, 1)

			returned, ok := result.Events[0].(core.BookCopyReturnedByUser)
			require.True(t, ok, "Expected BookCopyReturnedByUser event")
			assert.Equal(t, "b-1", returned.BookID)
			assert.Equal(t, "u-1", returned.UserID)
		})
	}
}

func Test_Decide_Error_WhenAlreadyReturned(t *testing.T) {
	// arrange
	now := time.Now()
	events := core.DomainEvents{
		givenBookAdded(now),
		core.BuildBookCopyLentToUser("l-1", "b-1", "u-1", now.AddDate(0, 0, 14), now.Add(-2*time.Hour)),
		core.BuildBookCopyReturnedByUser("l-1", "b-1", "u-1", now.Add(-time.Hour)),
	}

	// act
	result := returnloan.Decide(events, returnloan.BuildCommand("l-1", now))

	// assert
	assert.ErrorIs(t, result.HasError(), core.ErrAlreadyReturned)
}

func Test_Decide_Error_WhenLoanIsUnknown(t *testing.T) {
	// act
	result := returnloan.Decide(core.DomainEvents{givenBookAdded(time.Now())}, returnloan.BuildCommand("l-404", time.Now()))

	// assert
	assert.ErrorIs(t, result.HasError(), core.ErrNotFound)
}

func givenBookAdded(now time.Time) core.DomainEvent {
	return core.BuildBookAddedToCatalog("b-1", core.BookDetails{
		Title:           "Learning Domain-Driven Design",
		Author:          "Vlad Khononov",
		ISBN:            "978-1-098-10013-1",
		PublicationYear: 2021,
		TotalCopies:     1,
	}, now.Add(-3*time.Hour))
}
