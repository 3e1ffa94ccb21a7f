package listloans_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/library/core"
	"github.com/AntonStoeckl/library-lending-go/library/features/query/listloans"
)

func Test_Project_AttachesLastKnownBookSummary(t *testing.T) {
	// arrange
	fakeClock := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	details := core.BookDetails{Title: "Old Title", Author: "Vlad Khononov", ISBN: "isbn-1", PublicationYear: 2021, TotalCopies: 1}
	updated := details
	updated.Title = "New Title"

	history := core.DomainEvents{
		core.BuildBookAddedToCatalog("b-1", details, fakeClock),
		core.BuildBookCopyLentToUser("l-1", "b-1", "u-1", fakeClock.AddDate(0, 0, 14), fakeClock.Add(time.Hour)),
		core.BuildBookDetailsUpdated("b-1", "isbn-1", updated, fakeClock.Add(2*time.Hour)),
		core.BuildBookCopyReturnedByUser("l-1", "b-1", "u-1", fakeClock.Add(3*time.Hour)),
		core.BuildBookRemovedFromCatalog("b-1", "isbn-1", fakeClock.Add(4*time.Hour)),
		core.BuildBookCopyLentToUser("l-2", "b-404", "u-1", fakeClock.AddDate(0, 0, 14), fakeClock.Add(5*time.Hour)),
	}

	// act
	result, err := listloans.Project(history, listloans.BuildQuery())

	// assert
	require.NoError(t, err)
	require.Equal(t, 2, result.Count)

	first := result.Loans[0]
	assert.Equal(t, "l-1", first.LoanID)
	assert.Equal(t, core.LoanReturned, first.Status)
	require.NotNil(t, first.Book)
	assert.Equal(t, "New Title", first.Book.Title)

	assert.Nil(t, result.Loans[1].Book)
}

func Test_Project_ForUser_ExcludesOtherUsers(t *testing.T) {
	// arrange
	fakeClock := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	history := core.DomainEvents{
		core.BuildBookCopyLentToUser("l-1", "b-1", "u-1", fakeClock.AddDate(0, 0, 14), fakeClock),
		core.BuildBookCopyLentToUser("l-2", "b-1", "u-2", fakeClock.AddDate(0, 0, 14), fakeClock),
	}

	// act
	result, err := listloans.Project(history, listloans.BuildQueryForUser("u-2"))

	// assert
	require.NoError(t, err)
	require.Len(t, result.Loans, 1)
	assert.Equal(t, "l-2", result.Loans[0].LoanID)
}

func Test_BuildEventFilter_RestrictsOnlyLoanEventsToUser(t *testing.T) {
	// act
	filter := listloans.BuildEventFilter(listloans.BuildQueryForUser("u-1"))

	// assert
	require.Len(t, filter.Items(), 2)
	assert.Empty(t, filter.Items()[0].Predicates())
	assert.Len(t, filter.Items()[1].Predicates(), 1)
}
