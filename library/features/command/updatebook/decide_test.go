package updatebook_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/library/core"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/updatebook"
)

func Test_Decide_Success_MergesPatch(t *testing.T) {
	// arrange
	now := time.Now()
	events := givenBookWithOneCopyOnLoan(now)
	copies := 4
	command := updatebook.BuildCommand("b-1", core.BookPatch{TotalCopies: &copies}, now)

	// act
	result := updatebook.Decide(events, command)

	// assert
	require.NoError(t, result.HasError())
	require.Len(t, result.Events, 1)

	updated, ok := result.Events[0].(core.BookDetailsUpdated)
	require.True(t, ok, "Expected BookDetailsUpdated event")
	assert.Equal(t, 4, updated.TotalCopies)
	assert.Equal(t, "Learning Domain-Driven Design", updated.Title)
}

func Test_Decide_Idempotent_WhenPatchChangesNothing(t *testing.T) {
	// arrange
	now := time.Now()
	title := " Learning Domain-Driven Design "

	// act
	emptyPatch := updatebook.Decide(givenBookWithOneCopyOnLoan(now), updatebook.BuildCommand("b-1", core.BookPatch{}, now))
	sameTitle := updatebook.Decide(givenBookWithOneCopyOnLoan(now), updatebook.BuildCommand("b-1", core.BookPatch{Title: &title}, now))

	// assert
	assert.True(t, emptyPatch.IsIdempotent())
	assert.True(t, sameTitle.IsIdempotent())
}

func Test_Decide_Error_WhenTotalDropsBelowCopiesOnLoan(t *testing.T) {
	// arrange
	now := time.Now()
	copies := 0
	events := givenBookWithOneCopyOnLoan(now)

	// act
	result := updatebook.Decide(events, updatebook.BuildCommand("b-1", core.BookPatch{TotalCopies: &copies}, now))

	// assert
	assert.ErrorIs(t, result.HasError(), core.ErrValidation)
}

func Test_Decide_Error_WhenBookIsUnknown(t *testing.T) {
	// arrange
	title := "Another Title"

	// act
	result := updatebook.Decide(nil, updatebook.BuildCommand("b-404", core.BookPatch{Title: &title}, time.Now()))

	// assert
	assert.ErrorIs(t, result.HasError(), core.ErrNotFound)
}

func givenBookWithOneCopyOnLoan(now time.Time) core.DomainEvents {
	details := core.BookDetails{
		Title:           "Learning Domain-Driven Design",
		Author:          "Vlad Khononov",
		ISBN:            "978-1-098-10013-1",
		PublicationYear: 2021,
		TotalCopies:     2,
	}

	return core.DomainEvents{
		core.BuildBookAddedToCatalog("b-1", details, now.Add(-2*time.Hour)),
		core.BuildBookCopyLentToUser("l-1", "b-1", "u-1", now.AddDate(0, 0, 14), now.Add(-time.Hour)),
	}
}
