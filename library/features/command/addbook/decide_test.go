package addbook_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/library/core"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/addbook"
)

func Test_Decide_Success_WhenCatalogIsEmpty(t *testing.T) {
	// arrange
	now := time.Now()
	command := addbook.BuildCommand("b-1", givenDetails("978-1-098-10013-1"), now)

	// act
	result := addbook.Decide(nil, command)

	// assert
	require.NoError(t, result.HasError())
	require.Len(t, result.Events, 1)

	added, ok := result.Events[0].(core.BookAddedToCatalog)
	require.True(t, ok, "Expected BookAddedToCatalog event")
	assert.Equal(t, "b-1", added.BookID)
	assert.Equal(t, 2, added.TotalCopies)
}

func Test_Decide_Error_WhenISBNIsTaken(t *testing.T) {
	// arrange
	now := time.Now()
	events := core.DomainEvents{
		core.BuildBookAddedToCatalog("b-1", givenDetails("978-1-098-10013-1"), now.Add(-time.Hour)),
	}
	command := addbook.BuildCommand("b-2", givenDetails("9781098100131"), now)

	// act
	result := addbook.Decide(events, command)

	// assert
	assert.ErrorIs(t, result.HasError(), core.ErrConflict)
	assert.Empty(t, result.Events)
}

func Test_Decide_Success_WhenISBNWasFreedByRemoval(t *testing.T) {
	// arrange
	now := time.Now()
	events := core.DomainEvents{
		core.BuildBookAddedToCatalog("b-1", givenDetails("978-1-098-10013-1"), now.Add(-2*time.Hour)),
		core.BuildBookRemovedFromCatalog("b-1", "978-1-098-10013-1", now.Add(-time.Hour)),
	}
	command := addbook.BuildCommand("b-2", givenDetails("978-1-098-10013-1"), now)

	// act
	result := addbook.Decide(events, command)

	// assert
	assert.NoError(t, result.HasError())
	assert.True(t, result.HasEventToAppend())
}

func Test_Decide_Error_WhenDetailsAreInvalid(t *testing.T) {
	// arrange
	details := givenDetails("978-1-098-10013-1")
	details.TotalCopies = 0

	// act
	result := addbook.Decide(nil, addbook.BuildCommand("b-1", details, time.Now()))

	// assert
	assert.ErrorIs(t, result.HasError(), core.ErrValidation)
}

func givenDetails(isbn string) core.BookDetails {
	return core.BookDetails{
		Title:           "Learning Domain-Driven Design",
		Author:          "Vlad Khononov",
		ISBN:            isbn,
		Publisher:       "O'Reilly Media, Inc.",
		PublicationYear: 2021,
		TotalCopies:     2,
	}
}
