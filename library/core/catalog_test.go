package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/library/core"
)

var fakeClock = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func Test_AddBook_MakesAllCopiesAvailable(t *testing.T) {
	// arrange
	catalog := core.NewBookCatalog()

	// act
	event, err := catalog.AddBook("b-1", givenBookDetails("978-1-098-10013-1", 3), fakeClock)

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.BookAddedToCatalogEventType, event.EventType)
	assert.Equal(t, 3, event.TotalCopies)

	available, err := catalog.AvailableCopies("b-1")
	require.NoError(t, err)
	assert.Equal(t, 3, available)
}

func Test_AddBook_Validation(t *testing.T) {
	tests := []struct {
		name    string
		details core.BookDetails
	}{
		{name: "missing title", details: withDetails(func(d *core.BookDetails) { d.Title = "  " })},
		{name: "missing author", details: withDetails(func(d *core.BookDetails) { d.Author = "" })},
		{name: "missing isbn", details: withDetails(func(d *core.BookDetails) { d.ISBN = "" })},
		{name: "publication year in the far future", details: withDetails(func(d *core.BookDetails) { d.PublicationYear = fakeClock.Year() + 2 })},
		{name: "publication year zero", details: withDetails(func(d *core.BookDetails) { d.PublicationYear = 0 })},
		{name: "no copies", details: withDetails(func(d *core.BookDetails) { d.TotalCopies = 0 })},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := core.NewBookCatalog().AddBook("b-1", tc.details, fakeClock)

			// assert
			assert.ErrorIs(t, err, core.ErrValidation)
		})
	}
}

func Test_AddBook_Fails_WhenISBNIsTaken(t *testing.T) {
	// arrange
	catalog := givenCatalogWithBook(t, "b-1", "978-1-098-10013-1", 1)

	// act
	_, err := catalog.AddBook("b-2", givenBookDetails("9781098100131", 1), fakeClock)

	// assert
	assert.ErrorIs(t, err, core.ErrConflict)
}

func Test_AddBook_AcceptsISBNOfRemovedBook(t *testing.T) {
	// arrange
	catalog := givenCatalogWithBook(t, "b-1", "978-1-098-10013-1", 1)
	_, err := catalog.RemoveBook("b-1", fakeClock)
	require.NoError(t, err)

	// act
	_, err = catalog.AddBook("b-2", givenBookDetails("978-1-098-10013-1", 1), fakeClock)

	// assert
	assert.NoError(t, err)
	assert.True(t, catalog.WasRemoved("b-1"))
}

func Test_Availability_StaysWithinBounds(t *testing.T) {
	// arrange
	catalog := givenCatalogWithBook(t, "b-1", "isbn-1", 2)

	// act & assert
	require.NoError(t, catalog.DecrementAvailability("b-1"))
	require.NoError(t, catalog.DecrementAvailability("b-1"))
	assert.ErrorIs(t, catalog.DecrementAvailability("b-1"), core.ErrNotAvailable)

	require.NoError(t, catalog.IncrementAvailability("b-1"))
	require.NoError(t, catalog.IncrementAvailability("b-1"))
	assert.ErrorIs(t, catalog.IncrementAvailability("b-1"), core.ErrOverflow)

	available, err := catalog.AvailableCopies("b-1")
	require.NoError(t, err)
	assert.Equal(t, 2, available)
}

func Test_Availability_OfUnknownBook_Fails(t *testing.T) {
	catalog := core.NewBookCatalog()

	assert.ErrorIs(t, catalog.DecrementAvailability("nope"), core.ErrNotFound)
	assert.ErrorIs(t, catalog.IncrementAvailability("nope"), core.ErrNotFound)
}

func Test_UpdateBook_PartialPatch_KeepsOtherFields(t *testing.T) {
	// arrange
	catalog := givenCatalogWithBook(t, "b-1", "isbn-1", 2)
	title := "Learning Domain-Driven Design, 2nd Edition"

	// act
	event, err := catalog.UpdateBook("b-1", core.BookPatch{Title: &title}, fakeClock.Add(time.Hour))

	// assert
	require.NoError(t, err)
	assert.Equal(t, title, event.Title)
	assert.Equal(t, "Vlad Khononov", event.Author)
	assert.Equal(t, "isbn-1", event.PreviousISBN)

	book, err := catalog.Book("b-1")
	require.NoError(t, err)
	assert.Equal(t, title, book.Title)
	assert.Equal(t, fakeClock, book.AddedAt)
	assert.Equal(t, fakeClock.Add(time.Hour), book.UpdatedAt)
}

func Test_UpdateBook_TotalCopies_RecomputesAvailability(t *testing.T) {
	// arrange
	catalog := givenCatalogWithBook(t, "b-1", "isbn-1", 3)
	require.NoError(t, catalog.DecrementAvailability("b-1"))
	require.NoError(t, catalog.DecrementAvailability("b-1"))
	newTotal := 5

	// act
	_, err := catalog.UpdateBook("b-1", core.BookPatch{TotalCopies: &newTotal}, fakeClock)

	// assert
	require.NoError(t, err)
	available, _ := catalog.AvailableCopies("b-1")
	assert.Equal(t, 3, available)
}

func Test_UpdateBook_Fails_WhenTotalBelowCopiesOnLoan(t *testing.T) {
	// arrange
	catalog := givenCatalogWithBook(t, "b-1", "isbn-1", 3)
	require.NoError(t, catalog.DecrementAvailability("b-1"))
	require.NoError(t, catalog.DecrementAvailability("b-1"))
	newTotal := 1

	// act
	_, err := catalog.UpdateBook("b-1", core.BookPatch{TotalCopies: &newTotal}, fakeClock)

	// assert
	assert.ErrorIs(t, err, core.ErrValidation)
}

func Test_UpdateBook_Fails_WhenISBNBelongsToAnotherBook(t *testing.T) {
	// arrange
	catalog := givenCatalogWithBook(t, "b-1", "isbn-1", 1)
	_, err := catalog.AddBook("b-2", givenBookDetails("isbn-2", 1), fakeClock)
	require.NoError(t, err)
	isbn := "ISBN-1"

	// act
	_, err = catalog.UpdateBook("b-2", core.BookPatch{ISBN: &isbn}, fakeClock)

	// assert
	assert.ErrorIs(t, err, core.ErrConflict)
}

func Test_UpdateBook_UnknownBook_Fails(t *testing.T) {
	_, err := core.NewBookCatalog().UpdateBook("b-1", core.BookPatch{}, fakeClock)

	assert.ErrorIs(t, err, core.ErrNotFound)
}

func Test_RemoveBook_Fails_WhileCopiesAreOnLoan(t *testing.T) {
	// arrange
	catalog := givenCatalogWithBook(t, "b-1", "isbn-1", 2)
	require.NoError(t, catalog.DecrementAvailability("b-1"))

	// act
	_, err := catalog.RemoveBook("b-1", fakeClock)

	// assert
	assert.ErrorIs(t, err, core.ErrConflict)
}

func Test_RemoveBook_ThenBookIsGone(t *testing.T) {
	// arrange
	catalog := givenCatalogWithBook(t, "b-1", "isbn-1", 2)

	// act
	_, err := catalog.RemoveBook("b-1", fakeClock)

	// assert
	require.NoError(t, err)
	_, err = catalog.Book("b-1")
	assert.ErrorIs(t, err, core.ErrNotFound)
	_, err = catalog.RemoveBook("b-1", fakeClock)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func Test_ProjectBookCatalog_AppliesLoanEventsToAvailability(t *testing.T) {
	// arrange
	history := core.DomainEvents{
		core.BuildBookAddedToCatalog("b-1", givenBookDetails("isbn-1", 2), fakeClock),
		core.BuildBookAddedToCatalog("b-2", givenBookDetails("isbn-2", 1), fakeClock.Add(-time.Hour)),
		core.BuildBookCopyLentToUser("l-1", "b-1", "u-1", fakeClock.AddDate(0, 0, 14), fakeClock),
		core.BuildBookCopyLentToUser("l-2", "b-1", "u-2", fakeClock.AddDate(0, 0, 14), fakeClock),
		core.BuildLoanMarkedOverdue("l-1", "b-1", "u-1", fakeClock, fakeClock),
		core.BuildBookCopyReturnedByUser("l-2", "b-1", "u-2", fakeClock),
		core.BuildUserRegistered("u-1", core.Registration{Username: "alice", Name: "Alice", Role: core.RoleStudent}, "hash", fakeClock),
	}

	// act
	catalog, err := core.ProjectBookCatalog(history)

	// assert
	require.NoError(t, err)
	books := catalog.Books()
	require.Len(t, books, 2)
	assert.Equal(t, "b-2", books[0].BookID)
	assert.Equal(t, 1, books[1].AvailableCopies)
}

func Test_ProjectBookCatalog_FailsOnImpossibleHistory(t *testing.T) {
	// arrange
	history := core.DomainEvents{
		core.BuildBookAddedToCatalog("b-1", givenBookDetails("isbn-1", 1), fakeClock),
		core.BuildBookCopyReturnedByUser("l-1", "b-1", "u-1", fakeClock),
	}

	// act
	_, err := core.ProjectBookCatalog(history)

	// assert
	assert.ErrorIs(t, err, core.ErrOverflow)
}

func givenBookDetails(isbn string, copies int) core.BookDetails {
	return core.BookDetails{
		Title:           "Learning Domain-Driven Design",
		Author:          "Vlad Khononov",
		ISBN:            isbn,
		Publisher:       "O'Reilly Media, Inc.",
		PublicationYear: 2021,
		Category:        "Software",
		TotalCopies:     copies,
	}
}

func withDetails(change func(*core.BookDetails)) core.BookDetails {
	details := givenBookDetails("isbn-1", 1)
	change(&details)

	return details
}

func givenCatalogWithBook(t *testing.T, bookID string, isbn string, copies int) *core.BookCatalog {
	t.Helper()

	catalog := core.NewBookCatalog()
	_, err := catalog.AddBook(bookID, givenBookDetails(isbn, copies), fakeClock)
	require.NoError(t, err)

	return catalog
}

func Test_Apply_ReportsEventsForUnknownBooks(t *testing.T) {
	catalog := core.NewBookCatalog()

	assert.ErrorIs(t, catalog.Apply(core.BuildBookDetailsUpdated("b-1", "isbn-1", givenBookDetails("isbn-1", 1), fakeClock)), core.ErrNotFound)
	assert.ErrorIs(t, catalog.Apply(core.BuildBookCopyLentToUser("l-1", "b-1", "u-1", fakeClock, fakeClock)), core.ErrNotFound)
	assert.ErrorIs(t, catalog.Apply(core.BuildBookCopyReturnedByUser("l-1", "b-1", "u-1", fakeClock)), core.ErrNotFound)
}
