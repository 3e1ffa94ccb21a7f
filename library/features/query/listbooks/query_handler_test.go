package listbooks_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/eventstore/memengine"
	"github.com/AntonStoeckl/library-lending-go/library/core"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/addbook"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/removebook"
	"github.com/AntonStoeckl/library-lending-go/library/features/query/listbooks"
)

func Test_QueryHandler_Handle_ListsCatalogBooksOldestFirst(t *testing.T) {
	// arrange
	ctx := t.Context()
	store := memengine.NewEventStore()
	fakeClock := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	addBook := addbook.NewCommandHandler(store)

	for i, bookID := range []string{"b-2", "b-1", "b-3"} {
		_, err := addBook.Handle(ctx, addbook.BuildCommand(bookID, core.BookDetails{
			Title:           "Title " + bookID,
			Author:          "Author",
			ISBN:            "isbn-" + bookID,
			PublicationYear: 2020,
			TotalCopies:     i + 1,
		}, fakeClock.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}

	_, err := removebook.NewCommandHandler(store).Handle(ctx, removebook.BuildCommand("b-1", fakeClock.Add(time.Hour)))
	require.NoError(t, err)

	// act
	result, err := listbooks.NewQueryHandler(store).Handle(ctx, listbooks.BuildQuery())

	// assert
	require.NoError(t, err)
	require.Equal(t, 2, result.Count)
	assert.Equal(t, "b-2", result.Books[0].BookID)
	assert.Equal(t, "b-3", result.Books[1].BookID)
	assert.Equal(t, 3, result.Books[1].AvailableCopies)
}
