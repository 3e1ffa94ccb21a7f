package bookdetails

import (
	"github.com/AntonStoeckl/library-lending-go/library/core"
)

const (
	queryType = "BookDetails"
)

// Query represents the intent to read one book.
type Query struct {
	BookID core.BookIDString
}

// BuildQuery creates a new Query with the provided book ID.
func BuildQuery(bookID core.BookIDString) Query {
	return Query{
		BookID: bookID,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
