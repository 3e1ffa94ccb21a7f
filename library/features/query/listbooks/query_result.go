package listbooks

import (
	"github.com/AntonStoeckl/library-lending-go/library/core"
)

// Books represents the query result, ordered by the time the books were added.
type Books struct {
	Books []core.Book
	Count int
}
