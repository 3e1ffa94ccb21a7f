package addbook

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/library/core"
)

const (
	commandType = "AddBook"
)

// Command represents the intent to add a book to the catalog.
type Command struct {
	BookID     core.BookIDString
	Details    core.BookDetails
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(bookID core.BookIDString, details core.BookDetails, occurredAt time.Time) Command {
	return Command{
		BookID:     bookID,
		Details:    details,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
