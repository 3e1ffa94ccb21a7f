package updatebook

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/library/core"
)

const (
	commandType = "UpdateBook"
)

// Command represents the intent to change some details of a book, nil fields of the Patch stay unchanged.
type Command struct {
	BookID     core.BookIDString
	Patch      core.BookPatch
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(bookID core.BookIDString, patch core.BookPatch, occurredAt time.Time) Command {
	return Command{
		BookID:     bookID,
		Patch:      patch,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
