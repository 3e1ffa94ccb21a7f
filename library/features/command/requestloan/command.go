package requestloan

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/library/core"
)

const (
	commandType = "RequestLoan"
)

// Command represents the intent of a user to borrow one copy of a book.
type Command struct {
	LoanID     core.LoanIDString
	UserID     core.UserIDString
	BookID     core.BookIDString
	PeriodDays int // 0 means the default loan period
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	loanID core.LoanIDString,
	userID core.UserIDString,
	bookID core.BookIDString,
	periodDays int,
	occurredAt time.Time,
) Command {

	return Command{
		LoanID:     loanID,
		UserID:     userID,
		BookID:     bookID,
		PeriodDays: periodDays,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
