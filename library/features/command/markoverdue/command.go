package markoverdue

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/library/core"
)

const (
	commandType = "MarkOverdue"
)

// Command represents the intent to flag a loan as overdue, OccurredAt is the time the due date is compared with.
type Command struct {
	LoanID     core.LoanIDString
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(loanID core.LoanIDString, occurredAt time.Time) Command {
	return Command{
		LoanID:     loanID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
