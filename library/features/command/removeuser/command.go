package removeuser

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/library/core"
)

const (
	commandType = "RemoveUser"
)

// Command represents the intent to remove an identity.
type Command struct {
	UserID     core.UserIDString
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(userID core.UserIDString, occurredAt time.Time) Command {
	return Command{
		UserID:     userID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
