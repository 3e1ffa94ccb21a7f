package registeruser

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/library/core"
)

const (
	commandType = "RegisterUser"
)

// Command represents the intent to register an identity. The password arrives already hashed.
type Command struct {
	UserID       core.UserIDString
	Registration core.Registration
	PasswordHash string
	OccurredAt   core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	userID core.UserIDString,
	registration core.Registration,
	passwordHash string,
	occurredAt time.Time,
) Command {

	return Command{
		UserID:       userID,
		Registration: registration,
		PasswordHash: passwordHash,
		OccurredAt:   core.ToOccurredAt(occurredAt),
	}
}
