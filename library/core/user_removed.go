package core

import (
	"time"
)

// UserRemovedEventType is the event type identifier.
const UserRemovedEventType = "UserRemoved"

// UserRemoved represents when an administrator removes an identity. Its username becomes available again.
type UserRemoved struct {
	EventType  EventTypeString
	UserID     UserIDString
	Username   string
	OccurredAt OccurredAtTS
}

// BuildUserRemoved creates a new UserRemoved event.
func BuildUserRemoved(userID UserIDString, username string, occurredAt time.Time) UserRemoved {
	return UserRemoved{
		EventType:  UserRemovedEventType,
		UserID:     userID,
		Username:   username,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e UserRemoved) IsEventType() string {
	return UserRemovedEventType
}

// HasOccurredAt returns when this event occurred.
func (e UserRemoved) HasOccurredAt() time.Time {
	return e.OccurredAt
}
