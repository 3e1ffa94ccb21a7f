package core

import (
	"time"
)

// UserRegisteredEventType is the event type identifier.
const UserRegisteredEventType = "UserRegistered"

// UserRegistered represents when an identity is registered, either by self sign-up or the admin bootstrap.
type UserRegistered struct {
	EventType    EventTypeString
	UserID       UserIDString
	Username     string
	Name         string
	Email        string
	CardID       string
	Role         Role
	PasswordHash string
	OccurredAt   OccurredAtTS
}

// BuildUserRegistered creates a new UserRegistered event.
func BuildUserRegistered(userID UserIDString, registration Registration, passwordHash string, occurredAt time.Time) UserRegistered {
	return UserRegistered{
		EventType:    UserRegisteredEventType,
		UserID:       userID,
		Username:     registration.Username,
		Name:         registration.Name,
		Email:        registration.Email,
		CardID:       registration.CardID,
		Role:         registration.Role,
		PasswordHash: passwordHash,
		OccurredAt:   ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e UserRegistered) IsEventType() string {
	return UserRegisteredEventType
}

// HasOccurredAt returns when this event occurred.
func (e UserRegistered) HasOccurredAt() time.Time {
	return e.OccurredAt
}
