package core

import (
	"fmt"
	"net/mail"
	"regexp"
	"slices"
	"strings"
	"time"
)

// Role decides what an identity may do.
type Role string

// The roles of the library.
const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// IsValid reports whether the role is one of the known roles.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleStudent || r == RoleTeacher
}

// CanBorrow reports whether users with this role may request loans.
func (r Role) CanBorrow() bool {
	return r == RoleStudent || r == RoleTeacher
}

var validUsername = regexp.MustCompile(`^[a-z0-9._-]{3,64}$`)

// Registration carries the profile of an identity to register.
type Registration struct {
	Username string
	Name     string
	Email    string
	CardID   string
	Role     Role
}

// NormalizeUsername makes usernames case-insensitive.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func (r Registration) normalized() Registration {
	r.Username = NormalizeUsername(r.Username)
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.CardID = strings.TrimSpace(r.CardID)

	return r
}

func (r Registration) validate() []string {
	var problems []string

	if !validUsername.MatchString(r.Username) {
		problems = append(problems, "username must have 3 to 64 characters out of letters, digits, '.', '_' and '-'")
	}
	if r.Name == "" {
		problems = append(problems, "name is required")
	}
	if r.Email != "" {
		if _, err := mail.ParseAddress(r.Email); err != nil {
			problems = append(problems, "email is invalid")
		}
	}
	if !r.Role.IsValid() {
		problems = append(problems, fmt.Sprintf("role %q is unknown", r.Role))
	}

	return problems
}

// User is a registered identity.
type User struct {
	UserID       UserIDString
	Username     string
	Name         string
	Email        string
	CardID       string
	Role         Role
	PasswordHash string
	RegisteredAt time.Time
}

// UserRegistry holds the registered identities, usernames are unique.
type UserRegistry struct {
	users     map[UserIDString]*User
	usernames map[string]UserIDString
}

// NewUserRegistry returns an empty registry.
func NewUserRegistry() *UserRegistry {
	return &UserRegistry{
		users:     make(map[UserIDString]*User),
		usernames: make(map[string]UserIDString),
	}
}

// ProjectUserRegistry replays the history into a UserRegistry, events of other types are ignored.
func ProjectUserRegistry(history DomainEvents) *UserRegistry {
	registry := NewUserRegistry()

	for _, event := range history {
		registry.Apply(event)
	}

	return registry
}

// Apply folds one event into the registry.
func (r *UserRegistry) Apply(event DomainEvent) {
	switch e := event.(type) {
	case UserRegistered:
		r.users[e.UserID] = &User{
			UserID:       e.UserID,
			Username:     e.Username,
			Name:         e.Name,
			Email:        e.Email,
			CardID:       e.CardID,
			Role:         e.Role,
			PasswordHash: e.PasswordHash,
			RegisteredAt: e.OccurredAt,
		}
		r.usernames[e.Username] = e.UserID

	case UserRemoved:
		if user, ok := r.users[e.UserID]; ok {
			delete(r.usernames, user.Username)
			delete(r.users, e.UserID)
		}
	}
}

// RegisterUser validates the registration and returns the event that registers the identity.
func (r *UserRegistry) RegisterUser(
	userID UserIDString,
	registration Registration,
	passwordHash string,
	at time.Time,
) (UserRegistered, error) {

	registration = registration.normalized()

	problems := registration.validate()
	if passwordHash == "" {
		problems = append(problems, "password is required")
	}

	if err := validationError(problems); err != nil {
		return UserRegistered{}, err
	}

	if _, exists := r.users[userID]; exists {
		return UserRegistered{}, fmt.Errorf("%w: user %s already exists", ErrConflict, userID)
	}

	if _, taken := r.usernames[registration.Username]; taken {
		return UserRegistered{}, fmt.Errorf("%w: username %s is taken", ErrConflict, registration.Username)
	}

	event := BuildUserRegistered(userID, registration, passwordHash, at)
	r.Apply(event)

	return event, nil
}

// RemoveUser returns the event that removes the identity.
func (r *UserRegistry) RemoveUser(userID UserIDString, at time.Time) (UserRemoved, error) {
	user, ok := r.users[userID]
	if !ok {
		return UserRemoved{}, notFound("user", userID)
	}

	event := BuildUserRemoved(userID, user.Username, at)
	r.Apply(event)

	return event, nil
}

// User returns a copy of the user.
func (r *UserRegistry) User(userID UserIDString) (User, error) {
	user, ok := r.users[userID]
	if !ok {
		return User{}, notFound("user", userID)
	}

	return *user, nil
}

// UserByUsername looks a user up by the case-insensitive username.
func (r *UserRegistry) UserByUsername(username string) (User, error) {
	userID, ok := r.usernames[NormalizeUsername(username)]
	if !ok {
		return User{}, notFound("user", username)
	}

	return *r.users[userID], nil
}

// Users returns all registered users ordered by registration time.
func (r *UserRegistry) Users() []User {
	users := make([]User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, *user)
	}

	slices.SortFunc(users, func(a, b User) int {
		if byTime := a.RegisteredAt.Compare(b.RegisteredAt); byTime != 0 {
			return byTime
		}

		return strings.Compare(a.UserID, b.UserID)
	})

	return users
}
