package registeruser

import (
	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/library/core"
)

// Decide implements the business logic to determine whether an identity can be registered.
//
// Business Rules:
//
//	GIVEN: A registration with username, name, optional email, optional card id and role
//	WHEN: RegisterUser command is received
//	THEN: UserRegistered event with the lowercased username is generated
//	ERROR: Validation if a field is malformed or the password hash is missing
//	ERROR: Conflict if the username is taken
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	registry := core.ProjectUserRegistry(history)

	event, err := registry.RegisterUser(command.UserID, command.Registration, command.PasswordHash, command.OccurredAt)
	if err != nil {
		return core.ErrorDecision(err)
	}

	return core.SuccessDecision(event)
}

// BuildEventFilter creates the filter for querying the identity events of the username.
func BuildEventFilter(username string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.UserRegisteredEventType,
			core.UserRemovedEventType,
		).
		AndAnyPredicateOf(eventstore.P("Username", core.NormalizeUsername(username))).
		Finalize()
}
