package finduser

import (
	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/library/core"
)

// Project returns the user, core.ErrNotFound if there is no such registered user.
func Project(history core.DomainEvents, query Query) (core.User, error) {
	registry := core.ProjectUserRegistry(history)

	if query.UserID != "" {
		return registry.User(query.UserID)
	}

	return registry.UserByUsername(query.Username)
}

// BuildEventFilter creates the filter for querying the identity events of the user.
func BuildEventFilter(query Query) eventstore.Filter {
	predicate := eventstore.P("UserID", query.UserID)
	if query.UserID == "" {
		predicate = eventstore.P("Username", core.NormalizeUsername(query.Username))
	}

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.UserRegisteredEventType,
			core.UserRemovedEventType,
		).
		AndAnyPredicateOf(predicate).
		Finalize()
}
