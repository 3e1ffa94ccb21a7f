package listusers

import (
	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/library/core"
)

// Project returns the users that are registered and not removed.
func Project(history core.DomainEvents, _ Query) (Users, error) {
	users := core.ProjectUserRegistry(history).Users()

	return Users{
		Users: users,
		Count: len(users),
	}, nil
}

// BuildEventFilter creates the filter for querying all identity events.
func BuildEventFilter(_ Query) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.UserRegisteredEventType,
			core.UserRemovedEventType,
		).
		Finalize()
}
