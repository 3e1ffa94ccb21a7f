package removeuser

import (
	"fmt"

	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/library/core"
)

// Decide implements the business logic to determine whether an identity can be removed.
//
// Business Rules:
//
//	GIVEN: A registered user with UserID
//	WHEN: RemoveUser command is received
//	THEN: UserRemoved event is generated, the username becomes free again
//	ERROR: NotFound if the user is unknown
//	ERROR: Conflict if the user still holds copies of books
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	registry := core.ProjectUserRegistry(history)

	if _, err := registry.User(command.UserID); err != nil {
		return core.ErrorDecision(err)
	}

	ledger, err := core.ProjectLoanLedger(history)
	if err != nil {
		return core.ErrorDecision(err)
	}

	if outstanding := ledger.OutstandingLoansOfUser(command.UserID); len(outstanding) > 0 {
		return core.ErrorDecision(fmt.Errorf("%w: user %s still holds %d books", core.ErrConflict, command.UserID, len(outstanding)))
	}

	event, err := registry.RemoveUser(command.UserID, command.OccurredAt)
	if err != nil {
		return core.ErrorDecision(err)
	}

	return core.SuccessDecision(event)
}

// BuildEventFilter creates the filter for querying the identity and loan events of the user.
func BuildEventFilter(userID core.UserIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.UserRegisteredEventType,
			core.UserRemovedEventType,
			core.BookCopyLentToUserEventType,
			core.BookCopyReturnedByUserEventType,
			core.LoanMarkedOverdueEventType,
		).
		AndAnyPredicateOf(eventstore.P("UserID", userID)).
		Finalize()
}
