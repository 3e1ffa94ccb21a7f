package listusers

import (
	"context"

	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/library/shell"
)

// QueryHandler runs the Query -> Unmarshal -> Project workflow.
type QueryHandler struct {
	eventStore shell.QueriesEvents
}

// NewQueryHandler creates a new QueryHandler with the provided EventStore dependency.
func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{
		eventStore: eventStore,
	}
}

// Handle queries the current event history and delegates to Project.
func (h QueryHandler) Handle(ctx context.Context, query Query) (Users, error) {
	filter := BuildEventFilter(query)

	// Lists tolerate slightly stale data, they are served by the replica if there is one.
	ctx = eventstore.WithEventualConsistency(ctx)

	storableEvents, _, err := h.eventStore.Query(ctx, filter)
	if err != nil {
		return Users{}, err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return Users{}, err
	}

	return Project(history, query)
}
