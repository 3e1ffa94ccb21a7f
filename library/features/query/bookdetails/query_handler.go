package bookdetails

import (
	"context"

	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/library/core"
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
func (h QueryHandler) Handle(ctx context.Context, query Query) (core.Book, error) {
	filter := BuildEventFilter(query)

	// Details are read right before changes, so they must not lag behind.
	ctx = eventstore.WithStrongConsistency(ctx)

	storableEvents, _, err := h.eventStore.Query(ctx, filter)
	if err != nil {
		return core.Book{}, err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return core.Book{}, err
	}

	return Project(history, query)
}
