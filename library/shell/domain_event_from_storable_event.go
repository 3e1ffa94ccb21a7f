package shell

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/library/core"
)

var (
	// ErrMappingToDomainEventFailed is returned when domain event conversion fails.
	ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")

	// ErrMappingToDomainEventUnknownEventType is returned for unrecognized event types.
	ErrMappingToDomainEventUnknownEventType = errors.New("unknown event type")
)

// DomainEventsFrom converts multiple StorableEvents to DomainEvents.
func DomainEventsFrom(storableEvents eventstore.StorableEvents) (core.DomainEvents, error) {
	domainEvents := make(core.DomainEvents, 0, len(storableEvents))

	for _, storableEvent := range storableEvents {
		domainEvent, err := DomainEventFrom(storableEvent)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

// DomainEventFrom converts a StorableEvent to its corresponding DomainEvent.
func DomainEventFrom(storableEvent eventstore.StorableEvent) (core.DomainEvent, error) {
	switch storableEvent.EventType {
	case core.BookAddedToCatalogEventType:
		return unmarshal[core.BookAddedToCatalog](storableEvent.PayloadJSON)

	case core.BookDetailsUpdatedEventType:
		return unmarshal[core.BookDetailsUpdated](storableEvent.PayloadJSON)

	case core.BookRemovedFromCatalogEventType:
		return unmarshal[core.BookRemovedFromCatalog](storableEvent.PayloadJSON)

	case core.BookCopyLentToUserEventType:
		return unmarshal[core.BookCopyLentToUser](storableEvent.PayloadJSON)

	case core.BookCopyReturnedByUserEventType:
		return unmarshal[core.BookCopyReturnedByUser](storableEvent.PayloadJSON)

	case core.LoanMarkedOverdueEventType:
		return unmarshal[core.LoanMarkedOverdue](storableEvent.PayloadJSON)

	case core.UserRegisteredEventType:
		return unmarshal[core.UserRegistered](storableEvent.PayloadJSON)

	case core.UserRemovedEventType:
		return unmarshal[core.UserRemoved](storableEvent.PayloadJSON)
	}

	return nil, errors.Join(ErrMappingToDomainEventFailed, ErrMappingToDomainEventUnknownEventType)
}

func unmarshal[E core.DomainEvent](payloadJSON []byte) (core.DomainEvent, error) {
	var event E

	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &event); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return event, nil
}
