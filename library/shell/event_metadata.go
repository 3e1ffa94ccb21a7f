package shell

import (
	"context"
	"errors"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-lending-go/eventstore"
)

// ErrMappingToEventMetadataFailed is returned when metadata conversion fails.
var ErrMappingToEventMetadataFailed = errors.New("mapping to event metadata failed")

// MessageID represents a unique message identifier.
type MessageID = string

// CausationID represents the ID of the message that caused this event.
type CausationID = string

// CorrelationID represents the ID correlating related events, e.g. all events of one HTTP request.
type CorrelationID = string

// EventMetadata contains event tracking information.
type EventMetadata struct {
	MessageID     MessageID
	CausationID   CausationID
	CorrelationID CorrelationID
}

type correlationIDKey struct{}

// WithCorrelationID stores the correlation id in the context, the metadata of all events appended
// with this context carry it.
func WithCorrelationID(ctx context.Context, correlationID CorrelationID) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, correlationID)
}

// CorrelationIDFrom returns the correlation id from the context, if any.
func CorrelationIDFrom(ctx context.Context) (CorrelationID, bool) {
	correlationID, ok := ctx.Value(correlationIDKey{}).(CorrelationID)

	return correlationID, ok && correlationID != ""
}

// BuildEventMetadata creates EventMetadata from UUID values.
func BuildEventMetadata(messageID uuid.UUID, causationID uuid.UUID, correlationID uuid.UUID) EventMetadata {
	return EventMetadata{
		MessageID:     messageID.String(),
		CausationID:   causationID.String(),
		CorrelationID: correlationID.String(),
	}
}

// NewEventMetadata creates the metadata for an event appended in the scope of ctx.
// Without a correlation id in the context the message starts its own correlation.
func NewEventMetadata(ctx context.Context) EventMetadata {
	messageID := newMessageID()

	correlationID, ok := CorrelationIDFrom(ctx)
	if !ok {
		return BuildEventMetadata(messageID, messageID, messageID)
	}

	return EventMetadata{
		MessageID:     messageID.String(),
		CausationID:   correlationID,
		CorrelationID: correlationID,
	}
}

// EventMetadataFrom extracts EventMetadata from a StorableEvent.
func EventMetadataFrom(storableEvent eventstore.StorableEvent) (EventMetadata, error) {
	metadata := new(EventMetadata)

	err := jsoniter.ConfigFastest.Unmarshal(storableEvent.MetadataJSON, metadata)
	if err != nil {
		return EventMetadata{}, errors.Join(ErrMappingToEventMetadataFailed, err)
	}

	return *metadata, nil
}

func newMessageID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}

	return id
}
