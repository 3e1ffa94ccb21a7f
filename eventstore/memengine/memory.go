// Package memengine implements the event store contract in process memory.
//
// It offers the same conditional append semantics as the Postgres engine: a mutex serializes Append, and
// an append fails with eventstore.ErrConcurrencyConflict when the highest sequence number of the
// filtered stream differs from the expected one. It backs the unit and concurrency tests and the
// "memory" database adapter of the lending daemon.
package memengine

import (
	"context"
	"errors"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-lending-go/eventstore"
)

const (
	logMsgQueryCompleted      = "eventstore operation: query completed"
	logMsgEventsAppended      = "eventstore operation: events appended"
	logMsgConcurrencyConflict = "eventstore operation: concurrency conflict detected"
	logAttrEventCount         = "event_count"
	logAttrExpectedSequence   = "expected_sequence"
	logAttrActualSequence     = "actual_sequence"
)

type storedEvent struct {
	sequenceNumber eventstore.MaxSequenceNumberUint
	event          eventstore.StorableEvent
	payload        map[string]any
}

// EventStore keeps all events in a slice, the sequence number of an event is its position + 1.
type EventStore struct {
	mu     sync.RWMutex
	events []storedEvent
	logger eventstore.Logger
}

// Option configures an EventStore.
type Option func(*EventStore)

// WithLogger sets a logger for operational messages.
func WithLogger(logger eventstore.Logger) Option {
	return func(es *EventStore) {
		es.logger = logger
	}
}

// NewEventStore creates an empty EventStore.
func NewEventStore(options ...Option) *EventStore {
	es := &EventStore{}

	for _, option := range options {
		option(es)
	}

	return es
}

// Query returns all events matching the filter in sequence order and the highest matching sequence number.
func (es *EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	if err := ctx.Err(); err != nil {
		return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, err)
	}

	es.mu.RLock()
	defer es.mu.RUnlock()

	result := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for _, stored := range es.events {
		if !matches(filter, stored) {
			continue
		}

		result = append(result, stored.event)
		maxSequenceNumber = stored.sequenceNumber
	}

	if es.logger != nil {
		es.logger.Debug(logMsgQueryCompleted, logAttrEventCount, len(result))
	}

	return result, maxSequenceNumber, nil
}

// Append stores the events if the filtered stream still ends at expectedMaxSequenceNumber.
// All events are stored or none.
func (es *EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	events ...eventstore.StorableEvent,
) error {

	if len(events) == 0 {
		return eventstore.ErrNoEventsToAppend
	}

	if err := ctx.Err(); err != nil {
		return errors.Join(eventstore.ErrAppendingEventFailed, err)
	}

	toStore := make([]storedEvent, 0, len(events))
	for _, event := range events {
		payload := make(map[string]any)
		if err := jsoniter.ConfigFastest.Unmarshal(event.PayloadJSON, &payload); err != nil {
			return errors.Join(eventstore.ErrAppendingEventFailed, eventstore.ErrInvalidPayloadJSON, err)
		}

		toStore = append(toStore, storedEvent{event: event, payload: payload})
	}

	es.mu.Lock()
	defer es.mu.Unlock()

	actualMaxSequenceNumber := es.maxSequenceNumberFor(filter)
	if actualMaxSequenceNumber != expectedMaxSequenceNumber {
		if es.logger != nil {
			es.logger.Info(
				logMsgConcurrencyConflict,
				logAttrExpectedSequence, expectedMaxSequenceNumber,
				logAttrActualSequence, actualMaxSequenceNumber,
			)
		}

		return eventstore.ErrConcurrencyConflict
	}

	for _, stored := range toStore {
		stored.sequenceNumber = eventstore.MaxSequenceNumberUint(len(es.events) + 1)
		es.events = append(es.events, stored)
	}

	if es.logger != nil {
		es.logger.Info(logMsgEventsAppended, logAttrEventCount, len(toStore))
	}

	return nil
}

// maxSequenceNumberFor must be called with the lock held.
func (es *EventStore) maxSequenceNumberFor(filter eventstore.Filter) eventstore.MaxSequenceNumberUint {
	for i := len(es.events) - 1; i >= 0; i-- {
		if matches(filter, es.events[i]) {
			return es.events[i].sequenceNumber
		}
	}

	return 0
}

func matches(filter eventstore.Filter, stored storedEvent) bool {
	if filter.IsEmpty() {
		return true
	}

	for _, item := range filter.Items() {
		if matchesItem(item, stored) {
			return true
		}
	}

	return false
}

func matchesItem(item eventstore.FilterItem, stored storedEvent) bool {
	if len(item.EventTypes()) > 0 && !containsString(item.EventTypes(), stored.event.EventType) {
		return false
	}

	if len(item.Predicates()) == 0 {
		return true
	}

	for _, predicate := range item.Predicates() {
		matched := payloadContains(stored.payload, predicate)

		if item.AllPredicatesMustMatch() && !matched {
			return false
		}

		if !item.AllPredicatesMustMatch() && matched {
			return true
		}
	}

	return item.AllPredicatesMustMatch()
}

// payloadContains mirrors the Postgres containment check payload @> {"key": "val"} for string values.
func payloadContains(payload map[string]any, predicate eventstore.FilterPredicate) bool {
	value, ok := payload[predicate.Key()].(string)

	return ok && value == predicate.Val()
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}

	return false
}
