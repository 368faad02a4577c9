package valueobjects

import (
	"errors"

	"github.com/google/uuid"
)

// EventID is the store-generated identifier of a planned event
type EventID struct {
	value string
}

// NewEventID creates a new random EventID
func NewEventID() EventID {
	return EventID{value: uuid.New().String()}
}

// NewEventIDFromString creates an EventID from an existing string
func NewEventIDFromString(id string) (EventID, error) {
	if id == "" {
		return EventID{}, errors.New("event ID cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return EventID{}, errors.New("event ID must be a valid UUID")
	}
	return EventID{value: id}, nil
}

// String returns the string representation of the EventID
func (id EventID) String() string {
	return id.value
}

// IsZero checks if the EventID is the zero value
func (id EventID) IsZero() bool {
	return id.value == ""
}
