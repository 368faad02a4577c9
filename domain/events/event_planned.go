package events

import (
	"time"

	"cosmic-backend/domain/core/entities"
)

// SourceBackend identifies this service as the event source
const SourceBackend = "cosmic.backend"

// DomainEvent is the base interface for all domain events
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// EventPlanned is raised after an event-planning request has been stored
type EventPlanned struct {
	BaseEvent
	EventPurpose string `json:"event_purpose"`
	Date         string `json:"date"`
	Guests       string `json:"guests"`
	Budget       string `json:"budget"`
}

// NewEventPlanned creates an EventPlanned event for a stored record
func NewEventPlanned(record *entities.EventRecord, timestamp time.Time) EventPlanned {
	return EventPlanned{
		BaseEvent: BaseEvent{
			AggregateID: record.ID,
			EventType:   "event.planned",
			Timestamp:   timestamp,
			Version:     1,
		},
		EventPurpose: record.EventPurpose,
		Date:         record.Date,
		Guests:       record.Guests,
		Budget:       record.Budget,
	}
}
