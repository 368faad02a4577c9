package ports

import (
	"context"

	"cosmic-backend/domain/core/entities"
	"cosmic-backend/domain/core/specifications"
	"cosmic-backend/domain/events"
)

// EventRepository defines the interface for the event collection
// This is a port in hexagonal architecture - the domain doesn't know about the implementation
type EventRepository interface {
	// Insert assigns an ID to the record and persists it
	Insert(ctx context.Context, record *entities.EventRecord) (*entities.EventRecord, error)

	// Find returns every record matching all filter conditions; no match is an empty slice
	Find(ctx context.Context, filter specifications.EventFilter) ([]*entities.EventRecord, error)

	// Ping checks that the store is reachable
	Ping(ctx context.Context) error
}

// RecordAppender appends records to an ordered, append-only collection
type RecordAppender[T any] interface {
	// Append adds record after every existing record
	Append(ctx context.Context, record T) error
}

// ContactStore holds contact-form submissions
type ContactStore = RecordAppender[entities.ContactRecord]

// DashboardStore holds dashboard entries
type DashboardStore = RecordAppender[*entities.DashboardEntry]

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}
