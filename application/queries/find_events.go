package queries

import "cosmic-backend/domain/core/specifications"

// FindEventsQuery selects events whose fields contain the given values,
// ignoring case. An empty filter selects every event.
type FindEventsQuery struct {
	Filter specifications.EventFilter
}

// Validate accepts any filter; empty values are ignored downstream
func (q FindEventsQuery) Validate() error {
	return nil
}
