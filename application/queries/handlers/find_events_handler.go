package handlers

import (
	"context"
	"fmt"

	"cosmic-backend/application/ports"
	"cosmic-backend/application/queries"
	"cosmic-backend/domain/core/entities"

	"go.uber.org/zap"
)

// FindEventsHandler handles FindEventsQuery
type FindEventsHandler struct {
	eventRepo ports.EventRepository
	logger    *zap.Logger
}

// NewFindEventsHandler creates a new find events handler
func NewFindEventsHandler(eventRepo ports.EventRepository, logger *zap.Logger) *FindEventsHandler {
	return &FindEventsHandler{
		eventRepo: eventRepo,
		logger:    logger,
	}
}

// Handle runs the query. No match yields an empty, non-nil slice.
func (h *FindEventsHandler) Handle(ctx context.Context, query queries.FindEventsQuery) ([]*entities.EventRecord, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	records, err := h.eventRepo.Find(ctx, query.Filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find events: %w", err)
	}
	if records == nil {
		records = []*entities.EventRecord{}
	}

	h.logger.Debug("Found events",
		zap.Int("conditions", len(query.Filter.Conditions())),
		zap.Int("count", len(records)),
	)
	return records, nil
}
