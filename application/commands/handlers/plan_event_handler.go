package handlers

import (
	"context"
	"fmt"
	"time"

	"cosmic-backend/application/commands"
	"cosmic-backend/application/ports"
	"cosmic-backend/domain/core/entities"
	"cosmic-backend/domain/events"
	pkgerrors "cosmic-backend/pkg/errors"

	"go.uber.org/zap"
)

// PlanEventHandler inserts event-planning requests into the event collection
type PlanEventHandler struct {
	eventRepo ports.EventRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewPlanEventHandler creates a new plan event handler
func NewPlanEventHandler(
	eventRepo ports.EventRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *PlanEventHandler {
	return &PlanEventHandler{
		eventRepo: eventRepo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Handle executes the plan event command and returns the stored record
func (h *PlanEventHandler) Handle(ctx context.Context, cmd commands.PlanEventCommand) (*entities.EventRecord, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("invalid command: %w", err)
	}

	record, err := entities.NewEventRecord(cmd.Fields)
	if err != nil {
		return nil, pkgerrors.NewStorageWriteError("events", err)
	}

	stored, err := h.eventRepo.Insert(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("failed to save event: %w", err)
	}

	h.logger.Info("New event saved",
		zap.String("eventID", stored.ID),
		zap.String("eventPurpose", stored.EventPurpose),
		zap.String("date", stored.Date),
	)

	// The record is already stored; a lost notification must not fail the request
	if h.publisher != nil {
		if err := h.publisher.Publish(ctx, events.NewEventPlanned(stored, h.now().UTC())); err != nil {
			h.logger.Warn("Failed to publish event planned notification",
				zap.String("eventID", stored.ID),
				zap.Error(err),
			)
		}
	}

	return stored, nil
}
