package handlers

import (
	"context"
	"fmt"

	"cosmic-backend/application/commands"
	"cosmic-backend/application/ports"
	"cosmic-backend/domain/core/entities"

	"go.uber.org/zap"
)

// SubmitContactHandler appends contact submissions to the contact store
type SubmitContactHandler struct {
	store  ports.ContactStore
	logger *zap.Logger
}

// NewSubmitContactHandler creates a new submit contact handler
func NewSubmitContactHandler(store ports.ContactStore, logger *zap.Logger) *SubmitContactHandler {
	return &SubmitContactHandler{
		store:  store,
		logger: logger,
	}
}

// Handle executes the submit contact command
func (h *SubmitContactHandler) Handle(ctx context.Context, cmd commands.SubmitContactCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("invalid command: %w", err)
	}

	record := entities.NewContactRecord(cmd.Fields)
	if err := h.store.Append(ctx, record); err != nil {
		return fmt.Errorf("failed to save contact: %w", err)
	}

	h.logger.Info("Contact saved", zap.Int("fields", len(record)))
	return nil
}
