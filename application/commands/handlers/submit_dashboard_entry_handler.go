package handlers

import (
	"context"
	"fmt"

	"cosmic-backend/application/commands"
	"cosmic-backend/application/ports"
	"cosmic-backend/domain/core/entities"
	pkgerrors "cosmic-backend/pkg/errors"

	"go.uber.org/zap"
)

// SubmitDashboardEntryHandler appends dashboard entries to the dashboard store
type SubmitDashboardEntryHandler struct {
	store  ports.DashboardStore
	logger *zap.Logger
}

// NewSubmitDashboardEntryHandler creates a new dashboard entry handler
func NewSubmitDashboardEntryHandler(store ports.DashboardStore, logger *zap.Logger) *SubmitDashboardEntryHandler {
	return &SubmitDashboardEntryHandler{
		store:  store,
		logger: logger,
	}
}

// Handle executes the submit dashboard entry command
func (h *SubmitDashboardEntryHandler) Handle(ctx context.Context, cmd commands.SubmitDashboardEntryCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("invalid command: %w", err)
	}

	entry, err := entities.NewDashboardEntry(cmd.Fields)
	if err != nil {
		return pkgerrors.NewStorageWriteError("dashboard", err)
	}

	if err := h.store.Append(ctx, entry); err != nil {
		return fmt.Errorf("failed to save dashboard entry: %w", err)
	}

	h.logger.Info("New dashboard entry",
		zap.String("eventName", entry.EventName),
		zap.String("organizer", entry.Organizer),
		zap.String("date", entry.Date),
	)
	return nil
}
