package jsonfile

import (
	"context"

	"cosmic-backend/application/ports"
	"cosmic-backend/domain/core/entities"
	"cosmic-backend/domain/core/specifications"
	"cosmic-backend/domain/core/valueobjects"
	pkgerrors "cosmic-backend/pkg/errors"
	"cosmic-backend/pkg/utils"

	"go.uber.org/zap"
)

// EventRepository keeps the event collection in a JSON array file. It is the
// development stand-in for the DynamoDB repository and shares its semantics.
type EventRepository struct {
	store  *Store[*entities.EventRecord]
	logger *zap.Logger
}

// NewEventRepository creates a file-backed event repository
func NewEventRepository(path string, logger *zap.Logger) *EventRepository {
	return &EventRepository{
		store:  NewStore[*entities.EventRecord](path, "events", logger),
		logger: logger,
	}
}

var _ ports.EventRepository = (*EventRepository)(nil)

// Insert stores record under a new ID
func (r *EventRepository) Insert(ctx context.Context, record *entities.EventRecord) (*entities.EventRecord, error) {
	if err := utils.ValidateStruct(record); err != nil {
		return nil, pkgerrors.NewStorageWriteError("events", err)
	}

	stored := *record
	stored.ID = valueobjects.NewEventID().String()
	stored.Normalize()

	if err := r.store.Append(ctx, &stored); err != nil {
		return nil, err
	}

	r.logger.Info("Saved event",
		zap.String("eventID", stored.ID),
		zap.String("path", r.store.Path()),
	)
	return &stored, nil
}

// Find returns the records matching every condition, in insertion order
func (r *EventRepository) Find(ctx context.Context, filter specifications.EventFilter) ([]*entities.EventRecord, error) {
	if filter.HasUnknownField() {
		return []*entities.EventRecord{}, nil
	}

	records, err := r.store.Records(ctx)
	if err != nil {
		return nil, err
	}

	spec := filter.Specification()
	matches := make([]*entities.EventRecord, 0, len(records))
	for _, record := range records {
		if record == nil {
			continue
		}
		record.Normalize()
		if spec.IsSatisfiedBy(record) {
			matches = append(matches, record)
		}
	}
	return matches, nil
}

// Ping creates the backing file if needed
func (r *EventRepository) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.Ensure()
}
