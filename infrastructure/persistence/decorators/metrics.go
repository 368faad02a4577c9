package decorators

import (
	"context"
	"time"

	"cosmic-backend/application/ports"
	"cosmic-backend/domain/core/entities"
	"cosmic-backend/domain/core/specifications"
)

// StoreMetrics records the outcome of a single store call
type StoreMetrics interface {
	RecordStoreOperation(operation, store string, err error, duration time.Duration)
}

// MetricsEventRepository times every call made to the wrapped repository
type MetricsEventRepository struct {
	inner   ports.EventRepository
	metrics StoreMetrics
	store   string
}

// NewMetricsEventRepository wraps inner so each call is reported to metrics
func NewMetricsEventRepository(inner ports.EventRepository, metrics StoreMetrics, store string) *MetricsEventRepository {
	return &MetricsEventRepository{
		inner:   inner,
		metrics: metrics,
		store:   store,
	}
}

var _ ports.EventRepository = (*MetricsEventRepository)(nil)

// Insert implements ports.EventRepository
func (r *MetricsEventRepository) Insert(ctx context.Context, record *entities.EventRecord) (*entities.EventRecord, error) {
	start := time.Now()
	stored, err := r.inner.Insert(ctx, record)
	r.metrics.RecordStoreOperation("insert", r.store, err, time.Since(start))
	return stored, err
}

// Find implements ports.EventRepository
func (r *MetricsEventRepository) Find(ctx context.Context, filter specifications.EventFilter) ([]*entities.EventRecord, error) {
	start := time.Now()
	records, err := r.inner.Find(ctx, filter)
	r.metrics.RecordStoreOperation("find", r.store, err, time.Since(start))
	return records, err
}

// Ping implements ports.EventRepository
func (r *MetricsEventRepository) Ping(ctx context.Context) error {
	start := time.Now()
	err := r.inner.Ping(ctx)
	r.metrics.RecordStoreOperation("ping", r.store, err, time.Since(start))
	return err
}
