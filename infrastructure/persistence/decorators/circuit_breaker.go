package decorators

import (
	"context"
	"errors"
	"time"

	"cosmic-backend/application/ports"
	"cosmic-backend/domain/core/entities"
	"cosmic-backend/domain/core/specifications"
	pkgerrors "cosmic-backend/pkg/errors"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// CircuitBreakerConfig holds configuration for the repository circuit breaker
type CircuitBreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// CircuitBreakerEventRepository stops calling an unhealthy event store until
// the breaker's timeout has elapsed. Rejected calls fail as storage errors.
type CircuitBreakerEventRepository struct {
	inner  ports.EventRepository
	cb     *gobreaker.CircuitBreaker
	name   string
	logger *zap.Logger
}

// NewCircuitBreakerEventRepository wraps inner with a circuit breaker
func NewCircuitBreakerEventRepository(inner ports.EventRepository, config CircuitBreakerConfig, logger *zap.Logger) *CircuitBreakerEventRepository {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < config.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= config.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			// a cancelled request says nothing about store health
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &CircuitBreakerEventRepository{
		inner:  inner,
		cb:     cb,
		name:   config.Name,
		logger: logger,
	}
}

var _ ports.EventRepository = (*CircuitBreakerEventRepository)(nil)

// Insert implements ports.EventRepository
func (r *CircuitBreakerEventRepository) Insert(ctx context.Context, record *entities.EventRecord) (*entities.EventRecord, error) {
	result, err := r.cb.Execute(func() (interface{}, error) {
		return r.inner.Insert(ctx, record)
	})
	if err != nil {
		return nil, r.translate(err)
	}
	return result.(*entities.EventRecord), nil
}

// Find implements ports.EventRepository
func (r *CircuitBreakerEventRepository) Find(ctx context.Context, filter specifications.EventFilter) ([]*entities.EventRecord, error) {
	result, err := r.cb.Execute(func() (interface{}, error) {
		return r.inner.Find(ctx, filter)
	})
	if err != nil {
		return nil, r.translate(err)
	}
	return result.([]*entities.EventRecord), nil
}

// Ping bypasses the breaker so readiness reflects the store itself
func (r *CircuitBreakerEventRepository) Ping(ctx context.Context) error {
	return r.inner.Ping(ctx)
}

// State exposes the breaker state for readiness reporting
func (r *CircuitBreakerEventRepository) State() gobreaker.State {
	return r.cb.State()
}

func (r *CircuitBreakerEventRepository) translate(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		r.logger.Warn("Circuit breaker rejected event store call",
			zap.String("breaker", r.name),
			zap.Error(err),
		)
		return pkgerrors.NewUnavailableError(r.name, err)
	}
	return err
}
