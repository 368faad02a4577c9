package bus

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"
)

// Query represents a read-only query
type Query interface {
	Validate() error
}

// QueryHandler handles a specific query type
type QueryHandler interface {
	Handle(ctx context.Context, query Query) (interface{}, error)
}

// QueryHandlerFunc is an adapter to allow functions to be used as handlers
type QueryHandlerFunc func(ctx context.Context, query Query) (interface{}, error)

// Handle implements QueryHandler
func (f QueryHandlerFunc) Handle(ctx context.Context, query Query) (interface{}, error) {
	return f(ctx, query)
}

// Middleware decorates a query handler
type Middleware func(next QueryHandler) QueryHandler

var (
	ErrHandlerNotFound  = errors.New("query handler not found")
	ErrValidationFailed = errors.New("query validation failed")
	ErrQueryMismatch    = errors.New("query type mismatch")
	ErrUnexpectedResult = errors.New("unexpected query result type")
)

// QueryBus dispatches queries to their handlers, each wrapped in the bus
// middleware at registration time.
type QueryBus struct {
	handlers    map[reflect.Type]QueryHandler
	middlewares []Middleware
	mu          sync.RWMutex
}

// NewQueryBus creates a new query bus
func NewQueryBus(middlewares ...Middleware) *QueryBus {
	return &QueryBus{
		handlers:    make(map[reflect.Type]QueryHandler),
		middlewares: middlewares,
	}
}

// Register registers a handler for a query type
func (b *QueryBus) Register(queryType Query, handler QueryHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := reflect.TypeOf(queryType)
	if _, exists := b.handlers[t]; exists {
		return fmt.Errorf("handler already registered for query type %s", t.Name())
	}

	for i := len(b.middlewares) - 1; i >= 0; i-- {
		handler = b.middlewares[i](handler)
	}
	b.handlers[t] = handler
	return nil
}

// RegisterFunc registers a typed handler function for queries of type Q
func RegisterFunc[Q Query, R any](b *QueryBus, fn func(ctx context.Context, query Q) (R, error)) error {
	var zero Q
	return b.Register(zero, QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
		typed, ok := query.(Q)
		if !ok {
			return nil, fmt.Errorf("%w: want %T, got %T", ErrQueryMismatch, zero, query)
		}
		return fn(ctx, typed)
	}))
}

// Ask dispatches a query to its handler and returns the result
func (b *QueryBus) Ask(ctx context.Context, query Query) (interface{}, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	b.mu.RLock()
	handler, exists := b.handlers[reflect.TypeOf(query)]
	b.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %T", ErrHandlerNotFound, query)
	}

	result, err := handler.Handle(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", queryName(query), err)
	}
	return result, nil
}

// AskFor dispatches query and asserts the result type
func AskFor[R any](ctx context.Context, b *QueryBus, query Query) (R, error) {
	var zero R
	result, err := b.Ask(ctx, query)
	if err != nil {
		return zero, err
	}
	typed, ok := result.(R)
	if !ok {
		return zero, fmt.Errorf("%w: want %T, got %T", ErrUnexpectedResult, zero, result)
	}
	return typed, nil
}

// LoggingMiddleware logs failed queries and the duration of every query
func LoggingMiddleware(logger Logger) Middleware {
	return func(next QueryHandler) QueryHandler {
		return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
			name := queryName(query)
			start := time.Now()

			result, err := next.Handle(ctx, query)
			if err != nil {
				logger.Error("Query failed", "type", name, "error", err, "duration", time.Since(start))
				return nil, err
			}
			logger.Info("Query succeeded", "type", name, "duration", time.Since(start))
			return result, nil
		})
	}
}

// MetricsMiddleware counts and times query execution
func MetricsMiddleware(metrics Metrics) Middleware {
	return func(next QueryHandler) QueryHandler {
		return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
			name := queryName(query)

			timer := metrics.StartTimer("query_duration", name)
			defer timer.Stop()

			metrics.Increment("query_count", name)
			result, err := next.Handle(ctx, query)
			if err != nil {
				metrics.Increment("query_errors", name)
				return nil, err
			}
			metrics.Increment("query_success", name)
			return result, nil
		})
	}
}

// Logger is the key-value logger the bus middleware writes to
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Metrics receives query counters and timers
type Metrics interface {
	StartTimer(metric, label string) Timer
	Increment(metric, label string)
}

// Timer interface
type Timer interface {
	Stop()
}

func queryName(query Query) string {
	t := reflect.TypeOf(query)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
