package bus

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"
)

// Command represents a command that changes state
type Command interface {
	Validate() error
}

// CommandHandler handles a specific command type
type CommandHandler interface {
	Handle(ctx context.Context, cmd Command) error
}

// CommandHandlerFunc is an adapter to allow functions to be used as handlers
type CommandHandlerFunc func(ctx context.Context, cmd Command) error

// Handle implements CommandHandler
func (f CommandHandlerFunc) Handle(ctx context.Context, cmd Command) error {
	return f(ctx, cmd)
}

// Middleware decorates a command handler
type Middleware func(next CommandHandler) CommandHandler

// Errors
var (
	ErrHandlerNotFound  = errors.New("command handler not found")
	ErrValidationFailed = errors.New("command validation failed")
	ErrCommandMismatch  = errors.New("command type mismatch")
)

// CommandBus dispatches commands to their handlers. Middleware given to
// NewCommandBus wraps every handler registered afterwards, first outermost.
type CommandBus struct {
	handlers    map[reflect.Type]CommandHandler
	middlewares []Middleware
	mu          sync.RWMutex
}

// NewCommandBus creates a new command bus
func NewCommandBus(middlewares ...Middleware) *CommandBus {
	return &CommandBus{
		handlers:    make(map[reflect.Type]CommandHandler),
		middlewares: middlewares,
	}
}

// Register registers a handler for a command type
func (b *CommandBus) Register(cmdType Command, handler CommandHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := reflect.TypeOf(cmdType)
	if _, exists := b.handlers[t]; exists {
		return fmt.Errorf("handler already registered for command type %s", t.Name())
	}

	for i := len(b.middlewares) - 1; i >= 0; i-- {
		handler = b.middlewares[i](handler)
	}
	b.handlers[t] = handler
	return nil
}

// RegisterFunc registers a typed handler function for commands of type C
func RegisterFunc[C Command](b *CommandBus, fn func(ctx context.Context, cmd C) error) error {
	var zero C
	return b.Register(zero, Typed(fn))
}

// Typed adapts a function over one concrete command type to CommandHandler
func Typed[C Command](fn func(ctx context.Context, cmd C) error) CommandHandler {
	return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
		typed, ok := cmd.(C)
		if !ok {
			var zero C
			return fmt.Errorf("%w: want %T, got %T", ErrCommandMismatch, zero, cmd)
		}
		return fn(ctx, typed)
	})
}

// Send validates a command and dispatches it to its handler. A command that
// fails validation never reaches its handler.
func (b *CommandBus) Send(ctx context.Context, cmd Command) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	b.mu.RLock()
	handler, exists := b.handlers[reflect.TypeOf(cmd)]
	b.mu.RUnlock()

	if !exists {
		return fmt.Errorf("%w: %T", ErrHandlerNotFound, cmd)
	}

	if err := handler.Handle(ctx, cmd); err != nil {
		return fmt.Errorf("%s failed: %w", commandName(cmd), err)
	}
	return nil
}

// LoggingMiddleware logs the outcome and duration of every command
func LoggingMiddleware(logger Logger) Middleware {
	return func(next CommandHandler) CommandHandler {
		return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
			name := commandName(cmd)
			start := time.Now()

			err := next.Handle(ctx, cmd)
			if err != nil {
				logger.Error("Command failed", "type", name, "error", err, "duration", time.Since(start))
				return err
			}
			logger.Info("Command succeeded", "type", name, "duration", time.Since(start))
			return nil
		})
	}
}

// MetricsMiddleware counts and times command execution
func MetricsMiddleware(metrics Metrics) Middleware {
	return func(next CommandHandler) CommandHandler {
		return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
			name := commandName(cmd)

			timer := metrics.StartTimer("command_duration", name)
			defer timer.Stop()

			metrics.Increment("command_count", name)
			if err := next.Handle(ctx, cmd); err != nil {
				metrics.Increment("command_errors", name)
				return err
			}
			metrics.Increment("command_success", name)
			return nil
		})
	}
}

// Logger is the key-value logger the bus middleware writes to
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Metrics receives command counters and timers
type Metrics interface {
	StartTimer(metric, label string) Timer
	Increment(metric, label string)
}

// Timer interface
type Timer interface {
	Stop()
}

func commandName(cmd Command) string {
	t := reflect.TypeOf(cmd)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
