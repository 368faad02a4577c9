package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCommand struct {
	invalid bool
}

func (c testCommand) Validate() error {
	if c.invalid {
		return errors.New("missing field")
	}
	return nil
}

type otherCommand struct{}

func (otherCommand) Validate() error { return nil }

type recordingMetrics struct {
	counts map[string]int
	timers int
}

func (m *recordingMetrics) StartTimer(metric, label string) Timer {
	m.timers++
	return stopFunc(func() {})
}

func (m *recordingMetrics) Increment(metric, label string) {
	m.counts[metric+":"+label]++
}

type stopFunc func()

func (f stopFunc) Stop() { f() }

type recordingLogger struct {
	infos, errors int
}

func (l *recordingLogger) Info(msg string, keysAndValues ...interface{})  { l.infos++ }
func (l *recordingLogger) Error(msg string, keysAndValues ...interface{}) { l.errors++ }

func TestCommandBus_Send(t *testing.T) {
	ctx := context.Background()
	commandBus := NewCommandBus()

	var handled int
	require.NoError(t, RegisterFunc(commandBus, func(ctx context.Context, cmd testCommand) error {
		handled++
		return nil
	}))

	require.NoError(t, commandBus.Send(ctx, testCommand{}))
	assert.Equal(t, 1, handled)

	err := commandBus.Send(ctx, testCommand{invalid: true})
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Equal(t, 1, handled)

	err = commandBus.Send(ctx, otherCommand{})
	assert.ErrorIs(t, err, ErrHandlerNotFound)
}

func TestCommandBus_RegisterTwice(t *testing.T) {
	commandBus := NewCommandBus()
	noop := func(context.Context, testCommand) error { return nil }

	require.NoError(t, RegisterFunc(commandBus, noop))
	assert.Error(t, RegisterFunc(commandBus, noop))
}

func TestCommandBus_HandlerErrorIsWrapped(t *testing.T) {
	commandBus := NewCommandBus()
	storeErr := errors.New("disk full")
	require.NoError(t, RegisterFunc(commandBus, func(context.Context, testCommand) error {
		return storeErr
	}))

	err := commandBus.Send(context.Background(), testCommand{})
	assert.ErrorIs(t, err, storeErr)
	assert.Contains(t, err.Error(), "testCommand failed")
}

func TestTyped_RejectsOtherCommands(t *testing.T) {
	handler := Typed(func(context.Context, testCommand) error { return nil })

	err := handler.Handle(context.Background(), otherCommand{})
	assert.ErrorIs(t, err, ErrCommandMismatch)
}

func TestCommandBus_Middleware(t *testing.T) {
	metrics := &recordingMetrics{counts: map[string]int{}}
	logger := &recordingLogger{}

	var order []string
	trace := func(name string) Middleware {
		return func(next CommandHandler) CommandHandler {
			return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
				order = append(order, name)
				return next.Handle(ctx, cmd)
			})
		}
	}

	commandBus := NewCommandBus(
		trace("outer"),
		LoggingMiddleware(logger),
		MetricsMiddleware(metrics),
		trace("inner"),
	)

	fail := true
	require.NoError(t, RegisterFunc(commandBus, func(context.Context, testCommand) error {
		order = append(order, "handler")
		if fail {
			return errors.New("failed")
		}
		return nil
	}))

	assert.Error(t, commandBus.Send(context.Background(), testCommand{}))
	fail = false
	assert.NoError(t, commandBus.Send(context.Background(), testCommand{}))

	// a command rejected by validation never reaches the middleware
	assert.Error(t, commandBus.Send(context.Background(), testCommand{invalid: true}))

	assert.Equal(t, []string{"outer", "inner", "handler", "outer", "inner", "handler"}, order)
	assert.Equal(t, 2, metrics.counts["command_count:testCommand"])
	assert.Equal(t, 1, metrics.counts["command_errors:testCommand"])
	assert.Equal(t, 1, metrics.counts["command_success:testCommand"])
	assert.Equal(t, 2, metrics.timers)
	assert.Equal(t, 1, logger.errors)
	assert.Equal(t, 1, logger.infos)
}
