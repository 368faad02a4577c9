package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countQuery struct {
	invalid bool
}

func (q countQuery) Validate() error {
	if q.invalid {
		return errors.New("bad query")
	}
	return nil
}

type otherQuery struct{}

func (otherQuery) Validate() error { return nil }

type countingMetrics struct {
	counts map[string]int
}

func (m *countingMetrics) StartTimer(metric, label string) Timer { return nopTimer{} }
func (m *countingMetrics) Increment(metric, label string)        { m.counts[metric+":"+label]++ }

type nopTimer struct{}

func (nopTimer) Stop() {}

type countingLogger struct {
	infos, errors int
}

func (l *countingLogger) Info(string, ...interface{})  { l.infos++ }
func (l *countingLogger) Error(string, ...interface{}) { l.errors++ }

func TestQueryBus_Ask(t *testing.T) {
	ctx := context.Background()
	metrics := &countingMetrics{counts: map[string]int{}}
	logger := &countingLogger{}
	queryBus := NewQueryBus(LoggingMiddleware(logger), MetricsMiddleware(metrics))

	handler := func(ctx context.Context, q countQuery) ([]string, error) {
		return []string{"a", "b"}, nil
	}
	require.NoError(t, RegisterFunc(queryBus, handler))
	assert.Error(t, RegisterFunc(queryBus, handler))

	result, err := AskFor[[]string](ctx, queryBus, countQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, result)
	assert.Equal(t, 1, metrics.counts["query_count:countQuery"])
	assert.Equal(t, 1, metrics.counts["query_success:countQuery"])
	assert.Equal(t, 1, logger.infos)

	_, err = queryBus.Ask(ctx, countQuery{invalid: true})
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Equal(t, 1, metrics.counts["query_count:countQuery"])
}

func TestQueryBus_Errors(t *testing.T) {
	ctx := context.Background()
	metrics := &countingMetrics{counts: map[string]int{}}
	logger := &countingLogger{}
	queryBus := NewQueryBus(LoggingMiddleware(logger), MetricsMiddleware(metrics))

	_, err := queryBus.Ask(ctx, countQuery{})
	assert.ErrorIs(t, err, ErrHandlerNotFound)

	storeErr := errors.New("scan failed")
	require.NoError(t, RegisterFunc(queryBus, func(context.Context, countQuery) ([]string, error) {
		return nil, storeErr
	}))

	_, err = queryBus.Ask(ctx, countQuery{})
	assert.ErrorIs(t, err, storeErr)
	assert.Contains(t, err.Error(), "countQuery failed")
	assert.Equal(t, 1, metrics.counts["query_errors:countQuery"])
	assert.Equal(t, 1, logger.errors)
}

func TestAskFor_UnexpectedResult(t *testing.T) {
	queryBus := NewQueryBus()
	require.NoError(t, RegisterFunc(queryBus, func(context.Context, otherQuery) (int, error) {
		return 7, nil
	}))

	_, err := AskFor[string](context.Background(), queryBus, otherQuery{})
	assert.ErrorIs(t, err, ErrUnexpectedResult)
}
