package handlers

import (
	"context"
	"errors"
	"testing"

	"cosmic-backend/application/queries"
	"cosmic-backend/domain/core/entities"
	"cosmic-backend/domain/core/specifications"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Insert(ctx context.Context, record *entities.EventRecord) (*entities.EventRecord, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.EventRecord), args.Error(1)
}

func (m *MockEventRepository) Find(ctx context.Context, filter specifications.EventFilter) ([]*entities.EventRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.EventRecord), args.Error(1)
}

func (m *MockEventRepository) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestFindEventsHandler_Handle(t *testing.T) {
	ctx := context.Background()
	repo := new(MockEventRepository)
	filter := specifications.EventFilter{"eventPurpose": "wed"}
	records := []*entities.EventRecord{{ID: "1", EventPurpose: "Wedding"}}
	repo.On("Find", ctx, filter).Return(records, nil)

	handler := NewFindEventsHandler(repo, zap.NewNop())
	result, err := handler.Handle(ctx, queries.FindEventsQuery{Filter: filter})

	require.NoError(t, err)
	assert.Equal(t, records, result)
	repo.AssertExpectations(t)
}

func TestFindEventsHandler_Handle_NoMatchIsEmpty(t *testing.T) {
	ctx := context.Background()
	repo := new(MockEventRepository)
	repo.On("Find", ctx, mock.Anything).Return(nil, nil)

	handler := NewFindEventsHandler(repo, zap.NewNop())
	result, err := handler.Handle(ctx, queries.FindEventsQuery{})

	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestFindEventsHandler_Handle_StoreFailure(t *testing.T) {
	ctx := context.Background()
	repo := new(MockEventRepository)
	storeErr := errors.New("scan failed")
	repo.On("Find", ctx, mock.Anything).Return(nil, storeErr)

	handler := NewFindEventsHandler(repo, zap.NewNop())
	_, err := handler.Handle(ctx, queries.FindEventsQuery{})

	assert.ErrorIs(t, err, storeErr)
}
