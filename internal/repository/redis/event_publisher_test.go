package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
)

type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) ConsumeStream(ctx context.Context, stream, group, consumer string) (<-chan domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	return m.Called(ctx, stream, group, messageID).Error(0)
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	return m.Called(ctx, stream, group).Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	return m.Called(ctx, stream, data).Error(0)
}

func TestEventPublisher_PublishTripEvent(t *testing.T) {
	event := domain.TripEvent{TripID: "t1", Type: domain.TripEventStopped}

	t.Run("publishes to trip events stream", func(t *testing.T) {
		streams := new(MockStreamRepository)
		streams.On("PublishToStream", mock.Anything, domain.StreamTripEvents, event).Return(nil)

		pub := NewEventPublisher(streams, zap.NewNop(), nil)
		assert.NoError(t, pub.PublishTripEvent(context.Background(), event))
		streams.AssertExpectations(t)
	})

	t.Run("propagates stream errors", func(t *testing.T) {
		streams := new(MockStreamRepository)
		streams.On("PublishToStream", mock.Anything, domain.StreamTripEvents, event).Return(errors.New("connection refused"))

		pub := NewEventPublisher(streams, zap.NewNop(), nil)
		assert.Error(t, pub.PublishTripEvent(context.Background(), event))
		assert.NoError(t, pub.Close())
	})
}
