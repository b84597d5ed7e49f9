package redis

import (
	"context"

	"go.uber.org/zap"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
	"github.com/Vishrutha-23/SafeWalk/internal/domain/repository"
	"github.com/Vishrutha-23/SafeWalk/internal/metrics"
)

// eventPublisher appends trip events to the trip events stream.
type eventPublisher struct {
	streams repository.StreamRepository
	stream  string
	logger  *zap.Logger
	metrics *metrics.Collector
}

func NewEventPublisher(streams repository.StreamRepository, logger *zap.Logger, m *metrics.Collector) repository.EventPublisher {
	return &eventPublisher{
		streams: streams,
		stream:  domain.StreamTripEvents,
		logger:  logger,
		metrics: m,
	}
}

func (p *eventPublisher) PublishTripEvent(ctx context.Context, event domain.TripEvent) error {
	if err := p.streams.PublishToStream(ctx, p.stream, event); err != nil {
		p.metrics.EventPublished("redis", metrics.OutcomeError)
		return err
	}
	p.metrics.EventPublished("redis", metrics.OutcomeOK)
	return nil
}

// Close is a no-op; the Redis client is owned by the caller.
func (p *eventPublisher) Close() error {
	return nil
}
