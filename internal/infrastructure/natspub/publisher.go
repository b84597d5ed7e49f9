package natspub

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
	"github.com/Vishrutha-23/SafeWalk/internal/metrics"
)

const subjectPrefix = "safewalk.trips"

// Publisher sends trip events to NATS subjects
// safewalk.trips.<trip id>.<event type>.
type Publisher struct {
	nc      *nats.Conn
	logger  *zap.Logger
	metrics *metrics.Collector
}

func NewPublisher(url string, logger *zap.Logger, m *metrics.Collector) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("safewalk-api"),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", zap.String("url", c.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	logger.Info("NATS connected", zap.String("url", nc.ConnectedUrl()))

	return &Publisher{nc: nc, logger: logger, metrics: m}, nil
}

func (p *Publisher) PublishTripEvent(_ context.Context, event domain.TripEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal trip event: %w", err)
	}

	subject := Subject(event)
	if err := p.nc.Publish(subject, data); err != nil {
		p.metrics.EventPublished("nats", metrics.OutcomeError)
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	p.metrics.EventPublished("nats", metrics.OutcomeOK)
	p.logger.Debug("Trip event published",
		zap.String("subject", subject),
		zap.String("trip_id", event.TripID))
	return nil
}

func (p *Publisher) Close() error {
	if p.nc == nil {
		return nil
	}
	if err := p.nc.Drain(); err != nil {
		p.nc.Close()
		return err
	}
	return nil
}

// Subject builds the subject an event is published on.
func Subject(event domain.TripEvent) string {
	return fmt.Sprintf("%s.%s.%s", subjectPrefix, subjectToken(event.TripID), subjectToken(string(event.Type)))
}

func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	// NATS tokens cannot contain spaces, '>', '*' or '.'
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_", "\t", "_")
	s = repl.Replace(s)
	if s == "" {
		s = "_"
	}
	return s
}
