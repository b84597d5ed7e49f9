package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
	"github.com/Vishrutha-23/SafeWalk/internal/domain/repository"
	"github.com/Vishrutha-23/SafeWalk/internal/metrics"
	"github.com/Vishrutha-23/SafeWalk/internal/pkg/errors"
	"github.com/Vishrutha-23/SafeWalk/internal/pkg/validator"
	"github.com/Vishrutha-23/SafeWalk/internal/usecase/dto"
)

// RoutePlanner evaluates route alternatives.
type RoutePlanner interface {
	Evaluate(ctx context.Context, origin, destination domain.Coordinate) (*domain.RouteComparison, error)
}

// TripConfig - monitor tuning
type TripConfig struct {
	PollInterval    time.Duration
	ProximityMeters float64
	QueryRadiusKm   float64
	Retention       time.Duration
	MaxNewIncidents int
}

const eventPublishTimeout = 5 * time.Second

// TripUseCase manages on-trip monitors, one goroutine per trip.
type TripUseCase struct {
	assessor  PointAssessor
	routes    RoutePlanner
	publisher repository.EventPublisher
	cfg       TripConfig
	now       func() time.Time
	logger    *zap.Logger
	metrics   *metrics.Collector

	mu    sync.RWMutex
	trips map[string]*tripMonitor
}

// NewTripUseCase - publisher may be nil when events are disabled
func NewTripUseCase(
	assessor PointAssessor,
	routes RoutePlanner,
	publisher repository.EventPublisher,
	cfg TripConfig,
	now func() time.Time,
	logger *zap.Logger,
	m *metrics.Collector,
) *TripUseCase {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 8 * time.Second
	}
	if cfg.ProximityMeters <= 0 {
		cfg.ProximityMeters = 500
	}
	if cfg.QueryRadiusKm <= 0 {
		cfg.QueryRadiusKm = 1
	}
	if cfg.MaxNewIncidents <= 0 {
		cfg.MaxNewIncidents = 20
	}
	if now == nil {
		now = time.Now
	}
	return &TripUseCase{
		assessor:  assessor,
		routes:    routes,
		publisher: publisher,
		cfg:       cfg,
		now:       now,
		logger:    logger,
		metrics:   m,
		trips:     make(map[string]*tripMonitor),
	}
}

// Start - POST /trips. The session enters tracking immediately and the first
// tick runs in the background.
func (uc *TripUseCase) Start(ctx context.Context, req dto.TripStartRequest) (*domain.TripSession, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}
	if !req.Origin.Valid() || !req.Destination.Valid() {
		return nil, errors.ErrInvalidCoordinates
	}

	session := domain.TripSession{
		ID:              uuid.New().String(),
		Origin:          *req.Origin,
		Destination:     *req.Destination,
		CurrentPosition: *req.Origin,
		SeenIncidentIDs: make(map[string]struct{}),
		State:           domain.TripStateTracking,
		NewIncidents:    []domain.DiscoveredIncident{},
		StartedAt:       uc.now().UTC(),
	}

	m := newTripMonitor(uc, session)
	uc.mu.Lock()
	uc.trips[session.ID] = m
	uc.mu.Unlock()

	go m.run()

	uc.metrics.TripStarted()
	uc.logger.Info("Trip monitoring started",
		zap.String("trip_id", session.ID),
		zap.String("origin", session.Origin.String()),
		zap.String("destination", session.Destination.String()))
	uc.publish(session, domain.TripEventStarted, nil)

	snap := session.Snapshot()
	return &snap, nil
}

// Get - GET /trips/:id
func (uc *TripUseCase) Get(_ context.Context, id string) (*domain.TripSession, error) {
	m, err := uc.monitor(id)
	if err != nil {
		return nil, err
	}
	session := m.view.load()
	return &session, nil
}

// UpdatePosition records a position sample and runs a tick for it.
func (uc *TripUseCase) UpdatePosition(ctx context.Context, id string, position domain.Coordinate) (*domain.TripSession, error) {
	if !position.Valid() {
		return nil, errors.ErrInvalidCoordinates
	}
	return uc.command(ctx, id, tripCommand{kind: commandPosition, position: position})
}

// Dismiss clears a reroute suggestion.
func (uc *TripUseCase) Dismiss(ctx context.Context, id string) (*domain.TripSession, error) {
	return uc.command(ctx, id, tripCommand{kind: commandDismiss})
}

// Reroute accepts the suggestion: the safest route from the current position
// becomes the active route.
func (uc *TripUseCase) Reroute(ctx context.Context, id string) (*domain.TripSession, *domain.SafeRouteSummary, error) {
	m, err := uc.monitor(id)
	if err != nil {
		return nil, nil, err
	}
	reply, err := m.send(ctx, tripCommand{kind: commandReroute})
	if err != nil {
		return nil, nil, err
	}
	return &reply.session, reply.route, nil
}

// Stop ends monitoring. Any in-flight tick is discarded.
func (uc *TripUseCase) Stop(_ context.Context, id string) (*domain.TripSession, error) {
	m, err := uc.monitor(id)
	if err != nil {
		return nil, err
	}

	m.cancel()
	<-m.done

	m.stopOnce.Do(func() {
		stoppedAt := uc.now().UTC()
		m.session.State = domain.TripStateStopped
		m.session.StoppedAt = &stoppedAt
		m.view.store(m.session.Snapshot())

		uc.metrics.TripStopped()
		uc.logger.Info("Trip monitoring stopped", zap.String("trip_id", id))
		uc.publish(m.session, domain.TripEventStopped, nil)
	})

	session := m.view.load()
	return &session, nil
}

// EvictStopped removes trips stopped longer than the retention period.
func (uc *TripUseCase) EvictStopped() int {
	cutoff := uc.now().Add(-uc.cfg.Retention)

	uc.mu.Lock()
	defer uc.mu.Unlock()

	removed := 0
	for id, m := range uc.trips {
		session := m.view.load()
		if session.StoppedAt != nil && !session.StoppedAt.After(cutoff) {
			delete(uc.trips, id)
			removed++
		}
	}
	if removed > 0 {
		uc.logger.Debug("Stopped trips evicted", zap.Int("count", removed))
	}
	return removed
}

// Shutdown stops every active monitor.
func (uc *TripUseCase) Shutdown(ctx context.Context) {
	uc.mu.RLock()
	ids := make([]string, 0, len(uc.trips))
	for id := range uc.trips {
		ids = append(ids, id)
	}
	uc.mu.RUnlock()

	for _, id := range ids {
		if _, err := uc.Stop(ctx, id); err != nil {
			uc.logger.Warn("Failed to stop trip", zap.String("trip_id", id), zap.Error(err))
		}
	}
}

func (uc *TripUseCase) monitor(id string) (*tripMonitor, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	m, ok := uc.trips[id]
	if !ok {
		return nil, errors.ErrTripNotFound
	}
	return m, nil
}

func (uc *TripUseCase) command(ctx context.Context, id string, cmd tripCommand) (*domain.TripSession, error) {
	m, err := uc.monitor(id)
	if err != nil {
		return nil, err
	}
	reply, err := m.send(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return &reply.session, nil
}

func (uc *TripUseCase) publish(session domain.TripSession, eventType domain.TripEventType, incidents []domain.DiscoveredIncident) {
	if uc.publisher == nil {
		return
	}

	event := domain.TripEvent{
		TripID:     session.ID,
		Type:       eventType,
		State:      session.State,
		Position:   session.CurrentPosition,
		Incidents:  incidents,
		OccurredAt: uc.now().UTC(),
	}
	if session.LastScore != nil {
		score := session.LastScore.Score
		event.Score = &score
	}

	ctx, cancel := context.WithTimeout(context.Background(), eventPublishTimeout)
	defer cancel()
	if err := uc.publisher.PublishTripEvent(ctx, event); err != nil {
		uc.logger.Warn("Failed to publish trip event",
			zap.String("trip_id", session.ID),
			zap.String("type", string(eventType)),
			zap.Error(err))
	}
}

// sessionView holds the latest published copy of a session.
type sessionView struct {
	mu      sync.RWMutex
	session domain.TripSession
}

func (v *sessionView) store(s domain.TripSession) {
	v.mu.Lock()
	v.session = s
	v.mu.Unlock()
}

func (v *sessionView) load() domain.TripSession {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.session.Snapshot()
}
