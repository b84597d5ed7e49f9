package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
	"github.com/Vishrutha-23/SafeWalk/internal/metrics"
	"github.com/Vishrutha-23/SafeWalk/internal/pkg/errors"
	"github.com/Vishrutha-23/SafeWalk/internal/pkg/utils"
)

// Reroute thresholds
const (
	RerouteScoreThreshold         = 60
	LowLightRerouteScoreThreshold = 80
)

// TickInput is everything one monitor decision needs.
type TickInput struct {
	Position        domain.Coordinate
	Incidents       []domain.HazardIncident
	Seen            map[string]struct{}
	Score           int
	LowLight        bool
	ProximityMeters float64
	Now             time.Time
}

// TickResult - outcome of one decision. Seen is never mutated by
// EvaluateTick; NewlySeen lists ids to add.
type TickResult struct {
	NewlySeen  []string
	Discovered []domain.DiscoveredIncident
	NextState  domain.TripState
}

// ShouldSuggestReroute applies the reroute thresholds.
func ShouldSuggestReroute(score int, lowLight bool) bool {
	return score < RerouteScoreThreshold || (lowLight && score < LowLightRerouteScoreThreshold)
}

// IncidentKey is the incident id, or its position when the id is empty.
func IncidentKey(in domain.HazardIncident) string {
	if in.ID != "" {
		return in.ID
	}
	return fmt.Sprintf("%f,%f", in.Latitude, in.Longitude)
}

// EvaluateTick diffs incidents against the seen set and decides the next
// state. Every unseen incident is marked seen; only those within the
// proximity radius are reported as discovered.
func EvaluateTick(in TickInput) TickResult {
	result := TickResult{
		NewlySeen:  []string{},
		Discovered: []domain.DiscoveredIncident{},
		NextState:  domain.TripStateTracking,
	}

	batch := make(map[string]struct{})
	for _, incident := range in.Incidents {
		key := IncidentKey(incident)
		if _, ok := in.Seen[key]; ok {
			continue
		}
		if _, ok := batch[key]; ok {
			continue
		}
		batch[key] = struct{}{}
		result.NewlySeen = append(result.NewlySeen, key)

		d := utils.HaversineMeters(in.Position.Lat, in.Position.Lon, incident.Latitude, incident.Longitude)
		if d < in.ProximityMeters {
			result.Discovered = append(result.Discovered, domain.DiscoveredIncident{
				HazardIncident: incident,
				DistanceMeters: d,
				DiscoveredAt:   in.Now,
			})
		}
	}

	if ShouldSuggestReroute(in.Score, in.LowLight) {
		result.NextState = domain.TripStateRerouteSuggested
	}
	return result
}

type tripCommandKind int

const (
	commandPosition tripCommandKind = iota
	commandDismiss
	commandReroute
)

type tripCommand struct {
	kind     tripCommandKind
	ctx      context.Context
	position domain.Coordinate
	reply    chan tripReply
}

type tripReply struct {
	session domain.TripSession
	route   *domain.SafeRouteSummary
	err     error
}

// tripMonitor owns one TripSession. Only run() touches session; readers get
// the copy in view.
type tripMonitor struct {
	uc       *TripUseCase
	session  domain.TripSession
	commands chan tripCommand
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
	view     *sessionView
}

func newTripMonitor(uc *TripUseCase, session domain.TripSession) *tripMonitor {
	ctx, cancel := context.WithCancel(context.Background())
	m := &tripMonitor{
		uc:       uc,
		session:  session,
		commands: make(chan tripCommand),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
		view:     &sessionView{},
	}
	m.view.store(session.Snapshot())
	return m
}

func (m *tripMonitor) run() {
	defer close(m.done)

	ticker := time.NewTicker(m.uc.cfg.PollInterval)
	defer ticker.Stop()

	m.tick()
	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.tick()
		case cmd := <-m.commands:
			m.handle(cmd)
		}
	}
}

// send delivers a command unless the monitor has exited.
func (m *tripMonitor) send(ctx context.Context, cmd tripCommand) (tripReply, error) {
	cmd.ctx = ctx
	cmd.reply = make(chan tripReply, 1)

	select {
	case m.commands <- cmd:
	case <-m.done:
		return tripReply{}, errors.ErrTripStopped
	case <-ctx.Done():
		return tripReply{}, ctx.Err()
	}

	select {
	case r := <-cmd.reply:
		return r, r.err
	case <-m.done:
		return tripReply{}, errors.ErrTripStopped
	case <-ctx.Done():
		return tripReply{}, ctx.Err()
	}
}

func (m *tripMonitor) handle(cmd tripCommand) {
	var reply tripReply

	switch cmd.kind {
	case commandPosition:
		m.session.CurrentPosition = cmd.position
		m.tick()
	case commandDismiss:
		m.session.State = domain.TripStateTracking
	case commandReroute:
		reply.route, reply.err = m.reroute(cmd.ctx)
	}

	reply.session = m.session.Snapshot()
	m.view.store(reply.session)
	cmd.reply <- reply
}

func (m *tripMonitor) tick() {
	uc := m.uc
	started := time.Now()
	position := m.session.CurrentPosition

	assessment, err := uc.assessor.Assess(m.ctx, position, uc.cfg.QueryRadiusKm)
	if m.ctx.Err() != nil {
		return
	}
	if err != nil {
		uc.metrics.Tick(metrics.OutcomeError, time.Since(started))
		uc.logger.Warn("Trip monitor tick failed",
			zap.String("trip_id", m.session.ID),
			zap.Error(err))
		return
	}
	// every hazard source and weather failed: the placeholder score is not a reading
	if assessment.Score.ContributingFactors.Degraded {
		uc.metrics.Tick(metrics.OutcomeError, time.Since(started))
		uc.logger.Warn("Trip monitor tick skipped, safety data unavailable",
			zap.String("trip_id", m.session.ID))
		return
	}

	now := uc.now()
	score := assessment.Score
	result := EvaluateTick(TickInput{
		Position:        position,
		Incidents:       assessment.Incidents,
		Seen:            m.session.SeenIncidentIDs,
		Score:           score.Score,
		LowLight:        score.ContributingFactors.LowLight,
		ProximityMeters: uc.cfg.ProximityMeters,
		Now:             now,
	})

	for _, id := range result.NewlySeen {
		m.session.SeenIncidentIDs[id] = struct{}{}
	}
	if len(result.Discovered) > 0 {
		m.session.NewIncidents = prependCapped(result.Discovered, m.session.NewIncidents, uc.cfg.MaxNewIncidents)
		uc.metrics.Discovered(len(result.Discovered))
		m.publish(domain.TripEventHazardDiscovered, result.Discovered)
	}

	previous := m.session.State
	m.session.LastScore = &score
	m.session.LowLight = score.ContributingFactors.LowLight
	m.session.LastTickAt = &now
	m.session.State = result.NextState

	if previous != domain.TripStateRerouteSuggested && result.NextState == domain.TripStateRerouteSuggested {
		uc.metrics.RerouteSuggested()
		uc.logger.Info("Reroute suggested",
			zap.String("trip_id", m.session.ID),
			zap.Int("score", score.Score),
			zap.Bool("low_light", m.session.LowLight))
		m.publish(domain.TripEventRerouteSuggested, nil)
	}

	uc.metrics.Tick(metrics.OutcomeOK, time.Since(started))
	m.view.store(m.session.Snapshot())
}

// reroute asks for a fresh comparison from the current position. On failure
// the session is left untouched.
func (m *tripMonitor) reroute(ctx context.Context) (*domain.SafeRouteSummary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(m.ctx, cancel)
	defer stop()

	comparison, err := m.uc.routes.Evaluate(ctx, m.session.CurrentPosition, m.session.Destination)
	if m.ctx.Err() != nil {
		return nil, errors.ErrTripStopped
	}
	if err != nil {
		m.uc.logger.Warn("Reroute failed",
			zap.String("trip_id", m.session.ID),
			zap.Error(err))
		return nil, err
	}

	safest := comparison.Safest
	m.session.ActiveRoute = append(domain.RouteGeometry(nil), safest.Geometry...)
	m.session.State = domain.TripStateTracking
	m.publish(domain.TripEventRerouted, nil)
	return &safest, nil
}

func (m *tripMonitor) publish(eventType domain.TripEventType, incidents []domain.DiscoveredIncident) {
	m.uc.publish(m.session, eventType, incidents)
}

// prependCapped puts fresh ahead of prev, keeping at most limit entries.
func prependCapped(fresh, prev []domain.DiscoveredIncident, limit int) []domain.DiscoveredIncident {
	out := make([]domain.DiscoveredIncident, 0, len(fresh)+len(prev))
	out = append(out, fresh...)
	out = append(out, prev...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
