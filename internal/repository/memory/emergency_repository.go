package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
	"github.com/Vishrutha-23/SafeWalk/internal/domain/repository"
	"github.com/Vishrutha-23/SafeWalk/internal/pkg/errors"
)

type emergencyRepository struct {
	mu       sync.RWMutex
	sessions map[string]*domain.EmergencySession
}

func NewEmergencyRepository() repository.EmergencyRepository {
	return &emergencyRepository{
		sessions: make(map[string]*domain.EmergencySession),
	}
}

func copySession(s *domain.EmergencySession) *domain.EmergencySession {
	cp := *s
	cp.Contacts = append([]domain.EmergencyContact(nil), s.Contacts...)
	cp.Acknowledgements = append([]domain.Acknowledgement(nil), s.Acknowledgements...)
	return &cp
}

func (r *emergencyRepository) Create(_ context.Context, session domain.EmergencySession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.ID] = copySession(&session)
	return nil
}

func (r *emergencyRepository) GetByID(_ context.Context, id string) (*domain.EmergencySession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, errors.ErrSessionNotFound
	}
	return copySession(s), nil
}

func (r *emergencyRepository) AppendAck(_ context.Context, id string, ack domain.Acknowledgement) (*domain.EmergencySession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, errors.ErrSessionNotFound
	}
	s.Acknowledgements = append(s.Acknowledgements, ack)
	return copySession(s), nil
}

func (r *emergencyRepository) EvictExpired(_ context.Context, cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		if s.CreatedAt.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}
