package repository

import (
	"context"
	"time"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
)

// EmergencyRepository keeps emergency sessions for the process lifetime
// (bounded by TTL). Sessions only ever grow acknowledgements.
type EmergencyRepository interface {
	Create(ctx context.Context, session domain.EmergencySession) error
	GetByID(ctx context.Context, id string) (*domain.EmergencySession, error)
	AppendAck(ctx context.Context, id string, ack domain.Acknowledgement) (*domain.EmergencySession, error)
	// EvictExpired drops sessions created before cutoff and returns how many were removed
	EvictExpired(ctx context.Context, cutoff time.Time) int
}
