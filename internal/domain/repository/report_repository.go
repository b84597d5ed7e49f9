package repository

import (
	"context"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
)

// ReportRepository stores community incident reports. Records are immutable
// once appended; implementations evict by age and capacity.
type ReportRepository interface {
	// Append stores a new report. Appending an ID that is already stored is
	// a no-op and keeps the first record.
	Append(ctx context.Context, report domain.UserReport) error

	// QueryByRegion returns a snapshot of reports inside box
	QueryByRegion(ctx context.Context, box domain.BoundingBox) ([]domain.UserReport, error)

	// GetByID returns a single report or errors.ErrNotFound
	GetByID(ctx context.Context, id string) (*domain.UserReport, error)
}
