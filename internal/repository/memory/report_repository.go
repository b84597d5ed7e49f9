package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
	"github.com/Vishrutha-23/SafeWalk/internal/domain/repository"
	"github.com/Vishrutha-23/SafeWalk/internal/pkg/errors"
)

// reportRepository is an in-process report store bounded by capacity and age.
// Reports are kept in append order, so eviction always trims the front.
type reportRepository struct {
	mu         sync.RWMutex
	reports    []domain.UserReport
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
}

func NewReportRepository(maxEntries int, ttl time.Duration, now func() time.Time) repository.ReportRepository {
	if now == nil {
		now = time.Now
	}
	return &reportRepository{
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        now,
	}
}

func (r *reportRepository) Append(_ context.Context, report domain.UserReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.reports {
		if r.reports[i].ID == report.ID {
			return nil
		}
	}

	r.reports = append(r.reports, report)
	r.evictLocked()
	return nil
}

func (r *reportRepository) evictLocked() {
	drop := 0
	if r.ttl > 0 {
		cutoff := r.now().Add(-r.ttl)
		for drop < len(r.reports) && r.reports[drop].CreatedAt.Before(cutoff) {
			drop++
		}
	}
	if r.maxEntries > 0 && len(r.reports)-drop > r.maxEntries {
		drop = len(r.reports) - r.maxEntries
	}
	if drop == 0 {
		return
	}

	kept := make([]domain.UserReport, len(r.reports)-drop)
	copy(kept, r.reports[drop:])
	r.reports = kept
}

// QueryByRegion returns a snapshot; expired entries are skipped even before
// the next append evicts them.
func (r *reportRepository) QueryByRegion(_ context.Context, box domain.BoundingBox) ([]domain.UserReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var cutoff time.Time
	if r.ttl > 0 {
		cutoff = r.now().Add(-r.ttl)
	}

	out := make([]domain.UserReport, 0)
	for _, report := range r.reports {
		if !cutoff.IsZero() && report.CreatedAt.Before(cutoff) {
			continue
		}
		if box.Contains(report.Location) {
			out = append(out, report)
		}
	}
	return out, nil
}

func (r *reportRepository) GetByID(_ context.Context, id string) (*domain.UserReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := len(r.reports) - 1; i >= 0; i-- {
		if r.reports[i].ID == id {
			report := r.reports[i]
			return &report, nil
		}
	}
	return nil, errors.ErrNotFound.WithMessage("Report not found")
}
