package repository

import (
	"context"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
)

// CrimeZoneRepository is the crime-zone catalog.
type CrimeZoneRepository interface {
	// All returns every zone in the catalog
	All(ctx context.Context) ([]domain.CrimeZone, error)

	// InRegion returns zones whose polygon bounds intersect box
	InRegion(ctx context.Context, box domain.BoundingBox) ([]domain.CrimeZone, error)
}
