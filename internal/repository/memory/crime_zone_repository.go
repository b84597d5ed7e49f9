package memory

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
	"github.com/Vishrutha-23/SafeWalk/internal/domain/repository"
)

//go:embed crime_zones.json
var defaultCrimeZones []byte

// crimeZoneRepository serves a fixed catalog loaded at start-up.
type crimeZoneRepository struct {
	zones []domain.CrimeZone
}

func NewCrimeZoneRepository(zones []domain.CrimeZone) repository.CrimeZoneRepository {
	return &crimeZoneRepository{zones: append([]domain.CrimeZone(nil), zones...)}
}

// LoadCrimeZoneRepository reads the catalog from path, or the bundled sample
// catalog when path is empty.
func LoadCrimeZoneRepository(path string) (repository.CrimeZoneRepository, error) {
	if path == "" {
		zones, err := DecodeCrimeZones(bytes.NewReader(defaultCrimeZones))
		if err != nil {
			return nil, fmt.Errorf("bundled crime zones: %w", err)
		}
		return NewCrimeZoneRepository(zones), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open crime zones: %w", err)
	}
	defer f.Close()

	zones, err := DecodeCrimeZones(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewCrimeZoneRepository(zones), nil
}

// DecodeCrimeZones parses a JSON catalog, validating risk levels and closing
// every ring.
func DecodeCrimeZones(r io.Reader) ([]domain.CrimeZone, error) {
	var zones []domain.CrimeZone
	if err := json.NewDecoder(r).Decode(&zones); err != nil {
		return nil, fmt.Errorf("decode crime zones: %w", err)
	}

	for i := range zones {
		z := &zones[i]
		if z.ID == "" {
			return nil, fmt.Errorf("zone %d: missing id", i)
		}
		if !z.RiskLevel.Valid() {
			return nil, fmt.Errorf("zone %s: invalid risk %q", z.ID, z.RiskLevel)
		}
		if len(z.Polygon) < 3 {
			return nil, fmt.Errorf("zone %s: polygon needs at least 3 points", z.ID)
		}
		for _, p := range z.Polygon {
			if !p.Valid() {
				return nil, fmt.Errorf("zone %s: invalid vertex %v", z.ID, p)
			}
		}
		z.Polygon = domain.CloseRing(z.Polygon)
	}

	return zones, nil
}

func (r *crimeZoneRepository) All(_ context.Context) ([]domain.CrimeZone, error) {
	return append([]domain.CrimeZone(nil), r.zones...), nil
}

func (r *crimeZoneRepository) InRegion(_ context.Context, box domain.BoundingBox) ([]domain.CrimeZone, error) {
	out := make([]domain.CrimeZone, 0)
	for _, z := range r.zones {
		bounds, ok := z.Bounds()
		if ok && bounds.Intersects(box) {
			out = append(out, z)
		}
	}
	return out, nil
}
