package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
	"github.com/Vishrutha-23/SafeWalk/internal/domain/repository"
	"github.com/Vishrutha-23/SafeWalk/internal/pkg/errors"
)

// crimeZonesSchema stores rings as JSON with a precomputed bounding box so
// region lookups need no spatial extension.
const crimeZonesSchema = `
CREATE TABLE IF NOT EXISTS crime_zones (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	risk_level TEXT NOT NULL CHECK (risk_level IN ('low', 'medium', 'high')),
	polygon    JSONB NOT NULL,
	min_lat    DOUBLE PRECISION NOT NULL,
	min_lon    DOUBLE PRECISION NOT NULL,
	max_lat    DOUBLE PRECISION NOT NULL,
	max_lon    DOUBLE PRECISION NOT NULL
);
CREATE INDEX IF NOT EXISTS crime_zones_bbox_idx ON crime_zones (min_lat, max_lat, min_lon, max_lon);
`

type crimeZoneRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	RiskLevel string `db:"risk_level"`
	Polygon   []byte `db:"polygon"`
}

type crimeZoneRepository struct {
	db         *DB
	logger     *zap.Logger
	riskLevels []string
}

// NewCrimeZoneRepository serves zones of the given risk levels (all when empty).
func NewCrimeZoneRepository(db *DB, logger *zap.Logger, riskLevels ...domain.RiskLevel) repository.CrimeZoneRepository {
	levels := make([]string, 0, len(riskLevels))
	for _, l := range riskLevels {
		levels = append(levels, string(l))
	}
	if len(levels) == 0 {
		levels = []string{string(domain.RiskLow), string(domain.RiskMedium), string(domain.RiskHigh)}
	}

	return &crimeZoneRepository{
		db:         db,
		logger:     logger,
		riskLevels: levels,
	}
}

// Migrate creates the crime_zones table if needed.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, crimeZonesSchema); err != nil {
		return fmt.Errorf("migrate crime_zones: %w", err)
	}
	return nil
}

// UpsertCrimeZones seeds or refreshes catalog rows.
func (db *DB) UpsertCrimeZones(ctx context.Context, zones []domain.CrimeZone) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT INTO crime_zones (id, name, risk_level, polygon, min_lat, min_lon, max_lat, max_lon)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			risk_level = EXCLUDED.risk_level,
			polygon = EXCLUDED.polygon,
			min_lat = EXCLUDED.min_lat,
			min_lon = EXCLUDED.min_lon,
			max_lat = EXCLUDED.max_lat,
			max_lon = EXCLUDED.max_lon
	`

	for _, z := range zones {
		bounds, ok := z.Bounds()
		if !ok {
			return fmt.Errorf("zone %s has no polygon", z.ID)
		}
		polygon, err := json.Marshal(domain.CloseRing(z.Polygon))
		if err != nil {
			return fmt.Errorf("marshal polygon %s: %w", z.ID, err)
		}
		if _, err := tx.ExecContext(ctx, query,
			z.ID, z.Name, string(z.RiskLevel), string(polygon),
			bounds.MinLat, bounds.MinLon, bounds.MaxLat, bounds.MaxLon,
		); err != nil {
			return fmt.Errorf("upsert zone %s: %w", z.ID, err)
		}
	}

	return tx.Commit()
}

func (r *crimeZoneRepository) All(ctx context.Context) ([]domain.CrimeZone, error) {
	query := `
		SELECT id, name, risk_level, polygon
		FROM crime_zones
		WHERE risk_level = ANY($1)
		ORDER BY id
	`

	var rows []crimeZoneRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(r.riskLevels)); err != nil {
		r.logger.Error("Failed to list crime zones", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return r.toZones(rows), nil
}

func (r *crimeZoneRepository) InRegion(ctx context.Context, box domain.BoundingBox) ([]domain.CrimeZone, error) {
	query := `
		SELECT id, name, risk_level, polygon
		FROM crime_zones
		WHERE min_lat <= $3 AND max_lat >= $1
		  AND min_lon <= $4 AND max_lon >= $2
		  AND risk_level = ANY($5)
		ORDER BY id
	`

	var rows []crimeZoneRow
	err := r.db.SelectContext(ctx, &rows, query,
		box.MinLat, box.MinLon, box.MaxLat, box.MaxLon, pq.Array(r.riskLevels))
	if err != nil {
		r.logger.Error("Failed to query crime zones by region", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return r.toZones(rows), nil
}

func (r *crimeZoneRepository) toZones(rows []crimeZoneRow) []domain.CrimeZone {
	zones := make([]domain.CrimeZone, 0, len(rows))
	for _, row := range rows {
		var polygon []domain.Coordinate
		if err := json.Unmarshal(row.Polygon, &polygon); err != nil {
			r.logger.Warn("Skipping crime zone with bad polygon", zap.String("id", row.ID), zap.Error(err))
			continue
		}
		zones = append(zones, domain.CrimeZone{
			ID:        row.ID,
			Name:      row.Name,
			RiskLevel: domain.RiskLevel(row.RiskLevel),
			Polygon:   domain.CloseRing(polygon),
		})
	}
	return zones
}
