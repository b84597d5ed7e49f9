package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance(t *testing.T) {
	// Barcelona -> Madrid is roughly 505 km.
	d := HaversineDistance(41.3851, 2.1734, 40.4168, -3.7038)
	assert.InDelta(t, 505, d, 5)

	assert.Equal(t, 0.0, HaversineDistance(12.97, 77.59, 12.97, 77.59))
	assert.InDelta(t, d*1000, HaversineMeters(41.3851, 2.1734, 40.4168, -3.7038), 1e-6)
}

func TestValidateCoordinates(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		want     bool
	}{
		{"valid", 12.97, 77.59, true},
		{"poles and antimeridian", -90, 180, true},
		{"lat too large", 90.1, 0, false},
		{"lon too small", 0, -180.5, false},
		{"nan", math.NaN(), 0, false},
		{"inf", 0, math.Inf(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateCoordinates(tt.lat, tt.lon))
		})
	}
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 12.3, Round1(12.34))
	assert.Equal(t, 12.4, Round1(12.36))
	assert.Equal(t, 0.0, Round1(0.04))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 80.0, ClampFloat(200, 1, 80))
	assert.Equal(t, 1.0, ClampFloat(0, 1, 80))
	assert.Equal(t, 33.0, ClampFloat(33, 1, 80))
	assert.Equal(t, 0, ClampInt(-40, 0, 100))
	assert.Equal(t, 100, ClampInt(130, 0, 100))
}
