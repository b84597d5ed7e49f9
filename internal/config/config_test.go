package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoad_DefaultsWithoutEnvFile(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddr())
	assert.Equal(t, "pedestrian", cfg.Providers.TravelMode)
	assert.Equal(t, 10*time.Second, cfg.Providers.Timeout)
	assert.Equal(t, 1.0, cfg.Hazards.MinRadiusKm)
	assert.Equal(t, 80.0, cfg.Hazards.MaxRadiusKm)
	assert.Equal(t, 33.0, cfg.Hazards.DefaultRadiusKm)
	assert.True(t, cfg.Hazards.FilterCrimeByRegion)
	assert.Equal(t, 200.0, cfg.Hazards.RouteCorridorMeters)
	assert.Equal(t, 8*time.Second, cfg.Monitor.PollInterval)
	assert.Equal(t, 500.0, cfg.Monitor.ProximityMeters)
	assert.Equal(t, 20, cfg.Monitor.MaxNewIncidents)
	assert.Equal(t, ReportStoreMemory, cfg.Reports.Store)
	assert.Equal(t, EventsBackendNone, cfg.Events.Backend)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("API_PORT", "9090")
	t.Setenv("MONITOR_POLL_INTERVAL", "2")
	t.Setenv("TOMTOM_BASE_URL", "http://tomtom.local/")
	t.Setenv("CRIME_ZONES_FILTER_BY_REGION", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 2*time.Second, cfg.Monitor.PollInterval)
	assert.Equal(t, "http://tomtom.local", cfg.Providers.TomTomBaseURL)
	assert.False(t, cfg.Hazards.FilterCrimeByRegion)
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ROUTE_CORRIDOR_METERS=150\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("ROUTE_CORRIDOR_METERS") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 150.0, cfg.Hazards.RouteCorridorMeters)
}

func TestLoad_RejectsInconsistentBackends(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"redis reports without redis", "REPORT_STORE", "redis"},
		{"postgres zones without db", "CRIME_ZONE_SOURCE", "postgres"},
		{"redis events without redis", "EVENTS_BACKEND", "redis"},
		{"unknown events backend", "EVENTS_BACKEND", "kafka"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestConnectionStrings(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: 5432, User: "safewalk", Password: "secret", DBName: "safewalk", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=safewalk password=secret dbname=safewalk sslmode=disable", db.DSN())

	r := RedisConfig{Host: "cache", Port: 6380}
	assert.Equal(t, "cache:6380", r.Addr())
}
