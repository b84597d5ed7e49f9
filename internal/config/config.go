package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Log       LogConfig
	Providers ProvidersConfig
	Hazards   HazardsConfig
	Reports   ReportsConfig
	Monitor   MonitorConfig
	Emergency EmergencyConfig
	Events    EventsConfig
	Worker    WorkerConfig
	Metrics   MetricsConfig
}

type ServerConfig struct {
	Host             string
	Port             int
	Env              string
	CORSAllowOrigins string
}

type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	GeocodeCacheTTL time.Duration
}

type LogConfig struct {
	Level string
}

type ProvidersConfig struct {
	TomTomAPIKey       string
	TomTomBaseURL      string
	TravelMode         string
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string
	Timeout            time.Duration
}

type HazardsConfig struct {
	MinRadiusKm         float64
	MaxRadiusKm         float64
	DefaultRadiusKm     float64
	FilterCrimeByRegion bool
	RouteCorridorMeters float64
	CrimeZoneSource     string
	CrimeZonesFile      string
}

type ReportsConfig struct {
	Store      string
	MaxEntries int
	TTL        time.Duration
}

type MonitorConfig struct {
	PollInterval    time.Duration
	ProximityMeters float64
	QueryRadiusKm   float64
	TripRetention   time.Duration
	MaxNewIncidents int
}

type EmergencyConfig struct {
	TrackingBaseURL string
	TTL             time.Duration
}

type EventsConfig struct {
	Backend string
	NATSURL string
}

type WorkerConfig struct {
	Enabled           bool
	ConsumerGroup     string
	StreamReadTimeout time.Duration
	MaxRetries        int
}

type MetricsConfig struct {
	Enabled bool
}

const (
	ReportStoreMemory = "memory"
	ReportStoreRedis  = "redis"

	CrimeZoneSourceStatic   = "static"
	CrimeZoneSourcePostgres = "postgres"

	EventsBackendNone  = "none"
	EventsBackendRedis = "redis"
	EventsBackendNATS  = "nats"
)

// Load reads .env (optional) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("API_HOST"),
			Port: v.GetInt("API_PORT"),
			Env:  v.GetString("API_ENV"),

			CORSAllowOrigins: v.GetString("CORS_ALLOW_ORIGINS"),
		},
		Database: DatabaseConfig{
			Enabled:         v.GetBool("DB_ENABLED"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			GeocodeCacheTTL: time.Duration(v.GetInt("GEOCODE_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Providers: ProvidersConfig{
			TomTomAPIKey:       v.GetString("TOMTOM_API_KEY"),
			TomTomBaseURL:      strings.TrimRight(v.GetString("TOMTOM_BASE_URL"), "/"),
			TravelMode:         v.GetString("ROUTE_TRAVEL_MODE"),
			OpenWeatherAPIKey:  v.GetString("OPENWEATHER_API_KEY"),
			OpenWeatherBaseURL: strings.TrimRight(v.GetString("OPENWEATHER_BASE_URL"), "/"),
			Timeout:            time.Duration(v.GetInt("PROVIDER_TIMEOUT")) * time.Second,
		},
		Hazards: HazardsConfig{
			MinRadiusKm:         v.GetFloat64("HAZARD_MIN_RADIUS_KM"),
			MaxRadiusKm:         v.GetFloat64("HAZARD_MAX_RADIUS_KM"),
			DefaultRadiusKm:     v.GetFloat64("HAZARD_DEFAULT_RADIUS_KM"),
			FilterCrimeByRegion: v.GetBool("CRIME_ZONES_FILTER_BY_REGION"),
			RouteCorridorMeters: v.GetFloat64("ROUTE_CORRIDOR_METERS"),
			CrimeZoneSource:     strings.ToLower(v.GetString("CRIME_ZONE_SOURCE")),
			CrimeZonesFile:      v.GetString("CRIME_ZONES_FILE"),
		},
		Reports: ReportsConfig{
			Store:      strings.ToLower(v.GetString("REPORT_STORE")),
			MaxEntries: v.GetInt("REPORT_MAX_ENTRIES"),
			TTL:        time.Duration(v.GetInt("REPORT_TTL")) * time.Second,
		},
		Monitor: MonitorConfig{
			PollInterval:    time.Duration(v.GetInt("MONITOR_POLL_INTERVAL")) * time.Second,
			ProximityMeters: v.GetFloat64("MONITOR_PROXIMITY_METERS"),
			QueryRadiusKm:   v.GetFloat64("MONITOR_QUERY_RADIUS_KM"),
			TripRetention:   time.Duration(v.GetInt("TRIP_RETENTION")) * time.Second,
			MaxNewIncidents: v.GetInt("MONITOR_MAX_NEW_INCIDENTS"),
		},
		Emergency: EmergencyConfig{
			TrackingBaseURL: strings.TrimRight(v.GetString("EMERGENCY_TRACKING_BASE_URL"), "/"),
			TTL:             time.Duration(v.GetInt("EMERGENCY_TTL")) * time.Second,
		},
		Events: EventsConfig{
			Backend: strings.ToLower(v.GetString("EVENTS_BACKEND")),
			NATSURL: v.GetString("NATS_URL"),
		},
		Worker: WorkerConfig{
			Enabled:           v.GetBool("WORKER_ENABLED"),
			ConsumerGroup:     v.GetString("WORKER_CONSUMER_GROUP"),
			StreamReadTimeout: time.Duration(v.GetInt("WORKER_STREAM_READ_TIMEOUT")) * time.Millisecond,
			MaxRetries:        v.GetInt("WORKER_MAX_RETRIES"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("METRICS_ENABLED"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8080)
	v.SetDefault("API_ENV", "development")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("GEOCODE_CACHE_TTL", 86400)

	v.SetDefault("DB_ENABLED", false)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 3600)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 600)

	v.SetDefault("TOMTOM_BASE_URL", "https://api.tomtom.com")
	v.SetDefault("ROUTE_TRAVEL_MODE", "pedestrian")
	v.SetDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org")
	v.SetDefault("PROVIDER_TIMEOUT", 10)

	v.SetDefault("HAZARD_MIN_RADIUS_KM", 1)
	v.SetDefault("HAZARD_MAX_RADIUS_KM", 80)
	v.SetDefault("HAZARD_DEFAULT_RADIUS_KM", 33)
	v.SetDefault("CRIME_ZONES_FILTER_BY_REGION", true)
	v.SetDefault("ROUTE_CORRIDOR_METERS", 200)
	v.SetDefault("CRIME_ZONE_SOURCE", CrimeZoneSourceStatic)

	v.SetDefault("REPORT_STORE", ReportStoreMemory)
	v.SetDefault("REPORT_MAX_ENTRIES", 10000)
	v.SetDefault("REPORT_TTL", 86400)

	v.SetDefault("MONITOR_POLL_INTERVAL", 8)
	v.SetDefault("MONITOR_PROXIMITY_METERS", 500)
	v.SetDefault("MONITOR_QUERY_RADIUS_KM", 1)
	v.SetDefault("TRIP_RETENTION", 600)
	v.SetDefault("MONITOR_MAX_NEW_INCIDENTS", 20)

	v.SetDefault("EMERGENCY_TRACKING_BASE_URL", "http://localhost:8080/emergency/status")
	v.SetDefault("EMERGENCY_TTL", 86400)

	v.SetDefault("EVENTS_BACKEND", EventsBackendNone)
	v.SetDefault("NATS_URL", "nats://localhost:4222")

	v.SetDefault("WORKER_CONSUMER_GROUP", "incident-report-workers")
	v.SetDefault("WORKER_STREAM_READ_TIMEOUT", 5000)
	v.SetDefault("WORKER_MAX_RETRIES", 3)

	v.SetDefault("METRICS_ENABLED", true)
}

// Validate rejects combinations the wiring cannot satisfy.
func (c *Config) Validate() error {
	if c.Hazards.MinRadiusKm <= 0 || c.Hazards.MaxRadiusKm < c.Hazards.MinRadiusKm {
		return fmt.Errorf("invalid hazard radius bounds: min=%v max=%v", c.Hazards.MinRadiusKm, c.Hazards.MaxRadiusKm)
	}

	switch c.Reports.Store {
	case ReportStoreMemory:
	case ReportStoreRedis:
		if !c.Redis.Enabled {
			return fmt.Errorf("REPORT_STORE=redis requires REDIS_ENABLED=true")
		}
	default:
		return fmt.Errorf("unknown REPORT_STORE %q", c.Reports.Store)
	}

	switch c.Hazards.CrimeZoneSource {
	case CrimeZoneSourceStatic:
	case CrimeZoneSourcePostgres:
		if !c.Database.Enabled {
			return fmt.Errorf("CRIME_ZONE_SOURCE=postgres requires DB_ENABLED=true")
		}
	default:
		return fmt.Errorf("unknown CRIME_ZONE_SOURCE %q", c.Hazards.CrimeZoneSource)
	}

	switch c.Events.Backend {
	case EventsBackendNone, EventsBackendNATS:
	case EventsBackendRedis:
		if !c.Redis.Enabled {
			return fmt.Errorf("EVENTS_BACKEND=redis requires REDIS_ENABLED=true")
		}
	default:
		return fmt.Errorf("unknown EVENTS_BACKEND %q", c.Events.Backend)
	}

	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// DSN is the key/value connection string accepted by pgx.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
