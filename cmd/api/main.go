package main

// @title SafeWalk API
// @version 1.0.0
// @description Safety-aware pedestrian routing. Compares the fastest and the safest route,
// @description aggregates live hazards (traffic incidents, user reports, crime zones),
// @description scores locations and monitors trips in progress.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/Vishrutha-23/SafeWalk/docs"
	"github.com/Vishrutha-23/SafeWalk/internal/config"
	httpDelivery "github.com/Vishrutha-23/SafeWalk/internal/delivery/http"
	"github.com/Vishrutha-23/SafeWalk/internal/delivery/http/handler"
	"github.com/Vishrutha-23/SafeWalk/internal/domain/repository"
	"github.com/Vishrutha-23/SafeWalk/internal/infrastructure/natspub"
	"github.com/Vishrutha-23/SafeWalk/internal/infrastructure/openweather"
	"github.com/Vishrutha-23/SafeWalk/internal/infrastructure/tomtom"
	"github.com/Vishrutha-23/SafeWalk/internal/metrics"
	"github.com/Vishrutha-23/SafeWalk/internal/pkg/logger"
	"github.com/Vishrutha-23/SafeWalk/internal/repository/cache"
	"github.com/Vishrutha-23/SafeWalk/internal/repository/memory"
	"github.com/Vishrutha-23/SafeWalk/internal/repository/postgres"
	redisRepo "github.com/Vishrutha-23/SafeWalk/internal/repository/redis"
	"github.com/Vishrutha-23/SafeWalk/internal/usecase"
	"github.com/Vishrutha-23/SafeWalk/internal/worker"
	"github.com/Vishrutha-23/SafeWalk/internal/worker/maintenance"
	"github.com/Vishrutha-23/SafeWalk/internal/worker/report"
)

const sweepInterval = time.Minute

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting SafeWalk API")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("report_store", cfg.Reports.Store),
		zap.String("crime_zone_source", cfg.Hazards.CrimeZoneSource),
		zap.String("events_backend", cfg.Events.Backend),
	)

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector()
	}

	checks := make(map[string]httpDelivery.HealthCheck)

	// 3. Connect to Redis (optional)
	var redisClient *cache.Redis
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(&cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		checks["redis"] = redisClient.Health
		log.Info("Redis connected")
	}

	// 4. Connect to PostgreSQL (optional)
	var db *postgres.DB
	if cfg.Database.Enabled {
		db, err = postgres.New(&cfg.Database, log)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
		}
		checks["postgres"] = db.Health
		log.Info("PostgreSQL connected")
	}

	// 5. Initialize repositories
	crimeZoneRepo, err := newCrimeZoneRepository(cfg, db, log)
	if err != nil {
		log.Fatal("Failed to load crime zones", zap.Error(err))
	}

	var (
		reportRepo repository.ReportRepository
		cacheRepo  repository.CacheRepository
		streamRepo repository.StreamRepository
	)
	if redisClient != nil {
		cacheRepo = cache.NewCacheRepository(redisClient)
		streamRepo = redisRepo.NewStreamRepository(redisClient.Client(), log, cfg.Worker.StreamReadTimeout)
	}
	switch cfg.Reports.Store {
	case config.ReportStoreRedis:
		reportRepo = redisRepo.NewReportRepository(redisClient.Client(), log, redisRepo.ReportRepositoryOptions{
			MaxEntries: cfg.Reports.MaxEntries,
			TTL:        cfg.Reports.TTL,
		})
	default:
		reportRepo = memory.NewReportRepository(cfg.Reports.MaxEntries, cfg.Reports.TTL, time.Now)
	}
	emergencyRepo := memory.NewEmergencyRepository()

	publisher, err := newEventPublisher(cfg, streamRepo, log, collector)
	if err != nil {
		log.Fatal("Failed to initialize event publisher", zap.Error(err))
	}

	log.Info("Repositories initialized")

	// 6. Initialize providers
	tomtomClient := tomtom.NewClient(&cfg.Providers, log, collector)
	weatherClient := openweather.NewClient(&cfg.Providers, log, collector)
	if !weatherClient.Configured() {
		log.Warn("OPENWEATHER_API_KEY not set, scores will omit weather")
	}

	// 7. Initialize use cases
	hazardsUC := usecase.NewHazardAggregator(
		tomtomClient,
		reportRepo,
		crimeZoneRepo,
		usecase.HazardAggregatorConfig{
			MinRadiusKm:         cfg.Hazards.MinRadiusKm,
			MaxRadiusKm:         cfg.Hazards.MaxRadiusKm,
			FilterCrimeByRegion: cfg.Hazards.FilterCrimeByRegion,
		},
		log,
		collector,
	)
	routeUC := usecase.NewRouteEvaluator(tomtomClient, hazardsUC, weatherClient, cfg.Hazards.RouteCorridorMeters, time.Now, log, collector)
	safetyUC := usecase.NewSafetyUseCase(hazardsUC, weatherClient, cfg.Monitor.QueryRadiusKm, time.Now, log)
	weatherUC := usecase.NewWeatherUseCase(weatherClient, log)
	geocodeUC := usecase.NewGeocodeUseCase(tomtomClient, cacheRepo, cfg.Cache.GeocodeCacheTTL, log)
	reportUC := usecase.NewReportUseCase(reportRepo, time.Now, log, collector)
	emergencyUC := usecase.NewEmergencyUseCase(emergencyRepo, cfg.Emergency.TrackingBaseURL, cfg.Emergency.TTL, time.Now, log, collector)
	tripUC := usecase.NewTripUseCase(
		safetyUC,
		routeUC,
		publisher,
		usecase.TripConfig{
			PollInterval:    cfg.Monitor.PollInterval,
			ProximityMeters: cfg.Monitor.ProximityMeters,
			QueryRadiusKm:   cfg.Monitor.QueryRadiusKm,
			Retention:       cfg.Monitor.TripRetention,
			MaxNewIncidents: cfg.Monitor.MaxNewIncidents,
		},
		time.Now,
		log,
		collector,
	)

	log.Info("Use cases initialized")

	// 8. Background workers
	workerManager := worker.NewWorkerManager(log, worker.DefaultShutdownTimeout)
	workerManager.Register(maintenance.NewSweeper(sweepInterval, log,
		maintenance.Task{Name: "trips", Run: func(context.Context) int { return tripUC.EvictStopped() }},
		maintenance.Task{Name: "emergency", Run: emergencyUC.EvictExpired},
	))
	if cfg.Worker.Enabled && streamRepo != nil {
		workerManager.Register(report.NewIngestWorker(streamRepo, reportUC, cfg.Worker.ConsumerGroup, cfg.Worker.MaxRetries, log))
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	if err := workerManager.Start(workerCtx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// 9. Initialize HTTP handlers
	handlers := httpDelivery.Handlers{
		Route:     handler.NewRouteHandler(routeUC, geocodeUC, log),
		Incident:  handler.NewIncidentHandler(hazardsUC, reportUC, cfg.Hazards.DefaultRadiusKm, log),
		Safety:    handler.NewSafetyHandler(weatherUC, safetyUC, log),
		Emergency: handler.NewEmergencyHandler(emergencyUC, log),
		Trip:      handler.NewTripHandler(tripUC, log),
		Geocode:   handler.NewGeocodeHandler(geocodeUC, log),
	}

	log.Info("HTTP handlers initialized")

	// 10. Initialize HTTP server
	server := httpDelivery.NewServer(cfg, log, collector, checks, handlers)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 11. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	stopWorkers()
	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	tripUC.Shutdown(ctx)

	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.Error("Failed to close event publisher", zap.Error(err))
		}
	}
	if db != nil {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL", zap.Error(err))
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis", zap.Error(err))
		}
	}

	log.Info("Server stopped successfully")
}

// newCrimeZoneRepository serves the configured catalog. With the postgres
// source the catalog file seeds the table on start-up.
func newCrimeZoneRepository(cfg *config.Config, db *postgres.DB, log *zap.Logger) (repository.CrimeZoneRepository, error) {
	catalog, err := memory.LoadCrimeZoneRepository(cfg.Hazards.CrimeZonesFile)
	if err != nil {
		return nil, err
	}
	if cfg.Hazards.CrimeZoneSource != config.CrimeZoneSourcePostgres {
		return catalog, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Migrate(ctx); err != nil {
		return nil, err
	}
	zones, err := catalog.All(ctx)
	if err != nil {
		return nil, err
	}
	if err := db.UpsertCrimeZones(ctx, zones); err != nil {
		return nil, err
	}
	log.Info("Crime zones seeded", zap.Int("count", len(zones)))

	return postgres.NewCrimeZoneRepository(db, log), nil
}

func newEventPublisher(
	cfg *config.Config,
	streamRepo repository.StreamRepository,
	log *zap.Logger,
	collector *metrics.Collector,
) (repository.EventPublisher, error) {
	switch cfg.Events.Backend {
	case config.EventsBackendRedis:
		return redisRepo.NewEventPublisher(streamRepo, log, collector), nil
	case config.EventsBackendNATS:
		p, err := natspub.NewPublisher(cfg.Events.NATSURL, log, collector)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, nil
	}
}
