package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Vishrutha-23/SafeWalk/internal/config"
	"github.com/Vishrutha-23/SafeWalk/internal/metrics"
	"github.com/Vishrutha-23/SafeWalk/internal/pkg/logger"
	"github.com/Vishrutha-23/SafeWalk/internal/repository/cache"
	redisRepo "github.com/Vishrutha-23/SafeWalk/internal/repository/redis"
	"github.com/Vishrutha-23/SafeWalk/internal/usecase"
	"github.com/Vishrutha-23/SafeWalk/internal/worker"
	"github.com/Vishrutha-23/SafeWalk/internal/worker/report"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	// A standalone ingester is only useful when the API reads the same store.
	if !cfg.Redis.Enabled || cfg.Reports.Store != config.ReportStoreRedis {
		log.Fatal("Standalone worker requires REDIS_ENABLED=true and REPORT_STORE=redis")
	}

	log.Info("Starting SafeWalk report ingest worker")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("max_retries", cfg.Worker.MaxRetries),
		zap.Duration("read_timeout", cfg.Worker.StreamReadTimeout))

	// 3. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 4. Initialize repositories
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log, cfg.Worker.StreamReadTimeout)
	reportRepo := redisRepo.NewReportRepository(redisClient.Client(), log, redisRepo.ReportRepositoryOptions{
		MaxEntries: cfg.Reports.MaxEntries,
		TTL:        cfg.Reports.TTL,
	})

	// 5. Initialize use cases
	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector()
	}
	reportUC := usecase.NewReportUseCase(reportRepo, time.Now, log, collector)

	// 6. Initialize workers
	ingestWorker := report.NewIngestWorker(
		streamRepo,
		reportUC,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.MaxRetries,
		log,
	)

	workerManager := worker.NewWorkerManager(log, worker.DefaultShutdownTimeout)
	workerManager.Register(ingestWorker)

	// 7. Start and wait for shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	cancel()

	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
