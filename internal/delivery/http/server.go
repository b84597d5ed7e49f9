package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/Vishrutha-23/SafeWalk/internal/config"
	"github.com/Vishrutha-23/SafeWalk/internal/delivery/http/handler"
	"github.com/Vishrutha-23/SafeWalk/internal/delivery/http/middleware"
	"github.com/Vishrutha-23/SafeWalk/internal/metrics"
	"github.com/Vishrutha-23/SafeWalk/internal/pkg/errors"
	"github.com/Vishrutha-23/SafeWalk/internal/pkg/utils"
	"github.com/Vishrutha-23/SafeWalk/internal/usecase/dto"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Handlers - all HTTP handlers mounted by the server
type Handlers struct {
	Route     *handler.RouteHandler
	Incident  *handler.IncidentHandler
	Safety    *handler.SafetyHandler
	Emergency *handler.EmergencyHandler
	Trip      *handler.TripHandler
	Geocode   *handler.GeocodeHandler
}

// Server - HTTP сервер на основе Fiber
type Server struct {
	app     *fiber.App
	config  *config.Config
	logger  *zap.Logger
	metrics *metrics.Collector
	checks  map[string]HealthCheck

	handlers Handlers
}

// NewServer builds the fiber app with middleware and routes. collector may
// be nil when metrics are disabled.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	collector *metrics.Collector,
	checks map[string]HealthCheck,
	handlers Handlers,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "SafeWalk",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:      app,
		config:   cfg,
		logger:   logger,
		metrics:  collector,
		checks:   checks,
		handlers: handlers,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.Server.CORSAllowOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)
	s.app.Get("/health", s.health)
	if s.metrics != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(s.metrics.Handler()))
	}

	h := s.handlers

	s.app.Post("/route", h.Route.CompareRoutes)
	s.app.Get("/geocode", h.Geocode.Geocode)

	s.app.Get("/incidents", h.Incident.GetIncidents)
	s.app.Post("/incidents/report", h.Incident.ReportIncident)

	s.app.Get("/weather", h.Safety.GetWeather)
	s.app.Get("/safety-score", h.Safety.GetSafetyScore)

	emergency := s.app.Group("/emergency")
	emergency.Post("/start", h.Emergency.Start)
	emergency.Post("/ack/:id", h.Emergency.Acknowledge)
	emergency.Get("/status/:id", h.Emergency.Status)

	trips := s.app.Group("/trips")
	trips.Post("/", h.Trip.StartTrip)
	trips.Get("/:id", h.Trip.GetTrip)
	trips.Delete("/:id", h.Trip.StopTrip)
	trips.Post("/:id/position", h.Trip.UpdatePosition)
	trips.Post("/:id/dismiss", h.Trip.Dismiss)
	trips.Post("/:id/reroute", h.Trip.Reroute)

	s.app.Use(func(c *fiber.Ctx) error {
		return utils.SendError(c, errors.ErrNotFound.WithMessage("Route "+c.Method()+" "+c.Path()+" not found"))
	})
}

// health godoc
// @Summary Health check
// @Tags System
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (s *Server) health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	resp := dto.HealthResponse{Status: "healthy", Services: make(map[string]string, len(s.checks))}
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			s.logger.Warn("Health check failed", zap.String("service", name), zap.Error(err))
			resp.Services[name] = "unhealthy"
			resp.Status = "degraded"
			continue
		}
		resp.Services[name] = "healthy"
	}

	if resp.Status != "healthy" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - кастомный обработчик ошибок
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		errCode := errors.CodeInternalServer

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			if code < fiber.StatusInternalServerError {
				errCode = errors.CodeInvalidRequest
			}
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(utils.ErrorResponse{
			Error: errors.New(errCode, err.Error(), code),
		})
	}
}
