package api

import (
	"context"
	"net/http"
	"time"

	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	apimw "github.com/cinescout/cinescout/internal/api/middleware"
	"github.com/cinescout/cinescout/internal/config"
	"github.com/cinescout/cinescout/internal/discover"
	"github.com/cinescout/cinescout/internal/scheduler"
)

// Server handles HTTP requests for the CineScout API.
type Server struct {
	echo       *echo.Echo
	cfg        *config.Config
	logger     zerolog.Logger
	discover   *discover.Service
	scheduler  *scheduler.Scheduler
	instanceID string
	startedAt  time.Time
}

// NewServer wires the discovery service and scheduler into an Echo server.
// The scheduler may be nil when background refresh is disabled.
func NewServer(cfg *config.Config, svc *discover.Service, sched *scheduler.Scheduler, instanceID string, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:       e,
		cfg:        cfg,
		logger:     logger,
		discover:   svc,
		scheduler:  sched,
		instanceID: instanceID,
		startedAt:  time.Now(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.echo.Use(middleware.Recover())

	// Request ID
	s.echo.Use(middleware.RequestID())

	// Security headers
	s.echo.Use(apimw.SecurityHeaders())

	// CORS
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodDelete, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	// Request logging
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogMethod:   true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Err(v.Error).
					Msg("request error")
			} else {
				s.logger.Info().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Msg("request")
			}
			return nil
		},
	}))

	// Gzip compression
	s.echo.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
	}))

	// Crash reporting, only when a DSN is configured
	if s.cfg.Sentry.DSN != "" {
		s.echo.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	}
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", s.healthCheck)

	// API v1 group
	api := s.echo.Group("/api/v1")

	// System routes
	api.GET("/status", s.getStatus)

	// Movie discovery routes
	movieHandlers := discover.NewHandlers(s.discover)
	movieHandlers.RegisterRoutes(api.Group("/movies"))

	// Scheduled task routes
	api.GET("/tasks", s.listTasks)
	api.POST("/tasks/:id/run", s.runTask)
}

// Start begins listening for HTTP requests.
func (s *Server) Start(address string) error {
	s.logger.Info().Str("address", address).Msg("starting HTTP server")
	return s.echo.Start(address)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// --- Handler implementations ---

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"name":       "cinescout",
		"version":    config.Version,
		"instanceId": s.instanceID,
		"startedAt":  s.startedAt.Format(time.RFC3339),
		"upstream": map[string]interface{}{
			"name":       s.discover.SourceName(),
			"configured": s.discover.IsConfigured(),
		},
	})
}

func (s *Server) listTasks(c echo.Context) error {
	if s.scheduler == nil {
		return c.JSON(http.StatusOK, []scheduler.Info{})
	}
	return c.JSON(http.StatusOK, s.scheduler.Tasks())
}

func (s *Server) runTask(c echo.Context) error {
	if s.scheduler == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "scheduler is disabled"})
	}

	id := c.Param("id")
	if err := s.scheduler.RunNow(id); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusAccepted, map[string]string{
		"message": "Task started",
		"taskId":  id,
	})
}
