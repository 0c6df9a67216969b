package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spacesedan/commentflow/internal/analysis"
	"github.com/spacesedan/commentflow/internal/models"
	"github.com/spacesedan/commentflow/internal/service"
)

// AnalysisService is what the HTTP layer needs from the service package.
type AnalysisService interface {
	Analyze(ctx context.Context, req service.Request) (service.Outcome, error)
	GetRun(ctx context.Context, runID string) (*models.VideoSummary, error)
	GetVideo(ctx context.Context, videoID string) (models.VideoMetadata, error)
}

// RequestQueue hands analysis requests to the worker.
type RequestQueue interface {
	Enqueue(ctx context.Context, videoID, provider string, cfg analysis.RunConfig) (string, error)
}

type Server struct {
	echo            *echo.Echo
	port            string
	app             AnalysisService
	queue           RequestQueue
	analyzerHealthy *atomic.Bool
}

type Option func(*Server)

// WithQueue enables POST /api/analyze/async.
func WithQueue(q RequestQueue) Option {
	return func(s *Server) { s.queue = q }
}

// NewServer builds the echo instance and registers routes. analyzerHealthy may
// be nil when no remote analyzer is monitored.
func NewServer(port string, app AnalysisService, analyzerHealthy *atomic.Bool, opts ...Option) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			slog.Info("[Server] Request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID))
			return nil
		},
	}))

	srv := &Server{
		echo:            e,
		port:            port,
		app:             app,
		analyzerHealthy: analyzerHealthy,
	}
	for _, opt := range opts {
		opt(srv)
	}
	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("[Server] Starting server", slog.String("port", s.port))
	return s.echo.Start(fmt.Sprintf(":%s", s.port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
