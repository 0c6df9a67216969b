package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	s.echo.GET("/healthz", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	s.echo.POST("/analyze", s.handleAnalyze)
	s.echo.GET("/api/runs/:id", s.handleGetRun)
	s.echo.GET("/api/videos/:id", s.handleGetVideo)

	if s.queue != nil {
		s.echo.POST("/api/analyze/async", s.handleEnqueue)
	}
}
