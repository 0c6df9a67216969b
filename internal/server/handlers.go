package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spacesedan/commentflow/internal/analysis"
	"github.com/spacesedan/commentflow/internal/models"
	"github.com/spacesedan/commentflow/internal/service"
)

// analyzeForm mirrors the fields of the analysis form. Numbers stay strings so
// that an empty field can fall back to its default.
type analyzeForm struct {
	VideoID    string `form:"text" json:"text"`
	LikeInput  string `form:"likeInput" json:"likeInput"`
	ReplyInput string `form:"replyInput" json:"replyInput"`
	MaxInput   string `form:"maxInput" json:"maxInput"`
	Model      string `form:"model" json:"model"`
}

type analyzeResponse struct {
	RunID   string                `json:"run_id"`
	Summary *models.VideoSummary  `json:"summary"`
	Video   *models.VideoMetadata `json:"video,omitempty"`
	URL     string                `json:"url"`
}

func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

func (s *Server) handleAnalyze(c echo.Context) error {
	var form analyzeForm
	if err := c.Bind(&form); err != nil {
		return errorJSON(c, http.StatusBadRequest, "malformed request")
	}

	cfg, err := analysis.ParseRunConfig(form.LikeInput, form.ReplyInput, form.MaxInput)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}

	outcome, err := s.app.Analyze(c.Request().Context(), service.Request{
		VideoID:  form.VideoID,
		Provider: form.Model,
		Config:   cfg,
	})
	if err != nil {
		return analysisError(c, form.VideoID, err)
	}

	return c.JSON(http.StatusOK, analyzeResponse{
		RunID:   outcome.RunID,
		Summary: outcome.Summary,
		Video:   outcome.Video,
		URL:     outcome.URL,
	})
}

func (s *Server) handleEnqueue(c echo.Context) error {
	var form analyzeForm
	if err := c.Bind(&form); err != nil {
		return errorJSON(c, http.StatusBadRequest, "malformed request")
	}

	cfg, err := analysis.ParseRunConfig(form.LikeInput, form.ReplyInput, form.MaxInput)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}

	requestID, err := s.queue.Enqueue(c.Request().Context(), form.VideoID, form.Model, cfg)
	if err != nil {
		if errors.Is(err, service.ErrMissingVideoID) || errors.Is(err, analysis.ErrInvalidConfiguration) {
			return errorJSON(c, http.StatusBadRequest, err.Error())
		}
		return errorJSON(c, http.StatusServiceUnavailable, "failed to queue request")
	}

	return c.JSON(http.StatusAccepted, map[string]string{
		"request_id": requestID,
		"status_url": "/api/runs/" + requestID,
	})
}

func analysisError(c echo.Context, videoID string, err error) error {
	switch {
	case errors.Is(err, service.ErrMissingVideoID),
		errors.Is(err, service.ErrInvalidProvider),
		errors.Is(err, analysis.ErrInvalidConfiguration):
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}

	if kind, ok := analysis.RunErrorKindOf(err); ok {
		switch kind {
		case analysis.RunErrorInvalidID:
			return errorJSON(c, http.StatusNotFound, models.AnalysisStatusInvalidID)
		case analysis.RunErrorCommentsDisabled:
			return errorJSON(c, http.StatusForbidden, models.AnalysisStatusCommentsDisabled)
		default:
			slog.Warn("[Server] Comment fetch failed",
				slog.String("video_id", videoID),
				slog.String("error", err.Error()))
			return errorJSON(c, http.StatusBadGateway, "failed to fetch comments")
		}
	}

	slog.Error("[Server] Analysis failed",
		slog.String("video_id", videoID),
		slog.String("error", err.Error()))
	return errorJSON(c, http.StatusInternalServerError, "analysis failed")
}

func (s *Server) handleGetRun(c echo.Context) error {
	summary, err := s.app.GetRun(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrRunNotFound) {
			return errorJSON(c, http.StatusNotFound, "run not found")
		}
		slog.Error("[Server] Failed to load run",
			slog.String("run_id", c.Param("id")),
			slog.String("error", err.Error()))
		return errorJSON(c, http.StatusInternalServerError, "failed to load run")
	}
	return c.JSON(http.StatusOK, summary)
}

func (s *Server) handleGetVideo(c echo.Context) error {
	video, err := s.app.GetVideo(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, analysis.ErrVideoNotFound) {
			return errorJSON(c, http.StatusNotFound, models.AnalysisStatusInvalidID)
		}
		return errorJSON(c, http.StatusBadGateway, "failed to load video")
	}
	return c.JSON(http.StatusOK, video)
}

func (s *Server) handleHealth(c echo.Context) error {
	resp := map[string]any{"status": "ok"}
	if s.analyzerHealthy != nil {
		resp["analyzer_healthy"] = s.analyzerHealthy.Load()
	}
	return c.JSON(http.StatusOK, resp)
}
