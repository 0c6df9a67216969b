package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spacesedan/commentflow/internal/analysis"
	"github.com/spacesedan/commentflow/internal/models"
)

const WATCH_URL_PREFIX = "https://www.youtube.com/watch?v="

var (
	ErrMissingVideoID  = errors.New("missing video id")
	ErrInvalidProvider = errors.New("invalid sentiment provider")
	ErrRunNotFound     = errors.New("run not found")
)

// RunStore keeps finished summaries for later lookup by run id.
type RunStore interface {
	SaveSummary(ctx context.Context, runID string, summary *models.VideoSummary) error
	GetSummary(ctx context.Context, runID string) (*models.VideoSummary, error)
}

type VideoLookup interface {
	GetVideo(ctx context.Context, videoID string) (models.VideoMetadata, error)
}

// ProviderFactory resolves a provider name to a provider for a single run.
type ProviderFactory func(name string) (analysis.SentimentProvider, error)

// Options configures a Service. Videos and Store are optional; a nil pointer
// passed for either is treated as unset.
type Options struct {
	Source          analysis.CommentSource
	Videos          VideoLookup
	Providers       ProviderFactory
	Store           RunStore
	DefaultProvider string
	// IsNotFound reports whether a RunStore error means the run is absent.
	IsNotFound func(error) bool
}

// Service wires a comment source, a provider chosen per request and an
// optional run store around the analysis engine.
type Service struct {
	source          analysis.CommentSource
	videos          VideoLookup
	providers       ProviderFactory
	store           RunStore
	defaultProvider string
	isNotFound      func(error) bool
	newID           func() string
	now             func() time.Time
}

func New(opts Options) *Service {
	s := &Service{
		source:          opts.Source,
		videos:          opts.Videos,
		providers:       opts.Providers,
		store:           opts.Store,
		defaultProvider: opts.DefaultProvider,
		isNotFound:      opts.IsNotFound,
		newID:           uuid.NewString,
		now:             time.Now,
	}
	if isNilValue(s.videos) {
		s.videos = nil
	}
	if isNilValue(s.store) {
		s.store = nil
	}
	if s.isNotFound == nil {
		s.isNotFound = func(error) bool { return false }
	}
	return s
}

func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Slice, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

type Request struct {
	RunID    string
	VideoID  string
	Provider string
	Config   analysis.RunConfig
}

type Outcome struct {
	RunID   string
	Summary *models.VideoSummary
	Video   *models.VideoMetadata
	URL     string
}

// Analyze runs the engine for one video. Video metadata is only looked up
// after a successful run, and a failed lookup or store write does not fail the
// run.
func (s *Service) Analyze(ctx context.Context, req Request) (Outcome, error) {
	videoID := ExtractVideoID(req.VideoID)
	if videoID == "" {
		return Outcome{}, ErrMissingVideoID
	}

	providerName := req.Provider
	if strings.TrimSpace(providerName) == "" {
		providerName = s.defaultProvider
	}
	provider, err := s.providers(providerName)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrInvalidProvider, err)
	}

	summary, err := analysis.NewEngine(s.source, provider).Run(ctx, videoID, req.Config)
	if err != nil {
		return Outcome{}, err
	}

	runID := req.RunID
	if runID == "" {
		runID = s.newID()
	}
	outcome := Outcome{
		RunID:   runID,
		Summary: summary,
		URL:     WATCH_URL_PREFIX + videoID,
	}

	if s.store != nil {
		if err := s.store.SaveSummary(ctx, runID, summary); err != nil {
			slog.Warn("[Service] Failed to store summary",
				slog.String("run_id", runID),
				slog.String("error", err.Error()))
		}
	}

	if s.videos != nil {
		video, err := s.videos.GetVideo(ctx, videoID)
		if err != nil {
			slog.Warn("[Service] Failed to load video metadata",
				slog.String("video_id", videoID),
				slog.String("error", err.Error()))
		} else {
			outcome.Video = &video
		}
	}

	return outcome, nil
}

// Process handles a queued request and always produces a result; failures are
// reported through the result's Status and Error.
func (s *Service) Process(ctx context.Context, req models.AnalysisRequest) models.AnalysisResult {
	result := models.AnalysisResult{
		RequestID: req.RequestID,
		VideoID:   req.VideoID,
	}

	outcome, err := s.Analyze(ctx, Request{
		RunID:    req.RequestID,
		VideoID:  req.VideoID,
		Provider: req.Provider,
		Config: analysis.RunConfig{
			LikeWeight:  req.LikeWeight,
			ReplyWeight: req.ReplyWeight,
			MaxComments: req.MaxComments,
		},
	})
	result.CompletedAt = s.now().UTC()
	if err != nil {
		result.Status = StatusFor(err)
		result.Error = err.Error()
		return result
	}

	result.Status = models.AnalysisStatusOK
	result.Summary = outcome.Summary
	if result.RequestID == "" {
		result.RequestID = outcome.RunID
	}
	return result
}

func (s *Service) GetRun(ctx context.Context, runID string) (*models.VideoSummary, error) {
	if s.store == nil {
		return nil, ErrRunNotFound
	}
	summary, err := s.store.GetSummary(ctx, runID)
	if err != nil {
		if s.isNotFound(err) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}
	return summary, nil
}

func (s *Service) GetVideo(ctx context.Context, videoID string) (models.VideoMetadata, error) {
	if s.videos == nil {
		return models.VideoMetadata{}, analysis.ErrVideoNotFound
	}
	return s.videos.GetVideo(ctx, ExtractVideoID(videoID))
}

// StatusFor maps an Analyze error to the status string reported to callers.
func StatusFor(err error) string {
	if kind, ok := analysis.RunErrorKindOf(err); ok {
		switch kind {
		case analysis.RunErrorInvalidID:
			return models.AnalysisStatusInvalidID
		case analysis.RunErrorCommentsDisabled:
			return models.AnalysisStatusCommentsDisabled
		}
	}
	return models.AnalysisStatusFailed
}
