package producer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/spacesedan/commentflow/internal/analysis"
	"github.com/spacesedan/commentflow/internal/models"
	"github.com/spacesedan/commentflow/internal/service"
)

type Publisher interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

// RequestProducer queues analysis requests for the worker. Results are
// published by the worker and stored under the returned request id.
type RequestProducer struct {
	publisher Publisher
	topic     string
	newID     func() string
}

func NewRequestProducer(publisher Publisher, topic string) *RequestProducer {
	return &RequestProducer{
		publisher: publisher,
		topic:     topic,
		newID:     uuid.NewString,
	}
}

// Enqueue validates the request up front so that obviously bad input never
// reaches the queue.
func (p *RequestProducer) Enqueue(ctx context.Context, videoID, provider string, cfg analysis.RunConfig) (string, error) {
	id := service.ExtractVideoID(videoID)
	if id == "" {
		return "", service.ErrMissingVideoID
	}
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	req := models.AnalysisRequest{
		RequestID:   p.newID(),
		VideoID:     id,
		LikeWeight:  cfg.LikeWeight,
		ReplyWeight: cfg.ReplyWeight,
		MaxComments: cfg.MaxComments,
		Provider:    strings.ToLower(strings.TrimSpace(provider)),
	}

	if err := p.publisher.Publish(ctx, p.topic, req.RequestID, req); err != nil {
		slog.Warn("[RequestProducer] Failed to publish analysis request",
			slog.String("video_id", id),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("enqueue analysis request: %w", err)
	}

	slog.Info("[RequestProducer] Queued analysis request",
		slog.String("request_id", req.RequestID),
		slog.String("video_id", id))
	return req.RequestID, nil
}
