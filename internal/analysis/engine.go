package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spacesedan/commentflow/internal/metrics"
	"github.com/spacesedan/commentflow/internal/models"
)

// CommentSource yields pages of comment threads for a video. An empty
// pageToken asks for the first page. Errors for unknown videos and videos with
// comments turned off must match ErrVideoNotFound and ErrCommentsDisabled.
type CommentSource interface {
	FetchPage(ctx context.Context, videoID, pageToken string) (models.CommentPage, error)
}

// SentimentProvider scores a single text.
type SentimentProvider interface {
	Name() string
	Analyze(ctx context.Context, text string) (models.SentimentResult, error)
}

// Engine turns a stream of comment pages into a VideoSummary. It holds no
// per-run state, so one Engine can serve concurrent runs.
type Engine struct {
	source   CommentSource
	provider SentimentProvider
}

func NewEngine(source CommentSource, provider SentimentProvider) *Engine {
	return &Engine{
		source:   source,
		provider: provider,
	}
}

// Run analyzes the comments of videoID. A failure on the first page returns a
// *RunError and no summary. A failure on any later page returns the summary
// built so far, flagged as truncated.
func (e *Engine) Run(ctx context.Context, videoID string, cfg RunConfig) (*models.VideoSummary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	providerName := e.provider.Name()
	r := newRun(videoID, providerName, cfg)

	slog.Info("[Engine] Starting run",
		slog.String("video_id", videoID),
		slog.String("provider", providerName),
		slog.Float64("like_weight", cfg.LikeWeight),
		slog.Float64("reply_weight", cfg.ReplyWeight),
		slog.Int("max_comments", cfg.MaxComments))

	pageToken := ""
fetch:
	for {
		page, err := e.source.FetchPage(ctx, videoID, pageToken)
		if err != nil {
			if r.summary.PagesFetched == 0 {
				runErr := newRunError(videoID, err)
				slog.Warn("[Engine] First page fetch failed",
					slog.String("video_id", videoID),
					slog.String("kind", string(runErr.Kind)),
					slog.String("error", err.Error()))
				metrics.RunsTotal.WithLabelValues(string(runErr.Kind)).Inc()
				return nil, runErr
			}

			slog.Warn("[Engine] Page fetch failed mid-run, returning partial summary",
				slog.String("video_id", videoID),
				slog.Int("pages_fetched", r.summary.PagesFetched),
				slog.Int("processed", r.processed()),
				slog.String("error", err.Error()))
			r.truncate(fmt.Errorf("fetch page %d: %w", r.summary.PagesFetched+1, err))
			break
		}
		r.summary.PagesFetched++

		for _, item := range page.Items {
			r.add(e.processComment(ctx, r.nextIndex(), item, cfg))
			if r.capReached(cfg) {
				break fetch
			}
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	summary := r.finalize()

	outcome := "ok"
	if summary.Truncated {
		outcome = "truncated"
	}
	metrics.RunsTotal.WithLabelValues(outcome).Inc()
	metrics.RunDuration.WithLabelValues(providerName).Observe(time.Since(start).Seconds())
	metrics.CommentsProcessed.WithLabelValues(providerName).Add(float64(len(summary.Comments)))

	slog.Info("[Engine] Run complete",
		slog.String("video_id", videoID),
		slog.Int("comments", len(summary.Comments)),
		slog.Int("pages", summary.PagesFetched),
		slog.String("overall_label", string(summary.OverallLabel)),
		slog.Bool("truncated", summary.Truncated),
		slog.Duration("elapsed", time.Since(start)))

	return summary, nil
}

// processComment scores a comment and its replies and folds the weighted
// replies into the comment's weighted score.
func (e *Engine) processComment(ctx context.Context, index int, item models.RawComment, cfg RunConfig) models.CommentRecord {
	sentiment := e.analyze(ctx, item.Text)

	record := models.CommentRecord{
		Index:           index,
		Text:            item.Text,
		Author:          item.Author,
		LikeCount:       item.LikeCount,
		TotalReplyCount: item.TotalReplyCount,
		SentimentLabel:  sentiment.Label,
		SentimentScore:  sentiment.Score,
		Replies:         make([]models.ReplyRecord, 0, len(item.Replies)),
	}

	weighted := WeighComment(sentiment.Score, item.LikeCount, cfg)

	for i, reply := range item.Replies {
		replySentiment := e.analyze(ctx, reply.Text)
		replyWeighted := WeighReply(replySentiment.Score, reply.LikeCount, cfg)
		weighted = FoldReply(weighted, sentiment.Score, replyWeighted, cfg)

		switch {
		case replySentiment.Score > 0:
			record.ReplyPositive++
		case replySentiment.Score < 0:
			record.ReplyNegative++
		default:
			record.ReplyNeutral++
		}

		record.Replies = append(record.Replies, models.ReplyRecord{
			Index:          i + 1,
			Text:           reply.Text,
			Author:         reply.Author,
			LikeCount:      reply.LikeCount,
			SentimentLabel: replySentiment.Label,
			SentimentScore: replySentiment.Score,
			WeightedScore:  replyWeighted,
		})
	}

	record.WeightedScore = weighted
	return record
}

// analyze calls the provider and never fails: errors and panics both become a
// neutral zero result.
func (e *Engine) analyze(ctx context.Context, text string) (result models.SentimentResult) {
	name := e.provider.Name()
	metrics.ProviderCalls.WithLabelValues(name).Inc()

	defer func() {
		if rec := recover(); rec != nil {
			slog.Warn("[Engine] Sentiment provider panicked, using neutral result",
				slog.String("provider", name),
				slog.Any("panic", rec))
			metrics.ProviderFailures.WithLabelValues(name).Inc()
			result = models.NeutralResult()
		}
	}()

	res, err := e.provider.Analyze(ctx, text)
	if err != nil {
		slog.Warn("[Engine] Sentiment provider failed, using neutral result",
			slog.String("provider", name),
			slog.String("error", err.Error()))
		metrics.ProviderFailures.WithLabelValues(name).Inc()
		return models.NeutralResult()
	}
	return res
}
