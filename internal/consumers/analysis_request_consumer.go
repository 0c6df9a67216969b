package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/commentflow/internal/clients/kafka_client"
	"github.com/spacesedan/commentflow/internal/db"
	"github.com/spacesedan/commentflow/internal/metrics"
	"github.com/spacesedan/commentflow/internal/models"
	"github.com/spacesedan/commentflow/internal/utils"
)

const (
	publishAttempts = 3
	publishBackoff  = 2 * time.Second
)

type MessageSource interface {
	Next() (*kafka.Message, error)
}

type Committer interface {
	Commit(msg *kafka.Message) error
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

type Processor interface {
	Process(ctx context.Context, req models.AnalysisRequest) models.AnalysisResult
}

type Archiver interface {
	BatchArchiveSummaries(ctx context.Context, summaries []models.ArchivedSummary) error
}

type AnalysisRequestConsumerConfig struct {
	Source        MessageSource
	Committer     Committer
	Publisher     Publisher
	Processor     Processor
	Archiver      Archiver
	ResultTopic   string
	BatchSize     int
	FlushInterval time.Duration
}

// AnalysisRequestConsumer runs one analysis per request message, publishes the
// result and commits the offset. Successful summaries are buffered and written
// to the archive in batches.
type AnalysisRequestConsumer struct {
	source        MessageSource
	committer     Committer
	publisher     Publisher
	processor     Processor
	archiver      Archiver
	resultTopic   string
	flushInterval time.Duration
	retryBackoff  time.Duration
	archiveBuffer *utils.BatchBuffer[models.ArchivedSummary]
	lastFlush     time.Time
	now           func() time.Time
}

func NewAnalysisRequestConsumer(cfg AnalysisRequestConsumerConfig) *AnalysisRequestConsumer {
	topic := cfg.ResultTopic
	if topic == "" {
		topic = kafka_client.KAFKA_TOPIC_ANALYSIS_RESULTS
	}
	interval := cfg.FlushInterval
	if interval == 0 {
		interval = kafka_client.BATCH_TIMEOUT
	}
	return &AnalysisRequestConsumer{
		source:        cfg.Source,
		committer:     cfg.Committer,
		publisher:     cfg.Publisher,
		processor:     cfg.Processor,
		archiver:      cfg.Archiver,
		resultTopic:   topic,
		flushInterval: interval,
		retryBackoff:  publishBackoff,
		archiveBuffer: utils.NewBatchBuffer[models.ArchivedSummary](cfg.BatchSize),
		lastFlush:     time.Now(),
		now:           time.Now,
	}
}

// Run consumes until ctx is cancelled or the source fails for good. Buffered
// summaries are flushed before returning.
func (c *AnalysisRequestConsumer) Run(ctx context.Context) error {
	slog.Info("[AnalysisRequestConsumer] Starting consumer",
		slog.String("result_topic", c.resultTopic))
	defer c.flushArchive(context.WithoutCancel(ctx))

	for {
		select {
		case <-ctx.Done():
			slog.Warn("[AnalysisRequestConsumer] Consumer shutting down...")
			return nil
		default:
		}

		msg, err := c.source.Next()
		if err != nil {
			switch {
			case errors.Is(err, kafka_client.ErrNoMessage):
				if c.now().Sub(c.lastFlush) >= c.flushInterval {
					c.flushArchive(ctx)
				}
				continue
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				return nil
			default:
				slog.Error("[AnalysisRequestConsumer] Message source failed",
					slog.String("error", err.Error()))
				return err
			}
		}

		c.HandleMessage(ctx, msg)
	}
}

// HandleMessage processes one request message end to end.
func (c *AnalysisRequestConsumer) HandleMessage(ctx context.Context, msg *kafka.Message) {
	var req models.AnalysisRequest
	if err := json.Unmarshal(msg.Value, &req); err != nil {
		slog.Error("[AnalysisRequestConsumer] Dropping undecodable message",
			slog.String("key", string(msg.Key)),
			slog.String("error", err.Error()))
		metrics.WorkerMessages.WithLabelValues("undecodable").Inc()
		c.commit(msg)
		return
	}
	if req.RequestID == "" {
		req.RequestID = string(msg.Key)
	}

	slog.Info("[AnalysisRequestConsumer] Processing request",
		slog.String("request_id", req.RequestID),
		slog.String("video_id", req.VideoID),
		slog.String("provider", req.Provider))

	result := c.processor.Process(ctx, req)
	metrics.WorkerMessages.WithLabelValues(result.Status).Inc()

	if err := c.publish(ctx, result); err != nil {
		slog.Error("[AnalysisRequestConsumer] Failed to publish result, leaving offset uncommitted",
			slog.String("request_id", result.RequestID),
			slog.String("error", err.Error()))
		return
	}

	if result.Status == models.AnalysisStatusOK && result.Summary != nil {
		archived := db.NewArchivedSummary(result.RequestID, result.Summary, result.CompletedAt)
		if full := c.archiveBuffer.Add(archived); full {
			c.flushArchive(ctx)
		}
	}

	c.commit(msg)
}

func (c *AnalysisRequestConsumer) publish(ctx context.Context, result models.AnalysisResult) error {
	var err error
	for i := 0; i < publishAttempts; i++ {
		err = c.publisher.Publish(ctx, c.resultTopic, result.RequestID, result)
		if err == nil {
			return nil
		}
		slog.Warn("[AnalysisRequestConsumer] Result publishing failed",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retryBackoff):
		}
	}
	return err
}

func (c *AnalysisRequestConsumer) commit(msg *kafka.Message) {
	if err := c.committer.Commit(msg); err != nil {
		slog.Warn("[AnalysisRequestConsumer] Failed to commit offset",
			slog.String("error", err.Error()))
	}
}

func (c *AnalysisRequestConsumer) flushArchive(ctx context.Context) {
	c.lastFlush = c.now()
	batch := c.archiveBuffer.GetAndClear()
	if len(batch) == 0 || c.archiver == nil {
		return
	}

	slog.Info("[AnalysisRequestConsumer] Archiving summaries",
		slog.Int("batch_size", len(batch)))
	if err := c.archiver.BatchArchiveSummaries(ctx, batch); err != nil {
		slog.Error("[AnalysisRequestConsumer] Failed to archive summaries, requeueing",
			slog.Int("batch_size", len(batch)),
			slog.String("error", err.Error()))
		c.archiveBuffer.Requeue(batch)
	}
}
