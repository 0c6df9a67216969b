package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/commentflow/internal/clients/kafka_client"
	"github.com/spacesedan/commentflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedSource struct {
	msgs   []*kafka.Message
	cancel context.CancelFunc
}

func (s *scriptedSource) Next() (*kafka.Message, error) {
	if len(s.msgs) == 0 {
		s.cancel()
		return nil, context.Canceled
	}
	msg := s.msgs[0]
	s.msgs = s.msgs[1:]
	if msg == nil {
		return nil, kafka_client.ErrNoMessage
	}
	return msg, nil
}

type recordingCommitter struct {
	committed []*kafka.Message
}

func (r *recordingCommitter) Commit(msg *kafka.Message) error {
	r.committed = append(r.committed, msg)
	return nil
}

type recordingPublisher struct {
	failures  int
	published []models.AnalysisResult
	topics    []string
}

func (r *recordingPublisher) Publish(_ context.Context, topic, _ string, value any) error {
	if r.failures > 0 {
		r.failures--
		return errors.New("broker unavailable")
	}
	r.topics = append(r.topics, topic)
	r.published = append(r.published, value.(models.AnalysisResult))
	return nil
}

type stubProcessor struct {
	requests []models.AnalysisRequest
}

func (s *stubProcessor) Process(_ context.Context, req models.AnalysisRequest) models.AnalysisResult {
	s.requests = append(s.requests, req)
	if req.VideoID == "missing" {
		return models.AnalysisResult{RequestID: req.RequestID, VideoID: req.VideoID, Status: models.AnalysisStatusInvalidID, Error: "not found"}
	}
	return models.AnalysisResult{
		RequestID:   req.RequestID,
		VideoID:     req.VideoID,
		Status:      models.AnalysisStatusOK,
		Summary:     &models.VideoSummary{VideoID: req.VideoID, Provider: "vader", OverallLabel: models.LabelPositive},
		CompletedAt: time.Unix(1700000000, 0),
	}
}

type recordingArchiver struct {
	fail    int
	batches [][]models.ArchivedSummary
}

func (r *recordingArchiver) BatchArchiveSummaries(_ context.Context, s []models.ArchivedSummary) error {
	if r.fail > 0 {
		r.fail--
		return errors.New("throttled")
	}
	r.batches = append(r.batches, s)
	return nil
}

func requestMessage(t *testing.T, req models.AnalysisRequest) *kafka.Message {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	topic := kafka_client.KAFKA_TOPIC_ANALYSIS_REQUESTS
	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: 0},
		Key:            []byte(req.RequestID),
		Value:          body,
	}
}

type harness struct {
	consumer  *AnalysisRequestConsumer
	committer *recordingCommitter
	publisher *recordingPublisher
	processor *stubProcessor
	archiver  *recordingArchiver
}

func newHarness(src MessageSource, batchSize int) *harness {
	h := &harness{
		committer: &recordingCommitter{},
		publisher: &recordingPublisher{},
		processor: &stubProcessor{},
		archiver:  &recordingArchiver{},
	}
	h.consumer = NewAnalysisRequestConsumer(AnalysisRequestConsumerConfig{
		Source:    src,
		Committer: h.committer,
		Publisher: h.publisher,
		Processor: h.processor,
		Archiver:  h.archiver,
		BatchSize: batchSize,
	})
	h.consumer.retryBackoff = time.Millisecond
	return h
}

func TestHandleMessage_PublishesThenCommits(t *testing.T) {
	h := newHarness(nil, 10)
	msg := requestMessage(t, models.AnalysisRequest{RequestID: "r1", VideoID: "abc", Provider: "vader"})

	h.consumer.HandleMessage(context.Background(), msg)

	require.Len(t, h.publisher.published, 1)
	assert.Equal(t, kafka_client.KAFKA_TOPIC_ANALYSIS_RESULTS, h.publisher.topics[0])
	assert.Equal(t, models.AnalysisStatusOK, h.publisher.published[0].Status)
	assert.Equal(t, []*kafka.Message{msg}, h.committer.committed)
	assert.Equal(t, 1, h.consumer.archiveBuffer.Size())
}

func TestHandleMessage_RequestIDFromKey(t *testing.T) {
	h := newHarness(nil, 10)
	msg := requestMessage(t, models.AnalysisRequest{VideoID: "abc"})
	msg.Key = []byte("from-key")

	h.consumer.HandleMessage(context.Background(), msg)

	require.Len(t, h.processor.requests, 1)
	assert.Equal(t, "from-key", h.processor.requests[0].RequestID)
}

func TestHandleMessage_FailedRunIsPublishedNotArchived(t *testing.T) {
	h := newHarness(nil, 10)

	h.consumer.HandleMessage(context.Background(), requestMessage(t, models.AnalysisRequest{RequestID: "r2", VideoID: "missing"}))

	require.Len(t, h.publisher.published, 1)
	assert.Equal(t, models.AnalysisStatusInvalidID, h.publisher.published[0].Status)
	assert.Len(t, h.committer.committed, 1)
	assert.Zero(t, h.consumer.archiveBuffer.Size())
}

func TestHandleMessage_BadJSONIsCommitted(t *testing.T) {
	h := newHarness(nil, 10)

	h.consumer.HandleMessage(context.Background(), &kafka.Message{Value: []byte("{not json")})

	assert.Empty(t, h.processor.requests)
	assert.Empty(t, h.publisher.published)
	assert.Len(t, h.committer.committed, 1)
}

func TestHandleMessage_PublishRetries(t *testing.T) {
	h := newHarness(nil, 10)
	h.publisher.failures = 2

	h.consumer.HandleMessage(context.Background(), requestMessage(t, models.AnalysisRequest{RequestID: "r3", VideoID: "abc"}))

	assert.Len(t, h.publisher.published, 1)
	assert.Len(t, h.committer.committed, 1)
}

func TestHandleMessage_PublishFailureSkipsCommit(t *testing.T) {
	h := newHarness(nil, 10)
	h.publisher.failures = publishAttempts

	h.consumer.HandleMessage(context.Background(), requestMessage(t, models.AnalysisRequest{RequestID: "r4", VideoID: "abc"}))

	assert.Empty(t, h.committer.committed)
	assert.Zero(t, h.consumer.archiveBuffer.Size())
}

func TestHandleMessage_FlushesWhenBatchFull(t *testing.T) {
	h := newHarness(nil, 2)

	h.consumer.HandleMessage(context.Background(), requestMessage(t, models.AnalysisRequest{RequestID: "a", VideoID: "v1"}))
	assert.Empty(t, h.archiver.batches)
	h.consumer.HandleMessage(context.Background(), requestMessage(t, models.AnalysisRequest{RequestID: "b", VideoID: "v2"}))

	require.Len(t, h.archiver.batches, 1)
	batch := h.archiver.batches[0]
	require.Len(t, batch, 2)
	assert.Equal(t, "a", batch[0].RunID)
	assert.Equal(t, "v2", batch[1].VideoID)
	assert.Equal(t, int64(1700000000), batch[0].CreatedAt)
}

func TestRun_FlushesOnShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := &scriptedSource{cancel: cancel}
	h := newHarness(src, 10)
	src.msgs = []*kafka.Message{
		requestMessage(t, models.AnalysisRequest{RequestID: "r1", VideoID: "abc"}),
		nil,
		requestMessage(t, models.AnalysisRequest{RequestID: "r2", VideoID: "def"}),
	}

	require.NoError(t, h.consumer.Run(ctx))

	assert.Len(t, h.publisher.published, 2)
	assert.Len(t, h.committer.committed, 2)
	require.Len(t, h.archiver.batches, 1)
	assert.Len(t, h.archiver.batches[0], 2)
}

func TestRun_FlushesAfterInterval(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := &scriptedSource{cancel: cancel}
	h := newHarness(src, 10)
	clock := time.Unix(0, 0)
	h.consumer.now = func() time.Time { return clock }
	h.consumer.lastFlush = clock

	src.msgs = []*kafka.Message{
		requestMessage(t, models.AnalysisRequest{RequestID: "r1", VideoID: "abc"}),
	}
	h.consumer.HandleMessage(ctx, src.msgs[0])
	src.msgs = []*kafka.Message{nil}
	clock = clock.Add(kafka_client.BATCH_TIMEOUT)

	require.NoError(t, h.consumer.Run(ctx))

	require.Len(t, h.archiver.batches, 1)
	assert.Len(t, h.archiver.batches[0], 1)
}

func TestFlushArchive_RequeuesOnFailure(t *testing.T) {
	h := newHarness(nil, 10)
	h.archiver.fail = 1
	h.consumer.HandleMessage(context.Background(), requestMessage(t, models.AnalysisRequest{RequestID: "r1", VideoID: "abc"}))

	h.consumer.flushArchive(context.Background())
	assert.Equal(t, 1, h.consumer.archiveBuffer.Size())

	h.consumer.flushArchive(context.Background())
	assert.Zero(t, h.consumer.archiveBuffer.Size())
	assert.Len(t, h.archiver.batches, 1)
}

func TestRun_SourceError(t *testing.T) {
	h := newHarness(failingSource{}, 10)
	assert.Error(t, h.consumer.Run(context.Background()))
}

type failingSource struct{}

func (failingSource) Next() (*kafka.Message, error) {
	return nil, errors.New("all brokers down")
}
