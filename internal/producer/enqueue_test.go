package producer

import (
	"context"
	"errors"
	"testing"

	"github.com/spacesedan/commentflow/internal/analysis"
	"github.com/spacesedan/commentflow/internal/models"
	"github.com/spacesedan/commentflow/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	err   error
	topic string
	key   string
	value any
}

func (c *capturePublisher) Publish(_ context.Context, topic, key string, value any) error {
	c.topic, c.key, c.value = topic, key, value
	return c.err
}

func TestEnqueue(t *testing.T) {
	pub := &capturePublisher{}
	p := NewRequestProducer(pub, "analysis-requests")
	p.newID = func() string { return "req-1" }

	id, err := p.Enqueue(context.Background(), "https://youtu.be/abc", " OpenAI ", analysis.RunConfig{LikeWeight: 1, MaxComments: 5})
	require.NoError(t, err)

	assert.Equal(t, "req-1", id)
	assert.Equal(t, "analysis-requests", pub.topic)
	assert.Equal(t, "req-1", pub.key)
	assert.Equal(t, models.AnalysisRequest{
		RequestID:   "req-1",
		VideoID:     "abc",
		LikeWeight:  1,
		MaxComments: 5,
		Provider:    "openai",
	}, pub.value)
}

func TestEnqueue_Rejects(t *testing.T) {
	pub := &capturePublisher{}
	p := NewRequestProducer(pub, "t")

	_, err := p.Enqueue(context.Background(), "", "vader", analysis.RunConfig{})
	assert.ErrorIs(t, err, service.ErrMissingVideoID)

	_, err = p.Enqueue(context.Background(), "abc", "vader", analysis.RunConfig{ReplyWeight: -2})
	assert.ErrorIs(t, err, analysis.ErrInvalidConfiguration)

	assert.Nil(t, pub.value)
}

func TestEnqueue_PublishError(t *testing.T) {
	boom := errors.New("broker down")
	p := NewRequestProducer(&capturePublisher{err: boom}, "t")

	_, err := p.Enqueue(context.Background(), "abc", "vader", analysis.RunConfig{})
	assert.ErrorIs(t, err, boom)
}
