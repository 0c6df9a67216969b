package streams

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/spacesedan/commentflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStore struct {
	err   error
	saved map[string]*models.VideoSummary
}

func (r *recordingStore) SaveSummary(_ context.Context, runID string, s *models.VideoSummary) error {
	if r.err != nil {
		return r.err
	}
	if r.saved == nil {
		r.saved = map[string]*models.VideoSummary{}
	}
	r.saved[runID] = s
	return nil
}

func summaryImage(runID string) map[string]events.DynamoDBAttributeValue {
	return map[string]events.DynamoDBAttributeValue{
		"run_id":        events.NewStringAttribute(runID),
		"video_id":      events.NewStringAttribute("abc"),
		"provider":      events.NewStringAttribute("vader"),
		"overall_label": events.NewStringAttribute("positive"),
		"created_at":    events.NewNumberAttribute("1700000000"),
		"ttl":           events.NewNumberAttribute("1702592000"),
		"summary": events.NewMapAttribute(map[string]events.DynamoDBAttributeValue{
			"VideoID":         events.NewStringAttribute("abc"),
			"PositiveCount":   events.NewNumberAttribute("2"),
			"Truncated":       events.NewBooleanAttribute(false),
			"TruncatedReason": events.NewNullAttribute(),
			"Comments": events.NewListAttribute([]events.DynamoDBAttributeValue{
				events.NewMapAttribute(map[string]events.DynamoDBAttributeValue{
					"Index": events.NewNumberAttribute("1"),
					"Text":  events.NewStringAttribute("great video"),
				}),
			}),
		}),
	}
}

func record(name string, image map[string]events.DynamoDBAttributeValue) events.DynamoDBEventRecord {
	return events.DynamoDBEventRecord{
		EventID:   "evt-" + name,
		EventName: name,
		Change:    events.DynamoDBStreamRecord{NewImage: image},
	}
}

func TestUnmarshalStreamImage(t *testing.T) {
	var archived models.ArchivedSummary
	require.NoError(t, UnmarshalStreamImage(summaryImage("run-1"), &archived))

	assert.Equal(t, "run-1", archived.RunID)
	assert.Equal(t, int64(1700000000), archived.CreatedAt)
	require.NotNil(t, archived.Summary)
	assert.Equal(t, 2, archived.Summary.PositiveCount)
	require.Len(t, archived.Summary.Comments, 1)
	assert.Equal(t, "great video", archived.Summary.Comments[0].Text)
}

func TestUnmarshalStreamImage_Nil(t *testing.T) {
	var archived models.ArchivedSummary
	assert.Error(t, UnmarshalStreamImage(nil, &archived))
}

func TestHandleEvent(t *testing.T) {
	store := &recordingStore{}
	h := NewSummaryStreamHandler(store)

	err := h.HandleEvent(context.Background(), events.DynamoDBEvent{Records: []events.DynamoDBEventRecord{
		record("INSERT", summaryImage("run-1")),
		record("MODIFY", summaryImage("run-2")),
		record("REMOVE", summaryImage("run-3")),
		record("INSERT", nil),
		record("INSERT", map[string]events.DynamoDBAttributeValue{"run_id": events.NewStringAttribute("run-4")}),
	}})
	require.NoError(t, err)

	assert.Len(t, store.saved, 2)
	assert.Contains(t, store.saved, "run-1")
	assert.Contains(t, store.saved, "run-2")
}

func TestHandleEvent_StoreFailure(t *testing.T) {
	boom := errors.New("valkey down")
	h := NewSummaryStreamHandler(&recordingStore{err: boom})

	err := h.HandleEvent(context.Background(), events.DynamoDBEvent{Records: []events.DynamoDBEventRecord{
		record("INSERT", summaryImage("run-1")),
	}})
	assert.ErrorIs(t, err, boom)
}
