package streams

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	"github.com/spacesedan/commentflow/internal/models"
)

type SummaryStore interface {
	SaveSummary(ctx context.Context, runID string, summary *models.VideoSummary) error
}

// SummaryStreamHandler copies summaries written to the archive table into the
// run store, so runs finished by any worker can be fetched by id.
type SummaryStreamHandler struct {
	store SummaryStore
}

func NewSummaryStreamHandler(store SummaryStore) *SummaryStreamHandler {
	return &SummaryStreamHandler{store: store}
}

// HandleEvent processes a batch of stream records. Records that cannot be
// decoded are skipped; store failures are returned so the batch is retried.
func (h *SummaryStreamHandler) HandleEvent(ctx context.Context, event events.DynamoDBEvent) error {
	slog.Info("[SummaryStream] Received DynamoDB event",
		slog.Int("record_count", len(event.Records)))

	var errs []error
	for _, record := range event.Records {
		if err := h.processRecord(ctx, record); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *SummaryStreamHandler) processRecord(ctx context.Context, record events.DynamoDBEventRecord) error {
	if record.EventName != string(events.DynamoDBOperationTypeInsert) &&
		record.EventName != string(events.DynamoDBOperationTypeModify) {
		slog.Debug("[SummaryStream] Skipping record",
			slog.String("event_id", record.EventID),
			slog.String("event_name", record.EventName))
		return nil
	}

	var archived models.ArchivedSummary
	if err := UnmarshalStreamImage(record.Change.NewImage, &archived); err != nil {
		slog.Error("[SummaryStream] Failed to unmarshal archived summary",
			slog.String("event_id", record.EventID),
			slog.String("error", err.Error()))
		return nil
	}
	if archived.RunID == "" || archived.Summary == nil {
		slog.Warn("[SummaryStream] Archived summary is incomplete, skipping",
			slog.String("event_id", record.EventID))
		return nil
	}

	if err := h.store.SaveSummary(ctx, archived.RunID, archived.Summary); err != nil {
		return fmt.Errorf("store run %s: %w", archived.RunID, err)
	}

	slog.Info("[SummaryStream] Stored archived summary",
		slog.String("run_id", archived.RunID),
		slog.String("video_id", archived.VideoID))
	return nil
}
