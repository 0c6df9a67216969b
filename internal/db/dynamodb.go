package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/spacesedan/commentflow/internal/metrics"
	"github.com/spacesedan/commentflow/internal/models"
)

const (
	SUMMARY_TABLE_NAME  = "VideoSummaries"
	VIDEO_ID_INDEX_NAME = "video_id-created_at-index"

	maxBatchSize    = 25
	maxBatchRetries = 3
	summaryTTL      = 30 * 24 * time.Hour
)

var ErrArchivedSummaryNotFound = errors.New("archived summary not found")

// DynamoDBAPI is the subset of *dynamodb.Client the archive uses.
type DynamoDBAPI interface {
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// SummaryArchive keeps finished video summaries in DynamoDB, keyed by run id.
type SummaryArchive struct {
	client       DynamoDBAPI
	tableName    string
	retryBackoff time.Duration
}

func NewSummaryArchive(client DynamoDBAPI, tableName string) *SummaryArchive {
	if tableName == "" {
		tableName = SUMMARY_TABLE_NAME
	}
	return &SummaryArchive{
		client:       client,
		tableName:    tableName,
		retryBackoff: 500 * time.Millisecond,
	}
}

// NewArchivedSummary wraps a summary in the row written to the archive.
func NewArchivedSummary(runID string, summary *models.VideoSummary, now time.Time) models.ArchivedSummary {
	return models.ArchivedSummary{
		RunID:        runID,
		VideoID:      summary.VideoID,
		Provider:     summary.Provider,
		OverallLabel: string(summary.OverallLabel),
		CreatedAt:    now.Unix(),
		ExpiresAt:    now.Add(summaryTTL).Unix(),
		Summary:      summary,
	}
}

// BatchArchiveSummaries writes summaries in chunks of 25 and retries items
// DynamoDB reports as unprocessed. Items still unprocessed after the retries
// are returned as an error.
func (a *SummaryArchive) BatchArchiveSummaries(ctx context.Context, summaries []models.ArchivedSummary) error {
	for i := 0; i < len(summaries); i += maxBatchSize {
		select {
		case <-ctx.Done():
			slog.Warn("[DynamoDB] context canceled")
			return ctx.Err()
		default:
		}

		end := min(i+maxBatchSize, len(summaries))

		writeRequests := make([]types.WriteRequest, 0, end-i)
		for _, summary := range summaries[i:end] {
			item, err := attributevalue.MarshalMap(summary)
			if err != nil {
				return fmt.Errorf("[DynamoDB] Failed to marshal summary %s: %w", summary.RunID, err)
			}
			writeRequests = append(writeRequests, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}

		if err := a.writeWithRetry(ctx, writeRequests); err != nil {
			metrics.ArchivedSummaries.WithLabelValues("error").Add(float64(len(writeRequests)))
			return err
		}
		metrics.ArchivedSummaries.WithLabelValues("ok").Add(float64(len(writeRequests)))
	}

	slog.Info("[DynamoDB] Successfully archived summaries",
		slog.Int("count", len(summaries)))
	return nil
}

func (a *SummaryArchive) writeWithRetry(ctx context.Context, writeRequests []types.WriteRequest) error {
	out, err := a.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
		RequestItems: map[string][]types.WriteRequest{
			a.tableName: writeRequests,
		},
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to batch write summaries: %w", err)
	}

	backoff := a.retryBackoff
	for retryCount := 0; len(out.UnprocessedItems) > 0 && retryCount < maxBatchRetries; retryCount++ {
		slog.Warn("[DynamoDB] Retrying unprocessed items...",
			slog.Int("retry_attempt", retryCount+1),
			slog.Int("remaining_items", len(out.UnprocessedItems[a.tableName])))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2

		out, err = a.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: out.UnprocessedItems,
		})
		if err != nil {
			return fmt.Errorf("[DynamoDB] Failed to retry batch write: %w", err)
		}
	}

	if remaining := len(out.UnprocessedItems[a.tableName]); remaining > 0 {
		slog.Error("[DynamoDB] Some items were not written even after retries",
			slog.Int("remaining_items", remaining))
		return fmt.Errorf("[DynamoDB] %d summaries left unprocessed after %d retries", remaining, maxBatchRetries)
	}
	return nil
}

func (a *SummaryArchive) GetArchivedSummary(ctx context.Context, runID string) (models.ArchivedSummary, error) {
	var archived models.ArchivedSummary

	out, err := a.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(a.tableName),
		Key: map[string]types.AttributeValue{
			"run_id": &types.AttributeValueMemberS{Value: runID},
		},
	})
	if err != nil {
		return archived, fmt.Errorf("[DynamoDB] Failed to get summary %s: %w", runID, err)
	}
	if len(out.Item) == 0 {
		return archived, ErrArchivedSummaryNotFound
	}

	if err := attributevalue.UnmarshalMap(out.Item, &archived); err != nil {
		slog.Error("[DynamoDB] Unable to unmarshal archived summary",
			slog.String("run_id", runID),
			slog.String("error", err.Error()))
		return archived, err
	}
	return archived, nil
}

// ListVideoSummaries returns every archived run of a video, newest first.
func (a *SummaryArchive) ListVideoSummaries(ctx context.Context, videoID string) ([]models.ArchivedSummary, error) {
	var summaries []models.ArchivedSummary

	paginator := dynamodb.NewQueryPaginator(a.client, &dynamodb.QueryInput{
		TableName:              aws.String(a.tableName),
		IndexName:              aws.String(VIDEO_ID_INDEX_NAME),
		KeyConditionExpression: aws.String("video_id = :v"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: videoID},
		},
		ScanIndexForward: aws.Bool(false),
	})

	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("[DynamoDB] Query for video %s failed: %w", videoID, err)
		}
		var page []models.ArchivedSummary
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			slog.Error("[DynamoDB] Unable to unmarshal summary page", slog.String("error", err.Error()))
			return nil, err
		}
		summaries = append(summaries, page...)
	}

	slog.Debug("[DynamoDB] Retrieved archived summaries",
		slog.String("video_id", videoID),
		slog.Int("count", len(summaries)))
	return summaries, nil
}
