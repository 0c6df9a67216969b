package models

import "time"

// AnalysisRequest is the message consumed from the analysis request topic.
type AnalysisRequest struct {
	RequestID   string  `json:"request_id"`
	VideoID     string  `json:"video_id"`
	LikeWeight  float64 `json:"like_weight"`
	ReplyWeight float64 `json:"reply_weight"`
	MaxComments int     `json:"max_comments"`
	Provider    string  `json:"provider"`
}

const (
	AnalysisStatusOK               = "ok"
	AnalysisStatusInvalidID        = "INVALID ID"
	AnalysisStatusCommentsDisabled = "COMMENTS DISABLED"
	AnalysisStatusFailed           = "failed"
)

// AnalysisResult is published once per request, successful or not.
type AnalysisResult struct {
	RequestID   string        `json:"request_id"`
	VideoID     string        `json:"video_id"`
	Status      string        `json:"status"`
	Error       string        `json:"error,omitempty"`
	Summary     *VideoSummary `json:"summary,omitempty"`
	CompletedAt time.Time     `json:"completed_at"`
}

// ArchivedSummary is the row written to the summary archive table.
type ArchivedSummary struct {
	RunID        string        `dynamodbav:"run_id"`
	VideoID      string        `dynamodbav:"video_id"`
	Provider     string        `dynamodbav:"provider"`
	OverallLabel string        `dynamodbav:"overall_label"`
	CreatedAt    int64         `dynamodbav:"created_at"`
	ExpiresAt    int64         `dynamodbav:"ttl"`
	Summary      *VideoSummary `dynamodbav:"summary"`
}
