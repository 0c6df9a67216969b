package sentiment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spacesedan/commentflow/internal/models"
)

const PROVIDER_HUGGINGFACE = "huggingface"

type BatchAnalyzer interface {
	GetBatchedSentimentAnalysis(ctx context.Context, input models.SentimentAnalysisBatchRequest) (models.SentimentAnalysisBatchResponse, error)
}

// HuggingFaceProvider sends each text to the hosted analyzer as a batch of one.
type HuggingFaceProvider struct {
	analyzer BatchAnalyzer
}

func NewHuggingFaceProvider(analyzer BatchAnalyzer) *HuggingFaceProvider {
	return &HuggingFaceProvider{analyzer: analyzer}
}

func (h *HuggingFaceProvider) Name() string { return PROVIDER_HUGGINGFACE }

func (h *HuggingFaceProvider) Analyze(ctx context.Context, text string) (models.SentimentResult, error) {
	resp, err := h.analyzer.GetBatchedSentimentAnalysis(ctx, models.SentimentAnalysisBatchRequest{
		{ContentID: "0", Text: ConvertMarkdownToText(text)},
	})
	if err != nil {
		return models.SentimentResult{}, fmt.Errorf("huggingface analyze: %w", err)
	}
	if len(resp) == 0 {
		return models.SentimentResult{}, errors.New("huggingface returned an empty batch")
	}

	score := resp[0].SentimentScore
	label := models.Label(strings.ToLower(resp[0].SentimentLabel))
	if !label.Valid() {
		label = models.LabelFromScore(score)
	}
	return models.SentimentResult{Label: label, Score: score}, nil
}
