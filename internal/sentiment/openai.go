package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/spacesedan/commentflow/internal/models"
)

const PROVIDER_OPENAI = "openai"

const openAIPrompt = `Rate the sentiment of the comment below.
Respond with a JSON object in exactly this format and nothing else: {"label": "", "score": 0}
score is a number with up to 2 decimal places between -1 and 1.
label is one of: negative (score < 0), neutral (score == 0), positive (score > 0).

Comment:
%s`

// ChatCompleter is the subset of *openai.Client the provider needs.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type OpenAIProvider struct {
	client ChatCompleter
	model  string
}

func NewOpenAIProvider(client ChatCompleter, model string) *OpenAIProvider {
	return &OpenAIProvider{client: client, model: model}
}

func (o *OpenAIProvider) Name() string { return PROVIDER_OPENAI }

func (o *OpenAIProvider) Analyze(ctx context.Context, text string) (models.SentimentResult, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(openAIPrompt, text)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0,
	})
	if err != nil {
		return models.SentimentResult{}, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return models.SentimentResult{}, errors.New("openai returned no choices")
	}

	return parseOpenAIResponse(resp.Choices[0].Message.Content)
}

// parseOpenAIResponse decodes the model's JSON reply. The score is clamped to
// [-1, 1] and the label is derived from the score whenever the two disagree.
func parseOpenAIResponse(content string) (models.SentimentResult, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var parsed models.OpenAISentimentResponse
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &parsed); err != nil {
		return models.SentimentResult{}, fmt.Errorf("decode openai response: %w", err)
	}

	score, err := parsed.Score.Float64()
	if err != nil {
		return models.SentimentResult{}, fmt.Errorf("parse openai score %q: %w", parsed.Score, err)
	}
	if math.IsNaN(score) {
		return models.SentimentResult{}, errors.New("openai score is NaN")
	}
	score = math.Max(-1, math.Min(1, score))

	label := models.Label(strings.ToLower(strings.TrimSpace(parsed.Label)))
	if derived := models.LabelFromScore(score); label != derived {
		slog.Debug("[OpenAIProvider] Label disagrees with score, using score sign",
			slog.String("label", string(label)),
			slog.Float64("score", score))
		label = derived
	}

	return models.SentimentResult{Label: label, Score: score}, nil
}
