package sentiment

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/spacesedan/commentflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChat struct {
	content string
	err     error
	lastReq openai.ChatCompletionRequest
}

func (f *fakeChat) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: f.content}},
		},
	}, nil
}

func TestOpenAIProvider_Analyze(t *testing.T) {
	chat := &fakeChat{content: `{"label": "positive", "score": 0.75}`}
	p := NewOpenAIProvider(chat, openai.GPT3Dot5Turbo)

	res, err := p.Analyze(context.Background(), "this is great")
	require.NoError(t, err)
	assert.Equal(t, models.SentimentResult{Label: models.LabelPositive, Score: 0.75}, res)

	assert.Equal(t, openai.GPT3Dot5Turbo, chat.lastReq.Model)
	require.Len(t, chat.lastReq.Messages, 1)
	assert.Contains(t, chat.lastReq.Messages[0].Content, "this is great")
	require.NotNil(t, chat.lastReq.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, chat.lastReq.ResponseFormat.Type)
}

func TestOpenAIProvider_ClientError(t *testing.T) {
	boom := errors.New("rate limited")
	p := NewOpenAIProvider(&fakeChat{err: boom}, "m")

	_, err := p.Analyze(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
}

func TestParseOpenAIResponse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    models.SentimentResult
		wantErr bool
	}{
		{"quoted score", `{"label": "negative", "score": "-0.4"}`, models.SentimentResult{Label: models.LabelNegative, Score: -0.4}, false},
		{"clamped high", `{"label": "positive", "score": 3}`, models.SentimentResult{Label: models.LabelPositive, Score: 1}, false},
		{"clamped low", `{"label": "negative", "score": -2.5}`, models.SentimentResult{Label: models.LabelNegative, Score: -1}, false},
		{"label follows score", `{"label": "neutral", "score": 0.3}`, models.SentimentResult{Label: models.LabelPositive, Score: 0.3}, false},
		{"upper case label", `{"label": "NEUTRAL", "score": 0}`, models.NeutralResult(), false},
		{"fenced", "```json\n{\"label\": \"positive\", \"score\": 0.5}\n```", models.SentimentResult{Label: models.LabelPositive, Score: 0.5}, false},
		{"not json", `label: positive`, models.SentimentResult{}, true},
		{"bad score", `{"label": "positive", "score": "high"}`, models.SentimentResult{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseOpenAIResponse(tt.content)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.Label, got.Label)
			assert.InDelta(t, tt.want.Score, got.Score, 1e-9)
		})
	}
}
