package clients

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	openAIRequestTimeout = 60 * time.Second // Timeout for individual OpenAI API requests
	OPENAI_DEFAULT_MODEL = openai.GPT3Dot5Turbo
)

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type OpenAIClient struct {
	Client *openai.Client
	Model  string
}

func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		slog.Error("[OpenAIClient] Missing OpenAI API key")
		return nil, errors.New("[OpenAIClient] missing OpenAI API key")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = openAIRequestTimeout
	}
	model := cfg.Model
	if model == "" {
		model = OPENAI_DEFAULT_MODEL
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	config.HTTPClient = &http.Client{
		Timeout: timeout,
	}

	slog.Info("[OpenAIClient] OpenAI client initialized with custom HTTP timeout",
		slog.Duration("timeout", timeout),
		slog.String("model", model))

	return &OpenAIClient{
		Client: openai.NewClientWithConfig(config),
		Model:  model,
	}, nil
}
