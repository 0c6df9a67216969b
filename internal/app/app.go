package app

import (
	"errors"
	"log/slog"

	"github.com/spacesedan/commentflow/config"
	"github.com/spacesedan/commentflow/internal/analysis"
	"github.com/spacesedan/commentflow/internal/clients"
	"github.com/spacesedan/commentflow/internal/sentiment"
	"github.com/spacesedan/commentflow/internal/service"
)

// Components holds the clients shared by the server and worker binaries.
type Components struct {
	Service     *service.Service
	YouTube     *clients.YouTubeClient
	HuggingFace *clients.HuggingFaceClient
	Valkey      *clients.ValkeyClient
}

// Build creates every client named by cfg. The run store is skipped when no
// valkey address is configured.
func Build(cfg *config.Config) (*Components, error) {
	youtube, err := clients.NewYouTubeClient(clients.YouTubeConfig{
		APIKey:     cfg.YouTubeAPIKey,
		OAuthToken: cfg.YouTubeOAuthToken,
		BaseURL:    cfg.YouTubeBaseURL,
	})
	if err != nil {
		return nil, err
	}

	deps := sentiment.Deps{
		HuggingFace: clients.NewHuggingFaceClient(clients.HuggingFaceConfig{
			AnalyzerEndpoint: cfg.HFAnalyzerEndpoint,
			HealthEndpoint:   cfg.HFHealthEndpoint,
		}),
	}
	if cfg.OpenAIAPIKey != "" {
		deps.OpenAI, err = clients.NewOpenAIClient(clients.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.OpenAIModel,
		})
		if err != nil {
			return nil, err
		}
	}

	c := &Components{
		YouTube:     youtube,
		HuggingFace: deps.HuggingFace,
	}

	opts := service.Options{
		Source: youtube,
		Videos: youtube,
		Providers: func(name string) (analysis.SentimentProvider, error) {
			return sentiment.New(name, deps)
		},
		DefaultProvider: cfg.DefaultProvider,
	}

	if cfg.ValkeyAddress != "" {
		c.Valkey, err = clients.NewValkeyClient(clients.ValkeyConfig{
			Address:  cfg.ValkeyAddress,
			Password: cfg.ValkeyPassword,
			UseTLS:   cfg.ValkeyTLS,
		})
		if err != nil {
			return nil, err
		}
		opts.Store = c.Valkey
		opts.IsNotFound = func(err error) bool { return errors.Is(err, clients.ErrSummaryNotFound) }
	} else {
		slog.Warn("[App] VALKEY_INIT_ADDRESS not set, runs will not be stored")
	}

	c.Service = service.New(opts)
	return c, nil
}

func (c *Components) Close() {
	if c.Valkey != nil {
		c.Valkey.Close()
	}
}
