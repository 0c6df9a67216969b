package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spacesedan/commentflow/internal/sentiment"
)

type Config struct {
	AppEnv   string
	Port     string
	LogLevel string

	YouTubeAPIKey     string
	YouTubeOAuthToken string
	YouTubeBaseURL    string

	OpenAIAPIKey       string
	OpenAIModel        string
	HFAnalyzerEndpoint string
	HFHealthEndpoint   string
	DefaultProvider    string

	ValkeyAddress  string
	ValkeyPassword string
	ValkeyTLS      bool

	// KafkaEnabled lets the server queue requests for the worker.
	KafkaEnabled bool

	AWSRegion        string
	AWSEndpoint      string
	SummaryTableName string
}

func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		YouTubeAPIKey:      getEnv("YOUTUBE_API_KEY", ""),
		YouTubeOAuthToken:  getEnv("YOUTUBE_OAUTH_TOKEN", ""),
		YouTubeBaseURL:     getEnv("YOUTUBE_API_BASE_URL", ""),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:        getEnv("OPENAI_MODEL", ""),
		HFAnalyzerEndpoint: getEnv("HF_ANALYZER_ENDPOINT", ""),
		HFHealthEndpoint:   getEnv("HF_HEALTH_ENDPOINT", ""),
		DefaultProvider:    strings.ToLower(getEnv("DEFAULT_PROVIDER", sentiment.PROVIDER_VADER)),
		ValkeyAddress:      getEnv("VALKEY_INIT_ADDRESS", ""),
		ValkeyPassword:     getEnv("VALKEY_PASSWORD", ""),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSEndpoint:        getEnv("AWS_ENDPOINT", ""),
		SummaryTableName:   getEnv("SUMMARY_TABLE_NAME", "VideoSummaries"),
	}

	if cfg.YouTubeAPIKey == "" && cfg.YouTubeOAuthToken == "" {
		return nil, fmt.Errorf("YOUTUBE_API_KEY or YOUTUBE_OAUTH_TOKEN is required")
	}

	tls, err := strconv.ParseBool(getEnv("VALKEY_TLS", "false"))
	if err != nil {
		return nil, fmt.Errorf("VALKEY_TLS must be a boolean: %w", err)
	}
	cfg.ValkeyTLS = tls

	kafkaEnabled, err := strconv.ParseBool(getEnv("KAFKA_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("KAFKA_ENABLED must be a boolean: %w", err)
	}
	cfg.KafkaEnabled = kafkaEnabled

	known := false
	for _, name := range sentiment.Names() {
		if name == cfg.DefaultProvider {
			known = true
		}
	}
	if !known {
		return nil, fmt.Errorf("DEFAULT_PROVIDER must be one of %s, got %q", strings.Join(sentiment.Names(), ", "), cfg.DefaultProvider)
	}
	if cfg.DefaultProvider == sentiment.PROVIDER_OPENAI && cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required when DEFAULT_PROVIDER is openai")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
