package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "PORT", "DEFAULT_PROVIDER", "SUMMARY_TABLE_NAME", "VALKEY_TLS"} {
		t.Setenv(key, "")
	}
	t.Setenv("YOUTUBE_API_KEY", "key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "vader", cfg.DefaultProvider)
	assert.Equal(t, "VideoSummaries", cfg.SummaryTableName)
	assert.False(t, cfg.ValkeyTLS)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("YOUTUBE_OAUTH_TOKEN", "token")
	t.Setenv("PORT", "9090")
	t.Setenv("DEFAULT_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("VALKEY_TLS", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "openai", cfg.DefaultProvider)
	assert.True(t, cfg.ValkeyTLS)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"no youtube credentials", map[string]string{"YOUTUBE_API_KEY": "", "YOUTUBE_OAUTH_TOKEN": ""}},
		{"unknown provider", map[string]string{"YOUTUBE_API_KEY": "k", "DEFAULT_PROVIDER": "watson"}},
		{"openai without key", map[string]string{"YOUTUBE_API_KEY": "k", "DEFAULT_PROVIDER": "openai", "OPENAI_API_KEY": ""}},
		{"bad tls flag", map[string]string{"YOUTUBE_API_KEY": "k", "VALKEY_TLS": "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_KafkaEnabled(t *testing.T) {
	t.Setenv("YOUTUBE_API_KEY", "key")
	t.Setenv("DEFAULT_PROVIDER", "")
	t.Setenv("KAFKA_ENABLED", "1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.KafkaEnabled)
}
