package main

import (
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spacesedan/commentflow/config"
	"github.com/spacesedan/commentflow/internal/clients"
	"github.com/spacesedan/commentflow/internal/logging"
	"github.com/spacesedan/commentflow/internal/streams"
)

// Lambda entry point for the VideoSummaries table stream.
func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger(os.Getenv("LOG_LEVEL"))

	store, err := clients.NewValkeyClient(clients.ValkeyConfig{
		Address:  os.Getenv("VALKEY_INIT_ADDRESS"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		UseTLS:   os.Getenv("VALKEY_TLS") == "true",
	})
	if err != nil {
		slog.Error("[StreamHandler] Failed to connect to valkey", slog.String("error", err.Error()))
		os.Exit(1)
	}

	lambda.Start(streams.NewSummaryStreamHandler(store).HandleEvent)
}
