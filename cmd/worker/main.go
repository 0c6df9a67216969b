package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spacesedan/commentflow/config"
	"github.com/spacesedan/commentflow/internal/app"
	"github.com/spacesedan/commentflow/internal/clients"
	"github.com/spacesedan/commentflow/internal/clients/kafka_client"
	"github.com/spacesedan/commentflow/internal/consumers"
	"github.com/spacesedan/commentflow/internal/db"
	"github.com/spacesedan/commentflow/internal/logging"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("[Main] Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logging.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	components, err := app.Build(cfg)
	if err != nil {
		slog.Error("[Main] Failed to build components", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer components.Close()

	awsCfg, err := clients.LoadAWSConfig(ctx, clients.AWSConfig{Region: cfg.AWSRegion, Endpoint: cfg.AWSEndpoint})
	if err != nil {
		slog.Error("[Main] Failed to load AWS config", slog.String("error", err.Error()))
		return
	}
	archive := db.NewSummaryArchive(clients.NewDynamoDBClient(awsCfg, cfg.AWSEndpoint), cfg.SummaryTableName)

	kafkaCfg := kafka_client.GetKafkaConfig()

	var producer *kafka_client.Producer
	for {
		producer, err = kafka_client.NewProducer(kafkaCfg)
		if err == nil {
			break
		}
		slog.Warn("[Main] Kafka init failed, retrying...", slog.String("error", err.Error()))
		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
	defer producer.Close()

	consumer, err := kafka_client.NewConsumer(kafkaCfg)
	if err != nil {
		slog.Error("[Main] Failed to create consumer", slog.String("error", err.Error()))
		return
	}
	defer consumer.Close()

	worker := consumers.NewAnalysisRequestConsumer(consumers.AnalysisRequestConsumerConfig{
		Source:      kafka_client.NewKafkaMessageIterator(ctx, consumer),
		Committer:   kafka_client.NewCommitHandler(ctx, consumer),
		Publisher:   producer,
		Processor:   components.Service,
		Archiver:    archive,
		ResultTopic: kafkaCfg.ResultTopic,
	})

	if err := worker.Run(ctx); err != nil {
		slog.Error("[Main] Worker stopped", slog.String("error", err.Error()))
	}
}
