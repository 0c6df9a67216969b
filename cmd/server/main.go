package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spacesedan/commentflow/config"
	"github.com/spacesedan/commentflow/internal/app"
	"github.com/spacesedan/commentflow/internal/clients/kafka_client"
	"github.com/spacesedan/commentflow/internal/logging"
	"github.com/spacesedan/commentflow/internal/monitoring"
	"github.com/spacesedan/commentflow/internal/producer"
	"github.com/spacesedan/commentflow/internal/server"
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

	analyzerHealthy := &atomic.Bool{}
	go monitoring.MonitorAnalyzerHealth(ctx, analyzerHealthy, components.HuggingFace, monitoring.HEALTHCHECK_INTERVAL)

	var opts []server.Option
	if cfg.KafkaEnabled {
		kafkaCfg := kafka_client.GetKafkaConfig()
		kafkaProducer, err := kafka_client.NewProducer(kafkaCfg)
		if err != nil {
			slog.Error("[Main] Failed to create Kafka producer", slog.String("error", err.Error()))
			return
		}
		defer kafkaProducer.Close()
		opts = append(opts, server.WithQueue(producer.NewRequestProducer(kafkaProducer, kafkaCfg.RequestTopic)))
	}

	srv := server.NewServer(cfg.Port, components.Service, analyzerHealthy, opts...)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("[Main] Server stopped", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("[Main] Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("[Main] Graceful shutdown failed", slog.String("error", err.Error()))
	}
}
