package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"videoDubber/worker/cache"
	"videoDubber/worker/config"
	"videoDubber/worker/kafka"
	"videoDubber/worker/pool"
	"videoDubber/worker/repository"
	"videoDubber/worker/service"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.Load()

	logger.Info("Status worker starting",
		zap.String("topic", cfg.ProgressTopic),
		zap.Int("workers", cfg.WorkerCount),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}

	processor := service.NewProcessor(
		repository.NewPostgresRepo(db),
		cache.NewStatusCache(rdb),
		logger,
	)

	workers := pool.NewWorkerPool(ctx, cfg.WorkerCount, processor.Handle, logger)

	consumer, err := kafka.NewConsumer(cfg.Brokers(), cfg.KafkaGroupID, logger)
	if err != nil {
		logger.Fatal("Failed to create kafka consumer", zap.Error(err))
	}

	if err := consumer.Consume(ctx, cfg.ProgressTopic, workers.Submit); err != nil {
		logger.Error("Consumer stopped", zap.Error(err))
	}

	if err := consumer.Close(); err != nil {
		logger.Error("Failed to close consumer", zap.Error(err))
	}
	workers.Close()
	logger.Info("Status worker stopped")
}
