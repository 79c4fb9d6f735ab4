// The cron binary runs one orchestrator invocation for today and exits.
// A scheduler (systemd timer, Kubernetes CronJob) invokes it daily; replays
// and out-of-band triggers go through the server's admin endpoint instead.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"pinecrest.club/gazette/common/id"
	"pinecrest.club/gazette/common/llm"
	"pinecrest.club/gazette/common/logger"
	"pinecrest.club/gazette/common/otel"
	"pinecrest.club/gazette/core/config"
	"pinecrest.club/gazette/core/db"
	"pinecrest.club/gazette/internal/messaging"
	"pinecrest.club/gazette/internal/runlock"
	"pinecrest.club/gazette/internal/service"
	"pinecrest.club/gazette/internal/store"
)

func main() {
	cfg, err := config.Load(config.ServiceTypeCron)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		slog.Error("failed to set up telemetry", "error", err)
		os.Exit(1)
	}

	logger.Setup(cfg)

	if err := id.Init(2); err != nil {
		slog.Error("failed to init id generator", "error", err)
		os.Exit(1)
	}

	location, err := time.LoadLocation(cfg.Newsletter.Timezone)
	if err != nil {
		slog.Error("invalid newsletter timezone", "timezone", cfg.Newsletter.Timezone, "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		slog.Error("invalid redis url", "error", err)
		os.Exit(1)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	generator, err := llm.New(llm.Config{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.Model,
	})
	if err != nil {
		slog.Error("failed to create llm client", "error", err)
		os.Exit(1)
	}

	stores := store.NewStores(database.Pool())
	messenger := messaging.NewSlackMessenger(cfg.Slack.BotToken)
	guard := runlock.NewGuard(redisClient, runlock.DefaultTTL)
	services := service.NewServices(&cfg, stores, messenger, generator, guard)

	now := time.Now().In(location)
	result, err := services.Orchestrator.RunDay(ctx, now.Day(), now)

	if telemetry != nil {
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := telemetry.Shutdown(shutdownCtx); err != nil {
				slog.Error("telemetry shutdown failed", "error", err)
			}
		}()
	}

	if err != nil {
		slog.Error("orchestrator run failed", "error", err)
		os.Exit(1)
	}

	slog.Info("orchestrator run finished",
		"period", result.Period,
		"day", result.Day,
		"actions", result.Actions,
		"errors", result.Errors,
	)
	if !result.Success() {
		os.Exit(1)
	}
}
