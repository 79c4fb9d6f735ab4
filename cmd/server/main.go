package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"pinecrest.club/gazette/common/id"
	"pinecrest.club/gazette/common/llm"
	"pinecrest.club/gazette/common/logger"
	"pinecrest.club/gazette/common/otel"
	"pinecrest.club/gazette/core/config"
	"pinecrest.club/gazette/core/db"
	"pinecrest.club/gazette/internal/http/router"
	"pinecrest.club/gazette/internal/messaging"
	"pinecrest.club/gazette/internal/runlock"
	"pinecrest.club/gazette/internal/service"
	"pinecrest.club/gazette/internal/store"
)

func main() {
	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		slog.Error("failed to set up telemetry", "error", err)
		os.Exit(1)
	}
	if telemetry != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := telemetry.Shutdown(shutdownCtx); err != nil {
				slog.Error("telemetry shutdown failed", "error", err)
			}
		}()
	}

	logger.Setup(cfg)

	if err := id.Init(1); err != nil {
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

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router.New(cfg, services, stores, location),
	}

	go func() {
		slog.Info("server listening", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
