package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"textbook_market/pkg/assistant"
	"textbook_market/pkg/circuitbreaker"
	"textbook_market/pkg/config"
	"textbook_market/pkg/database"
	"textbook_market/pkg/handlers"
	"textbook_market/pkg/logger"
	"textbook_market/pkg/ratelimit"
	"textbook_market/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Format:      cfg.LogFormat,
		Environment: cfg.Env,
		Level:       cfg.LogLevel,
	})
	slog.SetDefault(log)
	log.Info("starting textbook market", "env", cfg.Env, "store", cfg.StoreDriver)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	store, closeStore, err := openStore(cfg, log)
	if err != nil {
		log.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	if cfg.SeedSampleData {
		if err := storage.Seed(context.Background(), store); err != nil {
			log.Error("failed to seed sample data", "error", err)
			os.Exit(1)
		}
		log.Info("sample data seeded")
	}

	chatLimiter, closeLimiter, err := newChatLimiter(cfg, log)
	if err != nil {
		log.Error("failed to set up chat rate limit", "error", err)
		os.Exit(1)
	}
	defer closeLimiter()

	h := handlers.New(store, assistant.New(nil), log)
	router := handlers.Router(h,
		handlers.WithChatLimiter(chatLimiter),
		handlers.WithBreaker(circuitbreaker.New(circuitbreaker.Config{
			MaxFailures: cfg.BreakerMaxFailures,
			OpenTimeout: cfg.BreakerOpenTimeout,
		})),
	)
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info("http server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

// openStore returns the configured backend and a function releasing it.
func openStore(cfg config.Config, log *slog.Logger) (storage.Storage, func(), error) {
	if cfg.StoreDriver == config.StoreMemory {
		return storage.NewMemStore(), func() {}, nil
	}

	if cfg.StoreDriver == config.StorePostgres {
		log.Warn("postgres store selected, data will persist across restarts")
	}
	db, err := database.Open(cfg.Database(), log)
	if err != nil {
		return nil, nil, err
	}
	store := storage.NewSQLStore(db, nil)
	if err := store.Migrate(); err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return store, closeDB, nil
}

// newChatLimiter uses a Redis fixed window when REDIS_ADDR is set so that
// replicas share one budget, and an in-process token bucket otherwise.
func newChatLimiter(cfg config.Config, log *slog.Logger) (ratelimit.Limiter, func(), error) {
	if cfg.RedisAddr == "" {
		return ratelimit.New(cfg.ChatRatePerSecond, cfg.ChatBurst), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ping redis at %s: %w", cfg.RedisAddr, err)
	}

	limiter, err := ratelimit.NewRedis(client, "textbooks:chat", cfg.ChatWindowLimit, cfg.ChatWindow)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	log.Info("chat rate limit shared through redis", "addr", cfg.RedisAddr,
		"limit", cfg.ChatWindowLimit, "window", cfg.ChatWindow)
	return limiter, func() { _ = client.Close() }, nil
}
