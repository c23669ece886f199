// cmd/understander/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"understander/internal/api"
	"understander/internal/common/config"
	"understander/internal/common/database"
	"understander/internal/common/logger"
	"understander/internal/common/observability"
	"understander/internal/dialogue"
	"understander/internal/dialogue/store"
	"understander/internal/persona"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err = operation()
		if err == nil {
			return nil
		}
		log.Warn("Operation failed, retrying...",
			zap.String("operation", operationName),
			zap.Int("attempt", attempt),
			zap.Int("max_retries", maxRetries),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		if attempt < maxRetries {
			time.Sleep(delay)
			delay *= 2
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting understander service",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New("understander")
	defer obs.Shutdown()

	// Redis is a pure read-through cache for persona outputs. The service
	// runs without it when no address is configured or the backend is down.
	var redisClient *database.RedisClient
	if cfg.Redis.Enabled() {
		err = retryWithBackoff(func() error {
			client, redisErr := database.NewRedis(cfg.Redis)
			if redisErr != nil {
				return redisErr
			}
			pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if redisErr = client.Ping(pingCtx); redisErr != nil {
				client.Close()
				return redisErr
			}
			redisClient = client
			return nil
		}, 3, 2*time.Second, zapLog, "redis connection")
		if err != nil {
			zapLog.Warn("Continuing without persona cache", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	var personaCache *persona.Cache
	if redisClient != nil {
		personaCache = persona.NewCache(redisClient, time.Duration(cfg.Redis.CacheTTL)*time.Second, log)
	}
	personaSvc := persona.NewService(personaCache)

	sessionStore := store.New(cfg.Dialogue.ChatTimeoutDuration(), log)
	engine := dialogue.NewEngine(cfg.Dialogue, sessionStore, obs, log)

	handler := api.NewHandler(engine, personaSvc, log)
	router := api.NewRouter(handler, cfg.Server)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping server...")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		zapLog.Error("Graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("Understander service stopped")
}
