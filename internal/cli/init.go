// Package cli provides common initialization utilities shared by
// cmd/budgeteer and cmd/budgeteer-worker.
package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"budgeteer/internal/amqp"
	"budgeteer/internal/assistant"
	"budgeteer/internal/backend"
	"budgeteer/internal/config"
	"budgeteer/internal/fixture"
	applog "budgeteer/internal/log"
	"budgeteer/internal/store"
)

// SetupLogger initializes structured logging with default settings.
// Returns the configured logger and sets it as the default logger.
func SetupLogger(component string) *applog.Logger {
	cfg := applog.DefaultConfig()
	cfg.Component = component
	logger := applog.New(cfg)
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitStore builds the typed store on top of the configured backend.
// Returns the store and its cleanup function, or exits on failure.
func InitStore(ctx context.Context, logger *applog.Logger, cfg *config.Config) (*store.Store, backend.CleanupFunc) {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	result, err := backend.NewFactory(slog.Default()).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "type", backendCfg.Type.String())
		os.Exit(1)
	}

	cleanup := result.Cleanup
	if cleanup == nil {
		cleanup = func() error { return nil }
	}
	return store.New(result.KeyValue), cleanup
}

// InitFeed loads the transaction feed, preferring the configured data
// directory override over the embedded fixture. Exits on failure.
func InitFeed(logger *applog.Logger, cfg *config.Config) *fixture.Feed {
	feed, err := fixture.Load(cfg.DataDirectory)
	if err != nil {
		logger.Error("Failed to load transaction feed", "error", err, "data_directory", cfg.DataDirectory)
		os.Exit(1)
	}
	return feed
}

// InitAMQP connects the optional AMQP client. A connection failure is
// logged and returns nil so the caller keeps working without events.
func InitAMQP(logger *applog.Logger, cfg *config.Config) *amqp.Client {
	if cfg.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("Failed to initialize AMQP client, continuing without refresh events", "error", err)
		return nil
	}
	logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	return client
}

// InitAssistant builds the optional assistant client.
func InitAssistant(logger *applog.Logger, cfg *config.Config) *assistant.Client {
	if cfg.AssistantBaseURL == "" {
		logger.Info("Assistant disabled - no base URL configured")
		return nil
	}
	logger.Info("Assistant configured", "base_url", cfg.AssistantBaseURL, "model", cfg.AssistantModel)
	return assistant.New(cfg.AssistantBaseURL, cfg.AssistantModel)
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
func GracefulShutdown(logger *applog.Logger, timeout time.Duration, cleanup func()) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if cleanup != nil {
			cleanup()
		}

		cancel()

		select {
		case <-shutdownCtx.Done():
			logger.Warn("Shutdown timeout reached")
		case <-time.After(2 * time.Second):
			logger.Info("Shutdown complete")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
