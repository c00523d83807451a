// Package cli provides common CLI initialization utilities shared by
// cmd/jizhang and cmd/jizhang-report.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"jizhang/internal/backend"
	"jizhang/internal/config"
	"jizhang/internal/log"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration, builds the logger it
// describes writing to logOut (stdout when nil) and installs it as the
// default. It exits the process when the configuration is invalid.
func LoadAndValidateConfig(logOut io.Writer) (*config.Config, *log.Logger) {
	cfg := config.Load()
	logCfg := log.ConfigFrom(cfg.LogLevel, cfg.LogFormat)
	logCfg.Output = logOut
	logger := log.New(logCfg)
	log.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed",
			log.FieldErrorType, log.ErrorTypeConfiguration,
			log.FieldError, err)
		os.Exit(1)
	}
	return cfg, logger
}

// InitBackend creates the configured record store. It exits the process
// on failure; callers must run the returned cleanup.
func InitBackend(ctx context.Context, logger *log.Logger, cfg *config.Config) (backend.Backend, func()) {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}

	result, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend)).
		CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	cleanup := func() {
		if result.Cleanup == nil {
			return
		}
		if err := result.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err)
		}
	}
	return result.Backend, cleanup
}

// GracefulShutdown runs shutdown with a timeout once SIGINT or SIGTERM
// arrives. The returned channel is closed when shutdown has returned.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, shutdown func(context.Context) error) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String(), log.FieldOperation, log.OpShutdown)

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := shutdown(ctx); err != nil {
			logger.Error("Shutdown error", log.FieldError, err)
		}
		close(done)
	}()

	return done
}
