// Package cli provides common initialization for the tally binaries.
// It consolidates the startup steps shared by cmd/tally and
// cmd/tally-backup.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"tally/internal/backend"
	"tally/internal/config"
	applog "tally/internal/log"
	"tally/internal/storage"
)

// SetupLogger initializes structured logging and installs it as the
// process default.
func SetupLogger() *applog.Logger {
	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development. Errors are
// ignored as the file is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it, exiting
// the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err.Error())
		os.Exit(1)
	}
	return cfg
}

// OpenBackend resolves and opens the storage backend named by the
// configuration, exiting the process on failure. The returned cleanup
// releases backend resources and must run before exit.
func OpenBackend(cfg *config.Config, logger *applog.Logger) (storage.KV, backend.CleanupFunc) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration",
			applog.FieldBackend, cfg.DataBackend,
			applog.FieldError, err.Error())
		os.Exit(1)
	}
	kv, cleanup, err := backend.Open(bcfg, logger)
	if err != nil {
		logger.Error("Failed to open storage backend",
			applog.FieldBackend, cfg.DataBackend,
			applog.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Storage backend ready", applog.FieldBackend, cfg.DataBackend)
	return kv, cleanup
}
