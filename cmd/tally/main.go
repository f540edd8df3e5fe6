package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"tally/internal/cli"
	apphttp "tally/internal/http"
	"tally/internal/ledger"
	applog "tally/internal/log"
	"tally/internal/profile"
	"tally/internal/storage"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	kv, cleanup := cli.OpenBackend(cfg, logger)
	defer func() {
		if err := cleanup(); err != nil {
			logger.Error("Backend cleanup failed", applog.FieldError, err.Error())
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := ledger.New(ctx, storage.NewLedger(kv, logger), logger)
	if err != nil {
		logger.Error("Failed to load ledger", applog.FieldError, err.Error())
		os.Exit(1)
	}
	profiles, err := profile.NewManager(ctx, kv, logger)
	if err != nil {
		logger.Error("Failed to load profile", applog.FieldError, err.Error())
		os.Exit(1)
	}

	srv := apphttp.NewServer(":"+cfg.Port, store, profiles, logger, apphttp.Options{
		TopCategories: cfg.TopCategories,
	})
	srv.ReadTimeout = cfg.ReadTimeout
	srv.WriteTimeout = cfg.WriteTimeout
	srv.IdleTimeout = cfg.IdleTimeout
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting tally server",
			applog.FieldOperation, applog.OpStartup,
			"port", cfg.Port,
			applog.FieldBackend, cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.WriteTimeout+cfg.IdleTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully", applog.FieldOperation, applog.OpShutdown)
}
