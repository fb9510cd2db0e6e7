package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"expenseboard/internal/cli"
	apphttp "expenseboard/internal/http"
	applog "expenseboard/internal/log"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cli.LoadEnvFile()

	boot := cli.SetupLogger(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	cfg := cli.LoadAndValidateConfig(boot)
	logger := cli.SetupLogger(cfg.LogLevel, cfg.LogFormat)

	api, err := cli.NewAPIClient(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize expense API client", applog.FieldError, err.Error(), "base_url", cfg.APIBaseURL)
		os.Exit(1)
	}

	srv, err := apphttp.NewServer(apphttp.Options{
		Addr:               cfg.Addr(),
		API:                api,
		EnrichConcurrency:  cfg.EnrichConcurrency,
		CategoryCacheTTL:   cfg.CategoryCacheTTL,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Logger:             logger,
	})
	if err != nil {
		logger.Error("Failed to initialize server", applog.FieldError, err.Error())
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, shutdownTimeout, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err.Error())
		}
	})

	logger.Info("Starting expenseboard server",
		"addr", cfg.Addr(),
		"api_base_url", cfg.APIBaseURL,
		"enrich_concurrency", cfg.EnrichConcurrency)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err.Error(), "addr", cfg.Addr())
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
