package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"jizhang/internal/cache"
	"jizhang/internal/cli"
	apphttp "jizhang/internal/http"
	"jizhang/internal/log"
	"jizhang/internal/services"
)

func main() {
	cli.LoadEnvFile()
	cfg, logger := cli.LoadAndValidateConfig(nil)

	store, cleanup := cli.InitBackend(context.Background(), logger, cfg)
	defer cleanup()

	orderCache := cache.NewLRUCache[[]string](cfg.CategoryCacheSize, cfg.CategoryCacheTTL)
	cacheManager := cache.NewManager(logger.WithComponent(log.ComponentCache))
	cacheManager.Register(orderCache)
	cacheManager.StartCleanup(cfg.CategoryCacheTTL)
	defer cacheManager.Stop()

	recordSvc := services.NewRecordService(store, logger)
	reportSvc := services.NewReportService(store, services.ReportOptions{
		TopN:   cfg.RankingTopN,
		Cache:  orderCache,
		Logger: logger,
	})

	opts := apphttp.Options{
		Addr:               ":" + cfg.Port,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Logger:             logger,
	}
	if p, ok := store.(apphttp.Pinger); ok {
		opts.Pinger = p
	}
	srv := apphttp.NewServer(recordSvc, reportSvc, opts)

	done := cli.GracefulShutdown(logger, 30*time.Second, srv.Shutdown)

	logger.Info("Starting jizhang server",
		log.FieldOperation, log.OpStartup,
		"port", cfg.Port,
		"backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-done
	logger.Info("Server stopped gracefully")
}
