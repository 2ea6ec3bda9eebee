package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "resume-builder/internal/adapter/http"
	"resume-builder/internal/adapter/cache"
	repo "resume-builder/internal/adapter/repository"
	"resume-builder/internal/config"
	"resume-builder/internal/infrastructure/migration"
	"resume-builder/internal/logger"
	"resume-builder/internal/metrics"
	"resume-builder/internal/render"
	"resume-builder/internal/usecase"
	infra "resume-builder/pkg/infrastructure"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.SetupDefault(os.Stdout, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// storage
	var store usecase.ResumeRepo
	if cfg.DatabaseURL != "" {
		pool, err := infra.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := migration.RunMigrations(ctx, pool); err != nil {
			return err
		}
		store = repo.NewResumesRepo(pool)
	} else {
		log.Warn("DATABASE_URL not set, resumes are kept in memory")
		store = repo.NewMemoryRepo()
	}

	var public usecase.PublicCache
	if cfg.RedisURL != "" {
		client, err := infra.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()
		public = cache.NewRedisCache(client, cfg.PublicCacheTTL)
	} else {
		public = cache.NewMemoryCache(cfg.PublicCacheTTL)
	}

	// rendering
	var renderer *render.Renderer
	if cfg.TemplateDir != "" {
		renderer, err = render.New(os.DirFS(cfg.TemplateDir))
	} else {
		renderer, err = render.NewDefault()
	}
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	printer := infra.NewChromedpRenderer(infra.ChromeConfig{
		ExecPath:     cfg.ChromePath,
		Timeout:      cfg.PDFTimeout,
		IdleWait:     cfg.PDFNetworkIdleWait,
		MarginInches: cfg.PDFMarginInches,
	})

	resumes := usecase.NewResumeService(store, public, log)
	exporter := usecase.NewExporter(resumes, renderer, printer, usecase.ExporterConfig{
		SanitizeClientHTML: cfg.PDFSanitizeHTML,
		LaunchesPerMinute:  cfg.PDFLaunchesPerMinute,
	}, collector, log)

	limiter := httpadapter.NewRateLimiter(httpadapter.RateLimiterConfig{PerMinute: cfg.RateLimitPerMinute}, log)
	defer limiter.Stop()

	// page load plus time spent queued behind the launch limiter
	pdfRequestTimeout := 2*cfg.PDFTimeout + cfg.PDFNetworkIdleWait
	app := httpadapter.NewApp(httpadapter.NewHandler(resumes, exporter), httpadapter.RouterConfig{
		JWTSecret:         cfg.JWTSecret,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       limiter,
		Gatherer:          reg,
		PDFRequestTimeout: pdfRequestTimeout,
		Logger:            log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", slog.String("port", cfg.Port))
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
