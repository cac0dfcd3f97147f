package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/powderline/snowday/internal/adapter/http"
	"github.com/powderline/snowday/internal/adapter/ollama"
	"github.com/powderline/snowday/internal/adapter/openmeteo"
	"github.com/powderline/snowday/internal/advisor"
	"github.com/powderline/snowday/internal/config"
	"github.com/powderline/snowday/internal/domain"
	"github.com/powderline/snowday/internal/fetch"
	"github.com/powderline/snowday/internal/observability"
	"github.com/powderline/snowday/internal/pipeline"
	"github.com/powderline/snowday/internal/scheduler"
	"github.com/powderline/snowday/internal/scrape"
	"github.com/powderline/snowday/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		observability.NewLogger(os.Stderr, "info", "text").Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	registry, normalizer, err := buildSources(cfg)
	if err != nil {
		logger.Error("failed to build resort registry", "error", err)
		os.Exit(1)
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open snapshot store", "error", err, "path", cfg.DBPath)
		os.Exit(1)
	}
	defer db.Close()

	cache := fetch.NewValidationCache()
	fetcher := fetch.NewFetcher(
		&http.Client{Timeout: cfg.FetchTimeout},
		cache, logger, cfg.FetchMaxAttempts, cfg.FetchBaseDelay,
	)

	// Weather fallback fills wind and temperature gaps for resorts with
	// known coordinates.
	var weather pipeline.WeatherSource
	if cfg.WeatherFallbackEnabled {
		weather = openmeteo.NewClient(cfg.WeatherTimeout, logger)
		logger.Info("weather fallback enabled")
	} else {
		logger.Info("weather fallback disabled")
	}

	var generator advisor.Generator
	if cfg.OllamaURL != "" {
		generator = ollama.NewClient(cfg.OllamaURL, cfg.OllamaModel, cfg.OllamaTimeout, logger)
		logger.Info("text generation enabled", "model", cfg.OllamaModel)
	} else {
		logger.Info("text generation disabled, using rule-based summaries")
	}
	adv := advisor.New(generator, logger)

	p := pipeline.New(fetcher, cache, registry, normalizer, db, weather, adv, cfg.Scoring, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	var sched *scheduler.Scheduler
	if cfg.SchedulerEnabled {
		sched = scheduler.New(p, db, cfg.RefreshInterval, cfg.RefreshTimeout, cfg.PruneMaxAge, cfg.PruneKeepLast, logger)
		if err := sched.Start(); err != nil {
			logger.Error("failed to start scheduler", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Info("scheduler disabled, refresh only via POST /refresh")
	}

	// Prime the store so the service is ready soon after boot instead of
	// waiting for the first scheduled tick.
	go func() {
		refreshCtx, cancel := context.WithTimeout(ctx, cfg.RefreshTimeout)
		defer cancel()
		if err := p.RefreshAll(refreshCtx); err != nil {
			logger.Error("initial refresh failed", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	if sched != nil {
		sched.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}

// buildSources turns resort configuration into the scrape registry and the
// per-resort normalization schemas.
func buildSources(cfg *config.Config) (*scrape.Registry, *domain.Normalizer, error) {
	sources := make([]scrape.Source, 0, len(cfg.Resorts))
	schemas := make(map[string]domain.SourceSchema, len(cfg.Resorts))

	for _, rc := range cfg.Resorts {
		extractor, err := scrape.ForFormat(rc.Format)
		if err != nil {
			return nil, nil, err
		}
		sources = append(sources, scrape.Source{
			ResortID:  rc.ID,
			Name:      rc.Name,
			State:     rc.State,
			URL:       rc.ReportURL,
			Extractor: extractor,
			Selectors: scrape.Selectors(rc.Selectors),
			Latitude:  rc.Latitude,
			Longitude: rc.Longitude,
		})

		if rc.Schema == "metric" {
			schemas[rc.ID] = domain.MetricSchema()
		} else {
			schemas[rc.ID] = domain.StandardSchema()
		}
	}

	registry, err := scrape.NewRegistry(sources)
	if err != nil {
		return nil, nil, err
	}
	return registry, domain.NewNormalizer(schemas), nil
}
