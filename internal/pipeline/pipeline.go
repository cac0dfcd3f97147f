// Package pipeline orchestrates the fetch-extract-normalize-reconcile-store
// flow for every configured resort and serves the stored results as
// conditions and rankings.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/powderline/snowday/internal/advisor"
	"github.com/powderline/snowday/internal/domain"
	"github.com/powderline/snowday/internal/fetch"
	"github.com/powderline/snowday/internal/observability"
	"github.com/powderline/snowday/internal/scrape"
	"github.com/powderline/snowday/internal/store"
)

// ErrNoCachedRecord means the source answered 304 but the validation cache
// holds no record to serve, which happens only if cache state was lost.
var ErrNoCachedRecord = errors.New("source returned 304 but no cached record exists")

// Storage persists condition snapshots and serves them back newest first.
type Storage interface {
	Add(rec domain.ConditionRecord) error
	Latest(resortID string) (domain.ConditionRecord, error)
	Recent(resortID string, limit int) ([]domain.ConditionRecord, error)
}

// WeatherSource backfills wind and temperature when a report page omits them.
type WeatherSource interface {
	Current(ctx context.Context, lat, lon float64) (domain.WeatherObservation, error)
}

// Summarizer turns scored resorts into a short recommendation text.
type Summarizer interface {
	SummarizeTop(ctx context.Context, resorts []advisor.ScoredResort, topN int) string
}

// Pipeline wires the fetcher, registry, normalizer, and store together.
// Weather and summarizer are optional; nil disables that stage.
type Pipeline struct {
	fetcher    *fetch.Fetcher
	cache      *fetch.ValidationCache
	registry   *scrape.Registry
	normalizer *domain.Normalizer
	store      Storage
	weather    WeatherSource
	summarizer Summarizer
	scoring    domain.ScoringConfig
	logger     *slog.Logger
	metrics    *observability.Metrics
	ready      atomic.Bool
}

// New creates a Pipeline.
func New(
	fetcher *fetch.Fetcher,
	cache *fetch.ValidationCache,
	registry *scrape.Registry,
	normalizer *domain.Normalizer,
	storage Storage,
	weather WeatherSource,
	summarizer Summarizer,
	scoring domain.ScoringConfig,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *Pipeline {
	return &Pipeline{
		fetcher:    fetcher,
		cache:      cache,
		registry:   registry,
		normalizer: normalizer,
		store:      storage,
		weather:    weather,
		summarizer: summarizer,
		scoring:    scoring,
		logger:     logger,
		metrics:    metrics,
	}
}

// CheckReadiness returns nil once at least one refresh cycle has completed,
// or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no refresh cycle has completed yet")
	}
	return nil
}

// Ingest refreshes a single resort: fetch the report page, extract and
// normalize it (or reuse the cached record on HTTP 304), backfill weather,
// reconcile operational status, and append the snapshot to the store.
func (p *Pipeline) Ingest(ctx context.Context, resortID string) (domain.ConditionRecord, error) {
	src, err := p.registry.Lookup(resortID)
	if err != nil {
		return domain.ConditionRecord{}, err
	}

	res, err := p.fetcher.Fetch(ctx, src.URL)
	if err != nil {
		p.metrics.FetchRequests.WithLabelValues("error").Inc()
		return domain.ConditionRecord{}, err
	}

	var rec domain.ConditionRecord
	if res.NotModified {
		cached, ok := p.cache.Get(src.URL)
		if !ok {
			p.metrics.FetchRequests.WithLabelValues("error").Inc()
			return domain.ConditionRecord{}, fmt.Errorf("resort %s: %w", resortID, ErrNoCachedRecord)
		}
		p.metrics.FetchRequests.WithLabelValues("not_modified").Inc()
		p.metrics.CacheHits.Inc()
		p.logger.Debug("report unchanged, using cached record", "resort", resortID)
		rec = cached
		rec.Timestamp = domain.Now().UTC()
	} else {
		p.metrics.FetchRequests.WithLabelValues("ok").Inc()
		raw, err := src.Extractor.Extract(string(res.Body), src.Selectors)
		if err != nil {
			return domain.ConditionRecord{}, fmt.Errorf("resort %s: extract: %w", resortID, err)
		}
		rec = p.normalizer.Normalize(resortID, raw, time.Time{})
		p.cache.Update(src.URL, res.ValidationToken, rec)
	}

	rec = p.backfillWeather(ctx, src, rec)
	rec = domain.Reconcile(rec)

	if err := p.store.Add(rec); err != nil {
		return domain.ConditionRecord{}, fmt.Errorf("resort %s: store: %w", resortID, err)
	}
	return rec, nil
}

// backfillWeather fills missing wind speed and max temperature from the
// weather source. Failures are logged and the record passes through
// unchanged.
func (p *Pipeline) backfillWeather(ctx context.Context, src scrape.Source, rec domain.ConditionRecord) domain.ConditionRecord {
	if p.weather == nil || src.Latitude == nil || src.Longitude == nil {
		return rec
	}
	if rec.WindSpeed != nil && rec.TempMax != nil {
		return rec
	}

	obs, err := p.weather.Current(ctx, *src.Latitude, *src.Longitude)
	if err != nil {
		p.logger.Warn("weather fallback failed", "resort", rec.ResortID, "error", err)
		return rec
	}

	filled := false
	if rec.WindSpeed == nil && obs.WindSpeedMPH != nil {
		rec.WindSpeed = obs.WindSpeedMPH
		filled = true
	}
	if rec.TempMax == nil && obs.TemperatureF != nil {
		rec.TempMax = obs.TemperatureF
		filled = true
	}
	if filled {
		p.metrics.WeatherFallback.Inc()
		p.logger.Debug("weather fallback applied", "resort", rec.ResortID)
	}
	return rec
}

// RefreshAll ingests every configured resort concurrently. Individual
// failures are logged and do not abort the cycle; an error is returned only
// when every resort failed.
func (p *Pipeline) RefreshAll(ctx context.Context) error {
	ids := p.registry.IDs()
	start := time.Now()
	p.logger.Info("refresh cycle started", "resorts", len(ids))

	var (
		wg       sync.WaitGroup
		failures atomic.Int64
	)
	for _, id := range ids {
		wg.Add(1)
		go func(resortID string) {
			defer wg.Done()
			if _, err := p.Ingest(ctx, resortID); err != nil {
				failures.Add(1)
				p.metrics.ResortRefreshes.WithLabelValues("error").Inc()
				p.logger.Error("resort refresh failed", "resort", resortID, "error", err)
				return
			}
			p.metrics.ResortRefreshes.WithLabelValues("ok").Inc()
		}(id)
	}
	wg.Wait()

	p.metrics.RefreshCycles.Inc()
	p.metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)

	failed := int(failures.Load())
	p.logger.Info("refresh cycle finished",
		"resorts", len(ids), "failed", failed, "duration", time.Since(start))

	if len(ids) > 0 && failed == len(ids) {
		return fmt.Errorf("refresh cycle: all %d resorts failed", failed)
	}
	return nil
}

// Refresh triggers a full refresh cycle. It exists so transport handlers can
// depend on a narrow method name.
func (p *Pipeline) Refresh(ctx context.Context) error {
	return p.RefreshAll(ctx)
}

// Condition is a resort's latest stored record with display metadata.
type Condition struct {
	Name  string `json:"name"`
	State string `json:"state,omitempty"`
	domain.ConditionRecord
}

// ConditionSet is the latest condition per resort.
type ConditionSet struct {
	UpdatedAt *time.Time  `json:"updated_at,omitempty"`
	Resorts   []Condition `json:"resorts"`
}

// LatestConditions returns the newest stored record for every resort that
// has one, in registry order.
func (p *Pipeline) LatestConditions(_ context.Context) (ConditionSet, error) {
	var set ConditionSet
	for _, id := range p.registry.IDs() {
		rec, err := p.store.Latest(id)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return ConditionSet{}, fmt.Errorf("latest conditions for %s: %w", id, err)
		}
		src, err := p.registry.Lookup(id)
		if err != nil {
			return ConditionSet{}, err
		}
		set.Resorts = append(set.Resorts, Condition{
			Name:            src.Name,
			State:           src.State,
			ConditionRecord: rec,
		})
		if set.UpdatedAt == nil || rec.Timestamp.After(*set.UpdatedAt) {
			ts := rec.Timestamp
			set.UpdatedAt = &ts
		}
	}
	return set, nil
}

// Ranking is a resort's score with the record it was computed from.
type Ranking struct {
	Name       string                 `json:"name"`
	State      string                 `json:"state,omitempty"`
	Score      float64                `json:"score"`
	Rationale  string                 `json:"rationale"`
	Powder     bool                   `json:"powder"`
	Icy        bool                   `json:"icy"`
	Conditions domain.ConditionRecord `json:"conditions"`
}

// RankingSet is all scored resorts, best first, with an optional summary.
type RankingSet struct {
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	Rankings  []Ranking  `json:"rankings"`
	Summary   string     `json:"summary,omitempty"`
}

// Rankings scores every resort's latest record against its previous one and
// returns them sorted best first.
func (p *Pipeline) Rankings(ctx context.Context) (RankingSet, error) {
	var (
		set    RankingSet
		scored []advisor.ScoredResort
	)

	for _, id := range p.registry.IDs() {
		recs, err := p.store.Recent(id, 2)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return RankingSet{}, fmt.Errorf("rankings for %s: %w", id, err)
		}
		src, err := p.registry.Lookup(id)
		if err != nil {
			return RankingSet{}, err
		}

		current := recs[0]
		var previous *domain.ConditionRecord
		if len(recs) > 1 {
			previous = &recs[1]
		}

		result := domain.Score(current, previous, p.scoring)
		p.metrics.ResortScore.WithLabelValues(id).Set(result.Score)

		set.Rankings = append(set.Rankings, Ranking{
			Name:       src.Name,
			State:      src.State,
			Score:      result.Score,
			Rationale:  result.Rationale,
			Powder:     result.Powder,
			Icy:        result.Icy,
			Conditions: current,
		})
		scored = append(scored, scoredResort(src.Name, current, result))

		if set.UpdatedAt == nil || current.Timestamp.After(*set.UpdatedAt) {
			ts := current.Timestamp
			set.UpdatedAt = &ts
		}
	}

	sort.SliceStable(set.Rankings, func(i, j int) bool {
		return set.Rankings[i].Score > set.Rankings[j].Score
	})

	if p.summarizer != nil && len(scored) > 0 {
		set.Summary = p.summarizer.SummarizeTop(ctx, scored, 3)
	}
	return set, nil
}

func scoredResort(name string, rec domain.ConditionRecord, result domain.ScoreResult) advisor.ScoredResort {
	return advisor.ScoredResort{
		Name:        name,
		Score:       result.Score,
		Rationale:   result.Rationale,
		Powder:      result.Powder,
		Icy:         result.Icy,
		Snowfall24h: rec.Snowfall24h,
		Snowfall12h: rec.Snowfall12h,
		BaseDepth:   rec.BaseDepth,
		WindSpeed:   rec.WindSpeed,
		TempMin:     rec.TempMin,
		TempMax:     rec.TempMax,
		PrecipType:  rec.PrecipType,
		Operational: rec.Operational,
		LiftsOpen:   rec.LiftsOpen,
		LiftsTotal:  rec.LiftsTotal,
		TrailsOpen:  rec.TrailsOpen,
		TrailsTotal: rec.TrailsTotal,
	}
}
