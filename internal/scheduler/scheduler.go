// Package scheduler runs the periodic refresh and prune jobs.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Refresher runs one full refresh cycle across all resorts.
type Refresher interface {
	RefreshAll(ctx context.Context) error
}

// Pruner trims old snapshots from the store.
type Pruner interface {
	Prune(maxAge time.Duration, keepLast int) (int64, error)
}

// Scheduler periodically refreshes all resorts and prunes the snapshot
// store.
type Scheduler struct {
	scheduler  *gocron.Scheduler
	refresher  Refresher
	pruner     Pruner
	interval   time.Duration
	jobTimeout time.Duration
	maxAge     time.Duration
	keepLast   int
	logger     *slog.Logger
}

// New creates a Scheduler. pruner may be nil to disable pruning.
func New(refresher Refresher, pruner Pruner, interval, jobTimeout, maxAge time.Duration, keepLast int, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		scheduler:  gocron.NewScheduler(time.UTC),
		refresher:  refresher,
		pruner:     pruner,
		interval:   interval,
		jobTimeout: jobTimeout,
		maxAge:     maxAge,
		keepLast:   keepLast,
		logger:     logger,
	}
}

// Start schedules the refresh job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	interval := s.interval
	if interval <= 0 {
		interval = 30 * time.Minute
	}

	_, err := s.scheduler.Every(interval).Do(s.runOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info("scheduler started", "interval", interval)
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *Scheduler) runOnce() {
	timeout := s.jobTimeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.refresher.RefreshAll(ctx); err != nil {
		s.logger.Error("scheduled refresh failed", "error", err)
	}

	if s.pruner != nil && (s.maxAge > 0 || s.keepLast > 0) {
		deleted, err := s.pruner.Prune(s.maxAge, s.keepLast)
		if err != nil {
			s.logger.Error("snapshot prune failed", "error", err)
		} else if deleted > 0 {
			s.logger.Info("pruned old snapshots", "deleted", deleted)
		}
	}
}
