package ingest

import (
	"context"
	"log/slog"
	"time"

	"newsloom/internal/featureflags"
	"newsloom/internal/middleware"
)

// Runner is the pipeline entry point shared by the scheduler and the manual
// admin trigger.
type Runner interface {
	Run(ctx context.Context, trigger string) (Result, error)
}

// Scheduler fires the pipeline on a fixed interval. It adds no coordination
// beyond the ticker; an overlapping manual trigger runs concurrently.
type Scheduler struct {
	runner   Runner
	interval time.Duration
	flags    *featureflags.Manager
	logger   *slog.Logger
}

// NewScheduler returns a scheduler for the given runner.
func NewScheduler(runner Runner, interval time.Duration, flags *featureflags.Manager) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{
		runner:   runner,
		interval: interval,
		flags:    flags,
		logger:   middleware.Logger,
	}
}

// Start launches the ticker loop. It returns immediately; the loop stops
// when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	go s.loop(ctx)
}

func (s *Scheduler) loop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("ingestion scheduler started", slog.Duration("interval", s.interval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("ingestion scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if !s.flags.EnabledDefault(featureflags.FlagAutoIngest, 0, true) {
		s.logger.Info("scheduled ingestion skipped, auto_ingest flag disabled")
		return
	}

	result, err := s.runner.Run(ctx, TriggerScheduled)
	if err != nil {
		s.logger.Error("scheduled ingestion failed", slog.String("error", err.Error()))
		return
	}
	s.logger.Info("scheduled ingestion completed",
		slog.Int("success", result.Success),
		slog.Int("failed", result.Failed),
	)
}
