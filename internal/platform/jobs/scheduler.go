package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"mpadmin/internal/platform/metrics"
)

// Scheduler runs the purge sweep on a cron schedule. An empty schedule
// disables it.
type Scheduler struct {
	purger   *Purger
	schedule string
	metrics  *metrics.Collector
	cron     *cron.Cron

	mu      sync.Mutex
	running bool
}

func NewScheduler(purger *Purger, schedule string, collector *metrics.Collector) *Scheduler {
	return &Scheduler{
		purger:   purger,
		schedule: schedule,
		metrics:  collector,
		cron:     cron.New(),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		slog.Info("purge sweep schedule not configured, sweeper disabled")
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid purge sweep schedule %q: %w", s.schedule, err)
	}

	if _, err := s.cron.AddFunc(s.schedule, func() {
		s.runSweep(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule purge sweep: %w", err)
	}

	s.cron.Start()
	s.running = true
	slog.Info("purge sweeper started", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

func (s *Scheduler) runSweep(ctx context.Context) {
	purged, err := s.purger.Sweep(ctx, time.Now().UTC())
	if err != nil {
		slog.Error("purge sweep failed", "err", err)
		return
	}
	if s.metrics != nil {
		for i := 0; i < purged; i++ {
			s.metrics.RecordPurgedTask()
		}
	}
	if purged > 0 {
		slog.Info("purge sweep completed", "purged", purged)
	}
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		stopCtx := s.cron.Stop()
		<-stopCtx.Done()
		s.running = false
		slog.Info("purge sweeper stopped")
	}
}
