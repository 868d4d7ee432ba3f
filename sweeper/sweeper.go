// Package sweeper runs the retention sweep on a fixed schedule.
package sweeper

import (
	"context"
	"log/slog"
	"time"
)

// Retention is the sweep operation, satisfied by services.RetentionService.
type Retention interface {
	Sweep(ctx context.Context) error
}

type Sweeper struct {
	retention Retention
	interval  time.Duration
	log       *slog.Logger
}

func New(retention Retention, interval time.Duration, log *slog.Logger) *Sweeper {
	return &Sweeper{retention: retention, interval: interval, log: log}
}

// Run sweeps once per interval until ctx is cancelled. Sweep errors are
// logged and swallowed: a failed cycle never stops the schedule, the
// next tick retries from scratch.
func (s *Sweeper) Run(ctx context.Context) {
	s.log.Info("Retention sweeper started", "interval", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Retention sweeper stopped")
			return
		case <-ticker.C:
			if err := s.retention.Sweep(ctx); err != nil {
				s.log.Error("Retention sweep failed", "error", err)
			}
		}
	}
}
