// Package scheduler drives the daily maintenance work: the enforcement sweep
// and the weekly contribution automation. The cadence is a plain 24h ticker;
// the exact wall-clock moment is a deployment concern.
package scheduler

import (
	"context"
	"time"

	"coopfund/internal/contribution"
	"coopfund/internal/enforcement"
	"coopfund/internal/logger"
)

const defaultInterval = 24 * time.Hour

type Scheduler struct {
	enforcement  enforcement.Service
	contribution contribution.Service
	interval     time.Duration
}

func New(enforcementSvc enforcement.Service, contributionSvc contribution.Service) *Scheduler {
	return &Scheduler{
		enforcement:  enforcementSvc,
		contribution: contributionSvc,
		interval:     defaultInterval,
	}
}

// Start blocks until ctx is cancelled. Run it in its own goroutine.
func (s *Scheduler) Start(ctx context.Context) {
	logger.Infof("Scheduler started, interval %s", s.interval)

	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Scheduler stopped")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	now := time.Now()

	summary, err := s.enforcement.RunSweep(ctx, now)
	if err != nil {
		logger.Errorf("Enforcement sweep failed: %v", err)
	} else {
		logger.Info("Scheduled enforcement sweep done",
			"processed", summary.Processed,
			"suspended", summary.Suspended,
			"banned", summary.Banned,
		)
	}

	if err := s.contribution.RunWeeklyAutomation(ctx, now); err != nil {
		logger.Errorf("Weekly contribution automation failed: %v", err)
	}
}
