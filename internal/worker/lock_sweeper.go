// Package worker holds background jobs that run next to the HTTP server.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/metinatakli/seat-reservation-system/internal/booking"
	"github.com/metinatakli/seat-reservation-system/internal/clock"
)

type ExpiredSweeper interface {
	SweepExpired(ctx context.Context, now time.Time) (booking.SweepResult, error)
}

// LockSweeper periodically removes dead seat locks and cancels holds that ran
// out. Reads already ignore expired rows.
type LockSweeper struct {
	sweeper  ExpiredSweeper
	clock    clock.Clock
	logger   *slog.Logger
	interval time.Duration

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewLockSweeper(sweeper ExpiredSweeper, c clock.Clock, logger *slog.Logger, interval time.Duration) (*LockSweeper, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("sweep interval must be positive, got %s", interval)
	}

	return &LockSweeper{
		sweeper:  sweeper,
		clock:    c,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start blocks until ctx is cancelled or Stop is called.
func (s *LockSweeper) Start(ctx context.Context) {
	defer close(s.doneCh)

	s.logger.Info("lock sweeper started", "interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("lock sweeper stopped", "reason", "context cancelled")
			return
		case <-s.stopCh:
			s.logger.Info("lock sweeper stopped", "reason", "stop requested")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// Stop signals Start to return and waits for it.
func (s *LockSweeper) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	<-s.doneCh
}

func (s *LockSweeper) sweep(ctx context.Context) {
	result, err := s.sweeper.SweepExpired(ctx, s.clock.Now())
	if err != nil {
		s.logger.Error("sweeping expired locks failed", "error", err)
		return
	}

	if result.ExpiredLocks > 0 || result.ExpiredHolds > 0 {
		s.logger.Info("expired locks swept",
			"locks", result.ExpiredLocks,
			"holds", result.ExpiredHolds,
		)
	}
}
