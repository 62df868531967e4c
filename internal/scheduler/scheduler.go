package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ReservationSweeper is the slice of the reservation service the scheduler
// drives.
type ReservationSweeper interface {
	SweepMissedCheckIns(ctx context.Context) (int64, error)
	SweepOverdueCheckouts(ctx context.Context) (int64, error)
}

// SweepResult reports how many reservations each sweep touched.
type SweepResult struct {
	CancelledCount  int64 `json:"cancelled_count"`
	CheckedOutCount int64 `json:"checked_out_count"`
}

// Scheduler runs the time-driven reservation sweeps on a fixed interval.
// Each invocation is independent; a failed sweep is simply retried on the
// next tick.
type Scheduler struct {
	reservations ReservationSweeper
	logger       *zap.Logger
	interval     time.Duration
	stopChan     chan struct{}
}

func New(reservations ReservationSweeper, logger *zap.Logger, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Scheduler{
		reservations: reservations,
		logger:       logger,
		interval:     interval,
		stopChan:     make(chan struct{}),
	}
}

// Start launches the sweep loop in the background.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("starting reservation scheduler", zap.Duration("interval", s.interval))
	go s.run(ctx)
}

// Stop terminates the sweep loop.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping reservation scheduler")
	close(s.stopChan)
}

func (s *Scheduler) run(ctx context.Context) {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.stopChan:
			s.logger.Info("reservation scheduler stopped")
			return
		case <-ctx.Done():
			s.logger.Info("reservation scheduler cancelled")
			return
		}
	}
}

func (s *Scheduler) sweep(ctx context.Context) {
	result, err := s.RunAllTasks(ctx)
	if err != nil {
		s.logger.Error("reservation sweep failed", zap.Error(err))
		return
	}
	if result.CancelledCount > 0 || result.CheckedOutCount > 0 {
		s.logger.Info("reservation sweep completed",
			zap.Int64("cancelled", result.CancelledCount),
			zap.Int64("checked_out", result.CheckedOutCount))
	}
}

// RunAllTasks runs the missed-check-in sweep, then the overdue-checkout
// sweep. An error aborts the invocation; counts for work already committed
// are still returned.
func (s *Scheduler) RunAllTasks(ctx context.Context) (SweepResult, error) {
	var result SweepResult

	cancelled, err := s.reservations.SweepMissedCheckIns(ctx)
	result.CancelledCount = cancelled
	if err != nil {
		return result, err
	}

	checkedOut, err := s.reservations.SweepOverdueCheckouts(ctx)
	result.CheckedOutCount = checkedOut
	if err != nil {
		return result, err
	}
	return result, nil
}
