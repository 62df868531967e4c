package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakeSweeper struct {
	cancelled     int64
	checkedOut    int64
	cancelErr     error
	checkoutErr   error
	cancelCalls   atomic.Int64
	checkoutCalls atomic.Int64
}

func (f *fakeSweeper) SweepMissedCheckIns(_ context.Context) (int64, error) {
	f.cancelCalls.Add(1)
	return f.cancelled, f.cancelErr
}

func (f *fakeSweeper) SweepOverdueCheckouts(_ context.Context) (int64, error) {
	f.checkoutCalls.Add(1)
	return f.checkedOut, f.checkoutErr
}

func TestRunAllTasks_Counts(t *testing.T) {
	sweeper := &fakeSweeper{cancelled: 2, checkedOut: 3}
	s := New(sweeper, zap.NewNop(), time.Minute)

	result, err := s.RunAllTasks(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.CancelledCount != 2 || result.CheckedOutCount != 3 {
		t.Errorf("unexpected result: %+v", result)
	}
	if sweeper.cancelCalls.Load() != 1 || sweeper.checkoutCalls.Load() != 1 {
		t.Errorf("expected both sweeps to run once")
	}
}

func TestRunAllTasks_CancelSweepErrorAborts(t *testing.T) {
	wantErr := errors.New("db down")
	sweeper := &fakeSweeper{cancelled: 1, cancelErr: wantErr}
	s := New(sweeper, zap.NewNop(), time.Minute)

	result, err := s.RunAllTasks(context.Background())
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected sweep error, got %v", err)
	}
	// The checkout sweep must not run after the cancel sweep fails.
	if sweeper.checkoutCalls.Load() != 0 {
		t.Errorf("checkout sweep ran after cancel sweep failure")
	}
	// Work committed before the failure is still reported.
	if result.CancelledCount != 1 {
		t.Errorf("expected partial count 1, got %d", result.CancelledCount)
	}
}

func TestRunAllTasks_CheckoutSweepError(t *testing.T) {
	wantErr := errors.New("db down")
	sweeper := &fakeSweeper{cancelled: 1, checkedOut: 2, checkoutErr: wantErr}
	s := New(sweeper, zap.NewNop(), time.Minute)

	result, err := s.RunAllTasks(context.Background())
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected sweep error, got %v", err)
	}
	if result.CancelledCount != 1 || result.CheckedOutCount != 2 {
		t.Errorf("unexpected partial result: %+v", result)
	}
}

func TestStartStop(t *testing.T) {
	sweeper := &fakeSweeper{}
	s := New(sweeper, zap.NewNop(), time.Hour)

	s.Start(context.Background())
	defer s.Stop()

	// The loop sweeps once immediately on start.
	deadline := time.After(time.Second)
	for sweeper.cancelCalls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("initial sweep never ran")
		default:
			time.Sleep(time.Millisecond)
		}
	}
}
