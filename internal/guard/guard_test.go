package guard

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunPropagatesValue(t *testing.T) {
	outcome := Run(context.Background(), time.Second, func(context.Context) (int, error) {
		return 42, nil
	})
	if !outcome.Success() {
		t.Fatalf("expected success, got state=%v err=%v", outcome.State, outcome.Err)
	}
	if outcome.Value != 42 {
		t.Fatalf("value = %d, want 42", outcome.Value)
	}
}

func TestRunPropagatesError(t *testing.T) {
	wantErr := errors.New("boom")
	outcome := Run(context.Background(), time.Second, func(context.Context) (struct{}, error) {
		return struct{}{}, wantErr
	})
	if outcome.State != Completed {
		t.Fatalf("state = %v, want Completed", outcome.State)
	}
	if !errors.Is(outcome.Err, wantErr) {
		t.Fatalf("err = %v, want %v", outcome.Err, wantErr)
	}
	if outcome.Success() {
		t.Fatal("Success() should be false when work errored")
	}
}

func TestRunTimesOutWithinBudget(t *testing.T) {
	budget := 50 * time.Millisecond
	started := time.Now()
	outcome := Run(context.Background(), budget, func(ctx context.Context) (int, error) {
		select {
		case <-time.After(5 * time.Second):
			return 1, nil
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	})
	elapsed := time.Since(started)

	if outcome.State != TimedOut {
		t.Fatalf("state = %v, want TimedOut", outcome.State)
	}
	// Generous slack for scheduler noise; what matters is not blocking
	// anywhere near the 5s work duration.
	if elapsed > budget+2*time.Second {
		t.Fatalf("Run blocked %s past a %s budget", elapsed, budget)
	}
}

func TestRunNeverRetries(t *testing.T) {
	var calls atomic.Int32
	Run(context.Background(), 20*time.Millisecond, func(ctx context.Context) (int, error) {
		calls.Add(1)
		<-ctx.Done()
		return 0, ctx.Err()
	})
	time.Sleep(50 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Fatalf("work invoked %d times, want exactly 1", got)
	}
}

func TestRunAbandonedWorkSeesDeadline(t *testing.T) {
	canceled := make(chan struct{})
	Run(context.Background(), 20*time.Millisecond, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		close(canceled)
		return 0, ctx.Err()
	})
	select {
	case <-canceled:
	case <-time.After(2 * time.Second):
		t.Fatal("abandoned work never observed its context deadline")
	}
}

func TestRunParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	outcome := Run(ctx, time.Second, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})
	if outcome.State == TimedOut {
		t.Fatal("parent cancellation should not be reported as a budget timeout")
	}
	if outcome.Err == nil {
		t.Fatal("expected context error")
	}
}

func TestRunRejectsNonPositiveBudget(t *testing.T) {
	outcome := Run(context.Background(), 0, func(context.Context) (int, error) { return 1, nil })
	if outcome.State != TimedOut || outcome.Err == nil {
		t.Fatalf("zero budget outcome = %+v", outcome)
	}
}
