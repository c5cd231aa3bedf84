// Package guard bounds units of work to a wall-clock budget.
//
// Work runs on its own goroutine while the caller waits at most the
// declared budget. The budget is also installed as a context deadline so
// well-behaved work (HTTP requests, decodes) stops shortly after the
// caller gives up; work that ignores its context is abandoned, not
// killed. The guard never retries.
package guard

import (
	"context"
	"fmt"
	"time"
)

// State classifies how a guarded call ended.
type State int

const (
	// Completed means the work returned within budget, possibly with an error.
	Completed State = iota
	// TimedOut means the budget elapsed before the work returned.
	TimedOut
)

// Outcome carries the result of one guarded call.
type Outcome[T any] struct {
	State  State
	Value  T
	Err    error
	Budget time.Duration
}

// Success reports whether the work completed without error.
func (o Outcome[T]) Success() bool {
	return o.State == Completed && o.Err == nil
}

// Run executes fn with the given budget. If fn returns in time, its value
// and error are propagated. Otherwise Run returns a TimedOut outcome
// immediately; the goroutine running fn is left to observe its context
// deadline and its eventual result is discarded.
func Run[T any](ctx context.Context, budget time.Duration, fn func(context.Context) (T, error)) Outcome[T] {
	if budget <= 0 {
		return Outcome[T]{State: TimedOut, Budget: budget, Err: fmt.Errorf("non-positive budget %s", budget)}
	}

	workCtx, cancel := context.WithTimeout(ctx, budget)

	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)

	go func() {
		defer cancel()
		value, err := fn(workCtx)
		done <- result{value: value, err: err}
	}()

	timer := time.NewTimer(budget)
	defer timer.Stop()

	select {
	case res := <-done:
		return Outcome[T]{State: Completed, Value: res.value, Err: res.err, Budget: budget}
	case <-timer.C:
		return Outcome[T]{State: TimedOut, Budget: budget}
	case <-ctx.Done():
		return Outcome[T]{State: Completed, Err: ctx.Err(), Budget: budget}
	}
}
