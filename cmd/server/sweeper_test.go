package main

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (s *countingSweeper) Sweep(context.Context) (int64, error) {
	s.calls.Add(1)
	return 1, s.err
}

func TestSweepEvery_TicksUntilCanceled(t *testing.T) {
	for _, sweepErr := range []error{nil, errors.New("store down")} {
		s := &countingSweeper{err: sweepErr}
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			sweepEvery(ctx, s, 5*time.Millisecond)
			close(done)
		}()

		deadline := time.Now().Add(2 * time.Second)
		for s.calls.Load() < 3 && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		cancel()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("sweepEvery did not stop after cancel")
		}
		if s.calls.Load() < 3 {
			t.Fatalf("err=%v: sweeps = %d; want >= 3", sweepErr, s.calls.Load())
		}
	}
}
