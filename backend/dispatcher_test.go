package backend

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestDispatcher_RetriesThenGivesUpSilently(t *testing.T) {
	d := NewDispatcher(WithRetry(3, time.Millisecond))

	var calls atomic.Int32
	d.Go("update_item", func(context.Context) error {
		calls.Add(1)
		return errors.New("remote down")
	})
	d.Flush()

	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestDispatcher_StopsAfterSuccess(t *testing.T) {
	d := NewDispatcher(WithRetry(5, time.Millisecond))

	var calls atomic.Int32
	d.Go("create_space", func(context.Context) error {
		if calls.Add(1) < 2 {
			return errors.New("flaky")
		}
		return nil
	})
	d.Flush()

	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
}

func TestDispatcher_FlushAwaitsAllOps(t *testing.T) {
	d := NewDispatcher(WithRetry(1, time.Millisecond))

	var done atomic.Int32
	for i := 0; i < 10; i++ {
		d.Go("op", func(context.Context) error {
			done.Add(1)
			return nil
		})
	}
	d.Flush()

	if got := done.Load(); got != 10 {
		t.Fatalf("expected 10 completed ops after Flush, got %d", got)
	}
}
