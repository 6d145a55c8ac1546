package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	applog "expense-tracker/internal/log"
)

func TestRunUntilSignal(t *testing.T) {
	logger := applog.Discard()

	t.Run("normal return runs cleanup", func(t *testing.T) {
		cleaned := 0
		err := RunUntilSignal(context.Background(), logger,
			func(ctx context.Context) error { return nil },
			func() error { cleaned++; return nil })
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cleaned != 1 {
			t.Fatalf("cleanup ran %d times", cleaned)
		}
	})

	t.Run("run error is returned", func(t *testing.T) {
		boom := errors.New("boom")
		cleaned := false
		err := RunUntilSignal(context.Background(), logger,
			func(ctx context.Context) error { return boom },
			func() error { cleaned = true; return nil })
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
		if !cleaned {
			t.Fatalf("cleanup must run after a failure")
		}
	})

	t.Run("cleanup error is joined", func(t *testing.T) {
		closeErr := errors.New("close failed")
		err := RunUntilSignal(context.Background(), logger,
			func(ctx context.Context) error { return nil },
			func() error { return closeErr })
		if !errors.Is(err, closeErr) {
			t.Fatalf("expected cleanup error, got %v", err)
		}
	})

	t.Run("parent cancellation stops run", func(t *testing.T) {
		parent, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()
		err := RunUntilSignal(parent, logger,
			func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			}, nil)
		if err != nil {
			t.Fatalf("cancellation should end cleanly, got %v", err)
		}
	})
}
