package browser

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWaitElapses(t *testing.T) {
	t.Parallel()

	start := time.Now()
	if err := Wait(context.Background(), 10*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Since(start) < 10*time.Millisecond {
		t.Fatalf("returned too early")
	}
}

func TestWaitCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Wait(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCloseNilSession(t *testing.T) {
	t.Parallel()

	var s *ChromeSession
	if err := s.Close(); err != nil {
		t.Fatalf("close nil session: %v", err)
	}
}
