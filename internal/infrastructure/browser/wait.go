package browser

import (
	"context"
	"time"
)

// Wait blocks for d or until ctx is done. Pages need time to settle after navigation and scrolling.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
