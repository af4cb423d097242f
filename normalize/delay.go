package normalize

import (
	"context"
	"time"
)

// sleepContext waits for d or until ctx is done, whichever comes first.
// A non-positive d returns immediately unless ctx is already done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
