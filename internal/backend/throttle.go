package backend

import (
	"context"
	"sync"
	"time"
)

// throttle keeps a minimum gap between cart fetches.
type throttle struct {
	gap time.Duration

	mu   sync.Mutex
	last time.Time
}

func newThrottle(gap time.Duration) *throttle {
	return &throttle{gap: max(gap, 0)}
}

// wait blocks until gap has passed since the previous call returned, or
// until ctx is done.
func (t *throttle) wait(ctx context.Context) error {
	if t == nil || t.gap == 0 {
		return ctx.Err()
	}
	t.mu.Lock()
	delay := t.gap - time.Since(t.last)
	if t.last.IsZero() || delay < 0 {
		delay = 0
	}
	t.last = time.Now().Add(delay)
	t.mu.Unlock()

	if delay == 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
