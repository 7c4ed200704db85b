package gazelle

import (
	"context"
	"time"
)

// rateLimiter enforces a minimum interval between outbound requests. It
// is a single-permit semaphore: wait acquires the slot and the slot is
// only released by touch or penalize after the request completes, so
// concurrent callers serialize for the whole request, not just the
// pacing sleep. time.Time carries a monotonic reading, so wall-clock
// jumps do not break the pacing.
type rateLimiter struct {
	slot     chan struct{}
	interval time.Duration
	last     time.Time
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{
		slot:     make(chan struct{}, 1),
		interval: interval,
		last:     time.Now(),
	}
}

// wait acquires the slot, then blocks until at least interval has
// elapsed since the last recorded completion. On success the slot stays
// held; the caller must release it with touch or penalize once the
// request finishes.
func (l *rateLimiter) wait(ctx context.Context) error {
	select {
	case l.slot <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	if d := l.interval - time.Since(l.last); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			<-l.slot
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}

// touch records a request completion and releases the slot.
func (l *rateLimiter) touch() {
	l.last = time.Now()
	<-l.slot
}

// penalize records a completion pushed penalty into the future, delaying
// the next request by interval+penalty, and releases the slot.
func (l *rateLimiter) penalize(penalty time.Duration) {
	l.last = time.Now().Add(penalty)
	<-l.slot
}
