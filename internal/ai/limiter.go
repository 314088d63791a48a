package ai

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// Limiter is one request budget shared by the chat and image decorators,
// since both draw on the same provider quota.
type Limiter struct {
	rl      *rate.Limiter
	stopped context.Context
	stop    context.CancelFunc
}

// NewLimiter allows rps requests per second with the given burst. rps <= 0
// disables limiting.
func NewLimiter(rps float64, burst int) *Limiter {
	stopped, stop := context.WithCancel(context.Background())
	l := &Limiter{stopped: stopped, stop: stop}
	if rps > 0 {
		if burst <= 0 {
			burst = 1
		}
		l.rl = rate.NewLimiter(rate.Limit(rps), burst)
	}
	return l
}

// Acquire takes one request slot, waiting for refill if needed. It fails
// with ctx's error, with context.DeadlineExceeded when the next slot comes
// after ctx's deadline, and with context.Canceled once the limiter stopped.
func (l *Limiter) Acquire(ctx context.Context) error {
	if l == nil {
		return nil
	}
	if l.stopped.Err() != nil {
		return context.Canceled
	}
	if l.rl == nil {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	release := context.AfterFunc(l.stopped, cancel)
	defer release()

	if err := l.rl.Wait(ctx); err != nil {
		switch {
		case l.stopped.Err() != nil:
			return context.Canceled
		case ctx.Err() != nil:
			return ctx.Err()
		}
		return fmt.Errorf("ai: rate limit: %w", context.DeadlineExceeded)
	}
	return nil
}

// Stop wakes every waiting Acquire. It is safe to call more than once.
func (l *Limiter) Stop() {
	if l == nil {
		return
	}
	l.stop()
}
