package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter enforces a minimum interval between requests per source, plus a
// fixed backoff window after the remote side signals throttling.
type Limiter struct {
	mu      sync.Mutex
	sources map[string]*sourceState
	// defaults applied to sources seen for the first time
	minInterval time.Duration
	backoff     time.Duration
}

type sourceState struct {
	lastRequest  time.Time
	backoffUntil time.Time
}

// New builds a limiter with a shared per-source cooldown and backoff window.
func New(minInterval, backoff time.Duration) *Limiter {
	return &Limiter{
		sources:     make(map[string]*sourceState),
		minInterval: minInterval,
		backoff:     backoff,
	}
}

// Wait blocks until it is safe to hit the source again, honoring both the
// cooldown interval and any active backoff window.
func (l *Limiter) Wait(ctx context.Context, source string) error {
	for {
		l.mu.Lock()
		state := l.state(source)
		now := time.Now()

		wait := state.backoffUntil.Sub(now)
		if cooldown := l.minInterval - now.Sub(state.lastRequest); cooldown > wait {
			wait = cooldown
		}

		if wait <= 0 {
			state.lastRequest = now
			l.mu.Unlock()
			return nil
		}
		l.mu.Unlock()

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Backoff opens the fixed backoff window for the source.
func (l *Limiter) Backoff(source string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state(source).backoffUntil = time.Now().Add(l.backoff)
}

func (l *Limiter) state(source string) *sourceState {
	s, ok := l.sources[source]
	if !ok {
		s = &sourceState{}
		l.sources[source] = s
	}
	return s
}
