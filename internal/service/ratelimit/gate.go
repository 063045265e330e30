package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Clock abstracts time so the gate is testable without real sleeps.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// RealClock returns the wall clock.
func RealClock() Clock { return realClock{} }

// Gate enforces a minimum interval between consecutive acquisitions.
// It is a single-slot gate: concurrent callers serialize on the mutex, so
// at most one guarded call is in its pre-call wait at a time.
type Gate struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	clock    Clock
}

// NewGate creates a gate with the given minimum interval.
func NewGate(interval time.Duration, clock Clock) *Gate {
	if clock == nil {
		clock = RealClock()
	}
	return &Gate{interval: interval, clock: clock}
}

// Wait blocks until at least the configured interval has elapsed since the
// previous successful Wait, then claims the slot. A canceled context
// releases the slot without claiming it.
func (g *Gate) Wait(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.last.IsZero() {
		elapsed := g.clock.Now().Sub(g.last)
		if remaining := g.interval - elapsed; remaining > 0 {
			if err := g.clock.Sleep(ctx, remaining); err != nil {
				return err
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	g.last = g.clock.Now()
	return nil
}
