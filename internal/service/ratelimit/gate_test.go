package ratelimit

import (
	"context"
	"testing"
	"time"
)

// fakeClock advances instantly on Sleep and records requested durations.
type fakeClock struct {
	now   time.Time
	slept []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
	return nil
}

func TestGateFirstWaitPassesImmediately(t *testing.T) {
	clock := newFakeClock()
	g := NewGate(2*time.Second, clock)

	if err := g.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clock.slept) != 0 {
		t.Fatalf("first wait must not sleep, slept %v", clock.slept)
	}
}

func TestGateEnforcesMinInterval(t *testing.T) {
	clock := newFakeClock()
	g := NewGate(2*time.Second, clock)
	ctx := context.Background()

	if err := g.Wait(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.Wait(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clock.slept) != 1 || clock.slept[0] != 2*time.Second {
		t.Fatalf("expected one full-interval sleep, got %v", clock.slept)
	}
}

func TestGateSkipsSleepAfterIdlePeriod(t *testing.T) {
	clock := newFakeClock()
	g := NewGate(2*time.Second, clock)
	ctx := context.Background()

	if err := g.Wait(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	clock.now = clock.now.Add(5 * time.Second)
	if err := g.Wait(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clock.slept) != 0 {
		t.Fatalf("idle gate must not sleep, slept %v", clock.slept)
	}
}

func TestGateCanceledContextDoesNotClaimSlot(t *testing.T) {
	clock := newFakeClock()
	g := NewGate(2*time.Second, clock)

	if err := g.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claimed := clock.now

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := g.Wait(ctx); err == nil {
		t.Fatalf("expected cancellation error")
	}
	if !g.last.Equal(claimed) {
		t.Fatalf("canceled wait must not move the claim time")
	}
}
