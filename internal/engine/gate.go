package engine

import (
	"context"
	"sync"
)

// Gate is a two-state (running/paused) barrier. Steps pass through Wait
// before running; while paused they park on a broadcast channel that is
// closed on Resume, so every parked waiter wakes at once.
//
// Invariant: paused implies resume != nil.
type Gate struct {
	mu     sync.Mutex
	paused bool
	resume chan struct{}
}

// Pause closes the gate. Pausing an already paused gate keeps the
// outstanding resume signal.
func (g *Gate) Pause() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.paused = true
	if g.resume == nil {
		g.resume = make(chan struct{})
	}
}

// Resume opens the gate and wakes all waiters.
func (g *Gate) Resume() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.paused = false
	if g.resume != nil {
		close(g.resume)
		g.resume = nil
	}
}

// Paused reports whether the gate is closed.
func (g *Gate) Paused() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.paused
}

// Wait blocks while the gate is paused. A waiter woken into a gate that was
// paused again re-blocks on the new signal.
func (g *Gate) Wait(ctx context.Context) error {
	for {
		g.mu.Lock()
		if !g.paused {
			g.mu.Unlock()
			return nil
		}
		ch := g.resume
		g.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Do runs step once the gate is open.
func (g *Gate) Do(ctx context.Context, step func() error) error {
	if err := g.Wait(ctx); err != nil {
		return err
	}
	return step()
}
