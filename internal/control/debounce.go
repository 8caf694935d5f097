package control

import (
	"sync"
	"time"
)

const defaultDebounceWindow = 500 * time.Millisecond

// debounceGate coalesces bursts of intents into a single trailing commit:
// every Trigger restarts the settling window, and fn fires exactly once when
// a window elapses undisturbed.
type debounceGate struct {
	mu     sync.Mutex
	window time.Duration
	fn     func()
	timer  *time.Timer
	gen    uint64
}

func newDebounceGate(window time.Duration, fn func()) *debounceGate {
	if window <= 0 {
		window = defaultDebounceWindow
	}
	return &debounceGate{window: window, fn: fn}
}

// Trigger restarts the settling window.
func (g *debounceGate) Trigger() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.gen++
	gen := g.gen
	if g.timer != nil {
		g.timer.Stop()
	}
	g.timer = time.AfterFunc(g.window, func() {
		g.fire(gen)
	})
}

func (g *debounceGate) fire(gen uint64) {
	g.mu.Lock()
	if gen != g.gen {
		// A later Trigger or Stop owns the window now.
		g.mu.Unlock()
		return
	}
	g.timer = nil
	g.mu.Unlock()

	g.fn()
}

// Stop cancels any pending commit. Safe to call repeatedly.
func (g *debounceGate) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.gen++
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}
