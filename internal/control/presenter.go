package control

import (
	"sync"
	"time"
)

const defaultErrorTTL = 5 * time.Second

// errorPresenter holds at most one user-visible error message and clears it
// after a fixed TTL. Setting a new message while one is pending resets the
// deadline (last write wins).
type errorPresenter struct {
	mu       sync.Mutex
	ttl      time.Duration
	msg      string
	deadline time.Time
	timer    *time.Timer
	gen      uint64
}

func newErrorPresenter(ttl time.Duration) *errorPresenter {
	if ttl <= 0 {
		ttl = defaultErrorTTL
	}
	return &errorPresenter{ttl: ttl}
}

// Set installs msg and arms a fresh expiry timer, cancelling any prior one.
func (p *errorPresenter) Set(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.gen++
	gen := p.gen
	if p.timer != nil {
		p.timer.Stop()
	}
	p.msg = msg
	p.deadline = time.Now().Add(p.ttl)
	p.timer = time.AfterFunc(p.ttl, func() {
		p.expire(gen)
	})
}

// expire clears the message only when no newer Set or Clear superseded the
// timer that fired.
func (p *errorPresenter) expire(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return
	}
	p.msg = ""
	p.deadline = time.Time{}
	p.timer = nil
}

// Clear drops the current message and cancels its expiry timer.
func (p *errorPresenter) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.gen++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.msg = ""
	p.deadline = time.Time{}
}

// Current returns the pending message and its expiry deadline, if any.
func (p *errorPresenter) Current() (string, time.Time, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.msg, p.deadline, p.msg != ""
}

// Stop is Clear under a name that reads right at teardown.
func (p *errorPresenter) Stop() {
	p.Clear()
}
