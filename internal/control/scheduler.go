package control

import (
	"sync"
	"time"
)

// pollScheduler drives repeated simulation polls. It is self-rescheduling:
// the next timer is armed only after run returns, so no two runs are ever in
// flight at once. run reports the delay before the next poll and whether the
// session should continue.
type pollScheduler struct {
	mu    sync.Mutex
	run   func() (time.Duration, bool)
	timer *time.Timer
	gen   uint64

	// inFlight is set while run executes. Rescheduling during a run must not
	// arm a timer of its own (that could start a second run concurrently);
	// the request is parked in deferred and honored when the run completes.
	inFlight    bool
	deferred    time.Duration
	hasDeferred bool
}

func newPollScheduler(run func() (time.Duration, bool)) *pollScheduler {
	return &pollScheduler{run: run}
}

// Start arms the first poll after d, cancelling any existing session.
func (s *pollScheduler) Start(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.armLocked(d)
}

// Reschedule cancels a pending (not yet fired) timer and re-arms it with a
// new delay. While a run is in flight no timer is armed here — that would
// allow two runs to overlap; instead the delay is parked and applied by the
// completion path.
func (s *pollScheduler) Reschedule(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight {
		s.deferred = d
		s.hasDeferred = true
		return
	}
	s.armLocked(d)
}

// Stop cancels the pending timer and invalidates the session so an in-flight
// run cannot re-arm.
func (s *pollScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.hasDeferred = false
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *pollScheduler) armLocked(d time.Duration) {
	s.gen++
	s.hasDeferred = false
	gen := s.gen
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(d, func() {
		s.fire(gen)
	})
}

func (s *pollScheduler) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.inFlight = true
	s.mu.Unlock()

	// The lock is not held across run: run calls back into the controller,
	// and the controller calls Stop/Reschedule under its own lock.
	next, ok := s.run()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if gen != s.gen {
		// Stopped or restarted while the poll was in flight.
		return
	}
	if s.hasDeferred {
		// A reschedule arrived mid-run; it owns the next delay. This also
		// keeps a session alive when a superseding board adoption made this
		// run's result stale (ok is false then, but the adoption wants a
		// fresh poll).
		d := s.deferred
		s.armLocked(d)
		return
	}
	if !ok {
		return
	}
	s.armLocked(next)
}
