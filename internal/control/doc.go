// Package control implements the board synchronization controller: the logic
// that reconciles a locally editable board mirror with the remotely simulated
// canonical board served by lifeboardd.
//
// # Overview
//
// Three asynchronous processes interact while the user can edit cells, switch
// modes, and change parameters at any moment:
//
//   - a poll session that repeatedly asks the daemon to advance the
//     simulation while the run flag is set
//   - a debounce window that coalesces bursts of resize intents into a
//     single committed request
//   - an error message with a fixed display lifetime
//
// Each process is an explicit object with deterministic cancellation
// (pollScheduler, debounceGate, errorPresenter). Nothing is tied to a UI
// framework's lifecycle; the TUI only reads Snapshot and forwards intents.
//
// # State and the reducer
//
// All mutable state sits in one struct behind the controller's mutex, and
// every transition goes through apply(state, event), a pure reducer with one
// case per event kind. The lock is never held across a network round-trip:
// a remote operation captures the epoch token, releases the lock, performs
// the call, then re-takes the lock and applies the response only if the
// epoch is unchanged.
//
// # Epoch token
//
// The epoch is a counter advanced whenever the run flag changes or a
// non-poll mutation (customize, resize, randomize, clear, fill) replaces the
// canonical board. A response carrying a stale epoch is dropped, never
// merged: a late poll reply cannot resurrect a stopped run, and a late
// resize reply cannot clobber a newer customize.
//
// # Polling
//
// The poll scheduler is self-rescheduling: the next timer is armed only
// after the previous advance resolves, so no two advance calls are ever in
// flight at once. A poll failure stops the run rather than hammering a
// broken backend. A reply with isStatic set stops the run cleanly.
//
// # Modes
//
// Viewing and Customizing are the two modes; Running is a settings flag and
// is mutually exclusive with Customizing. Toggling the run flag on while
// customizing pushes the pending edits first and refuses to start when that
// push fails, so edits are never silently discarded. A failed push keeps the
// controller in Customizing for a retry.
package control
