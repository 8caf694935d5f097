package control

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"github.com/lifeboard/lifeboard/internal/board"
	"github.com/lifeboard/lifeboard/internal/lifeapi"
)

const (
	defaultRequestTimeout  = 5 * time.Second
	defaultRefreshMS       = 200
	defaultLiveProbability = 0.5
)

// ValidationError reports client-side rejection of user input. It
// short-circuits before any network call; state is unchanged.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// Options configure a Controller. Service is required; zero durations fall
// back to defaults.
type Options struct {
	Service        lifeapi.Service
	Context        context.Context // base context for timer-driven calls
	RequestTimeout time.Duration
	DebounceWindow time.Duration // resize settling window
	ErrorTTL       time.Duration // error auto-expiry
	RefreshMS      int           // initial poll interval, clamped to [50,1000]
}

// Snapshot is the read model handed to the UI on every tick. ErrorExpiry is
// the moment the pending error clears on its own; zero when Error is empty.
type Snapshot struct {
	Board       board.Board
	Settings    board.Settings
	Mode        board.Mode
	Loading     bool
	Error       string
	ErrorExpiry time.Time
}

// Controller reconciles the locally editable board mirror with the remotely
// simulated canonical board. All state lives behind one mutex; the lock is
// never held across a network round-trip, and every response is checked
// against the epoch captured when its request was issued.
type Controller struct {
	svc     lifeapi.Service
	timeout time.Duration

	baseCtx context.Context
	cancel  context.CancelFunc

	mu     sync.Mutex
	st     state
	closed bool

	poll   *pollScheduler
	resize *debounceGate
	errs   *errorPresenter
}

// New wires a controller with its schedulers. Call Initialize before use and
// Close at teardown.
func New(opts Options) *Controller {
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	base := opts.Context
	if base == nil {
		base = context.Background()
	}
	base, cancel := context.WithCancel(base)

	refresh := opts.RefreshMS
	if refresh == 0 {
		refresh = defaultRefreshMS
	}

	c := &Controller{
		svc:     opts.Service,
		timeout: timeout,
		baseCtx: base,
		cancel:  cancel,
		st: state{
			board: board.Empty(1, 1),
			settings: board.Settings{
				LiveProbability: defaultLiveProbability,
				RefreshInterval: board.ClampRefresh(refresh),
			},
		},
		errs: newErrorPresenter(opts.ErrorTTL),
	}
	c.poll = newPollScheduler(c.pollOnce)
	c.resize = newDebounceGate(opts.DebounceWindow, c.commitResize)
	return c
}

// Close cancels all timers and makes every in-flight response handler a
// no-op. Safe to call once the UI is gone.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.st.epoch++ // invalidate anything still in flight
	c.mu.Unlock()

	c.poll.Stop()
	c.resize.Stop()
	c.errs.Stop()
	c.cancel()
}

// Snapshot returns a copy of the current state for rendering.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	msg, deadline, _ := c.errs.Current()
	return Snapshot{
		Board:       c.st.board.Clone(),
		Settings:    c.st.settings,
		Mode:        c.st.mode,
		Loading:     c.st.loading,
		Error:       msg,
		ErrorExpiry: deadline,
	}
}

// Initialize fetches the canonical board and settings. On failure the
// controller stays in Viewing with an empty board and the error is surfaced;
// every operation remains retryable.
func (c *Controller) Initialize(ctx context.Context) error {
	c.mu.Lock()
	c.st = apply(c.st, evLoading{loading: true})
	c.mu.Unlock()

	snap, err := c.fetchBoard(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.st = apply(c.st, evLoading{loading: false})
	if err != nil {
		c.errs.Set(failMsg("load board", err))
		return err
	}
	c.st = apply(c.st, evLoaded{board: snap.Board, liveProbability: snap.LiveProbability})
	c.errs.Clear()
	return nil
}

func (c *Controller) fetchBoard(ctx context.Context) (lifeapi.BoardSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.svc.FetchBoard(ctx)
}

// ToggleCell flips one cell locally. A no-op while running; no network call
// is made. From Viewing the first toggle enters Customizing.
func (c *Controller) ToggleCell(i, j int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.st = apply(c.st, evCellToggled{i: i, j: j})
}

// StartCustomizing enters Customizing, stopping a run first when needed.
// Stopping is local only; the daemon simply stops being polled.
func (c *Controller) StartCustomizing() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.st.settings.Running {
		c.stopRunningLocked()
	}
	c.st = apply(c.st, evModeChanged{mode: board.Customizing})
}

// FinishCustomizing pushes local edits to the daemon and adopts its
// (possibly renormalized) reply. On failure the controller stays in
// Customizing so the edits survive for a retry.
func (c *Controller) FinishCustomizing(ctx context.Context) error {
	c.mu.Lock()
	if c.st.mode != board.Customizing {
		c.mu.Unlock()
		return nil
	}
	dirty := c.st.board.Clone()
	epoch := c.st.epoch
	c.mu.Unlock()

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	adopted, err := c.svc.Customize(callCtx, dirty)
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.errs.Set(failMsg("save board", err))
		return err
	}
	if c.st.epoch != epoch {
		// A superseding mutation won the race; drop this reply.
		return nil
	}
	c.st = apply(c.st, evBoardAdopted{board: adopted, bumpEpoch: true})
	c.st = apply(c.st, evModeChanged{mode: board.Viewing})
	c.errs.Clear()
	return nil
}

// ToggleRunning flips the run flag. Pending customization is pushed first so
// edits are never silently discarded; if that push fails the run does not
// start.
func (c *Controller) ToggleRunning(ctx context.Context) error {
	c.mu.Lock()
	customizing := c.st.mode == board.Customizing
	c.mu.Unlock()

	if customizing {
		if err := c.FinishCustomizing(ctx); err != nil {
			return err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.st.settings.Running {
		c.stopRunningLocked()
	} else {
		c.st = apply(c.st, evRunningChanged{running: true})
		c.poll.Start(c.refreshLocked())
	}
	return nil
}

// stopRunningLocked flips the run flag off and cancels the poll session. The
// epoch bump inside the reducer invalidates any poll still in flight.
func (c *Controller) stopRunningLocked() {
	c.st = apply(c.st, evRunningChanged{running: false})
	c.poll.Stop()
}

func (c *Controller) refreshLocked() time.Duration {
	return time.Duration(c.st.settings.RefreshInterval) * time.Millisecond
}

// pollOnce is the scheduler callback: one advance round-trip, then the delay
// before the next one and whether the session continues.
func (c *Controller) pollOnce() (time.Duration, bool) {
	c.mu.Lock()
	if !c.st.settings.Running || c.closed {
		c.mu.Unlock()
		return 0, false
	}
	epoch := c.st.epoch
	rows, columns := c.st.board.Rows, c.st.board.Columns
	c.mu.Unlock()

	callCtx, cancel := context.WithTimeout(c.baseCtx, c.timeout)
	next, static, err := c.svc.Advance(callCtx, rows, columns)
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.st.epoch != epoch {
		// Running was toggled or a newer mutation superseded this session.
		return 0, false
	}
	if err != nil {
		// Fail safe: never keep polling a failing backend.
		log.Printf("simulation poll failed: %v", err)
		c.stopRunningLocked()
		c.errs.Set(failMsg("advance simulation", err))
		return 0, false
	}
	c.st = apply(c.st, evBoardAdopted{board: next, bumpEpoch: false})
	if static {
		c.stopRunningLocked()
		return 0, false
	}
	return c.refreshLocked(), true
}

// SetSize records a resize intent and restarts the debounce window. Invalid
// sizes are rejected before the gate is touched.
func (c *Controller) SetSize(rows, columns int) error {
	if !board.SizeInBounds(rows, columns) {
		err := ValidationError(fmt.Sprintf("size must be between %dx%d and %dx%d",
			board.MinSize, board.MinSize, board.MaxSize, board.MaxSize))
		c.errs.Set(err.Error())
		return err
	}

	c.mu.Lock()
	c.st = apply(c.st, evSizeRequested{rows: rows, columns: columns})
	c.mu.Unlock()

	c.resize.Trigger()
	return nil
}

// commitResize fires once the debounce window settles. On failure the prior
// canonical board and dimensions stay untouched.
func (c *Controller) commitResize() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	rows, columns := c.st.pendingRows, c.st.pendingColumns
	epoch := c.st.epoch
	c.mu.Unlock()

	callCtx, cancel := context.WithTimeout(c.baseCtx, c.timeout)
	adopted, err := c.svc.Resize(callCtx, rows, columns)
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.errs.Set(failMsg("resize board", err))
		return
	}
	if c.st.epoch != epoch {
		return
	}
	c.adoptLocked(adopted)
}

// Randomize reseeds the remote board with the stored live probability.
func (c *Controller) Randomize(ctx context.Context) error {
	c.mu.Lock()
	p := c.st.settings.LiveProbability
	c.mu.Unlock()
	return c.boardOp(ctx, "randomize board", func(callCtx context.Context) (board.Board, error) {
		return c.svc.Randomize(callCtx, p)
	})
}

// Clear kills every remote cell and adopts the resulting board.
func (c *Controller) Clear(ctx context.Context) error {
	return c.boardOp(ctx, "clear board", func(callCtx context.Context) (board.Board, error) {
		c.mu.Lock()
		rows, columns := c.st.board.Rows, c.st.board.Columns
		c.mu.Unlock()
		return c.svc.Clear(callCtx, rows, columns)
	})
}

// Fill sets every remote cell alive and adopts the resulting board.
func (c *Controller) Fill(ctx context.Context) error {
	return c.boardOp(ctx, "fill board", func(callCtx context.Context) (board.Board, error) {
		c.mu.Lock()
		rows, columns := c.st.board.Rows, c.st.board.Columns
		c.mu.Unlock()
		return c.svc.Fill(callCtx, rows, columns)
	})
}

// boardOp is the shared shape of the remote mutations that atomically replace
// the canonical board: capture the epoch, call out, drop stale replies, adopt.
func (c *Controller) boardOp(ctx context.Context, op string, call func(context.Context) (board.Board, error)) error {
	c.mu.Lock()
	epoch := c.st.epoch
	c.mu.Unlock()

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	adopted, err := call(callCtx)
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.errs.Set(failMsg(op, err))
		return err
	}
	if c.st.epoch != epoch {
		return nil
	}
	c.adoptLocked(adopted)
	return nil
}

// adoptLocked installs a non-poll canonical board. The epoch bump ends any
// in-flight poll session, so a running simulation gets a fresh one.
func (c *Controller) adoptLocked(b board.Board) {
	c.st = apply(c.st, evBoardAdopted{board: b, bumpEpoch: true})
	c.errs.Clear()
	if c.st.settings.Running {
		c.poll.Reschedule(c.refreshLocked())
	}
}

// SetLiveProbability stores p remotely and locally once acknowledged.
func (c *Controller) SetLiveProbability(ctx context.Context, p float64) error {
	if p < 0 || p > 1 {
		err := ValidationError("live probability must be between 0 and 1")
		c.errs.Set(err.Error())
		return err
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	err := c.svc.SetLiveProbability(callCtx, p)
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.errs.Set(failMsg("set live probability", err))
		return err
	}
	c.st = apply(c.st, evProbabilityChanged{p: p})
	c.errs.Clear()
	return nil
}

// SetRefreshInterval clamps ms to [50,1000] and stores it. While running the
// pending poll timer is re-armed immediately with the new interval.
func (c *Controller) SetRefreshInterval(ms int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.st = apply(c.st, evRefreshChanged{ms: ms})
	if c.st.settings.Running {
		c.poll.Reschedule(c.refreshLocked())
	}
}

// failMsg turns a transport or validation error into the message shown to
// the user.
func failMsg(op string, err error) string {
	var statusErr *lifeapi.StatusError
	var netErr net.Error
	switch {
	case errors.Is(err, lifeapi.ErrMalformed):
		return fmt.Sprintf("%s: server sent an invalid response", op)
	case errors.As(err, &statusErr):
		if statusErr.Message != "" {
			return fmt.Sprintf("%s: %s", op, statusErr.Message)
		}
		return fmt.Sprintf("%s: server error (%d)", op, statusErr.Status)
	case errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Sprintf("%s: request timed out", op)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("%s: request timed out", op)
	default:
		return fmt.Sprintf("%s: %v", op, err)
	}
}
