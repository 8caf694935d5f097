package control

import "github.com/lifeboard/lifeboard/internal/board"

// state is everything the controller mutates. Transitions go through apply so
// each event kind is enumerable and testable on its own.
type state struct {
	board          board.Board
	settings       board.Settings
	mode           board.Mode
	loading        bool
	pendingRows    int
	pendingColumns int
	epoch          uint64
}

type event interface {
	isEvent()
}

// evLoading toggles the loading flag around initialization.
type evLoading struct {
	loading bool
}

// evLoaded installs the initial canonical board and settings.
type evLoaded struct {
	board           board.Board
	liveProbability float64
}

// evCellToggled flips one local cell and, from Viewing, enters Customizing.
type evCellToggled struct {
	i, j int
}

// evModeChanged moves between Viewing and Customizing.
type evModeChanged struct {
	mode board.Mode
}

// evRunningChanged flips the run flag. Any change of the flag advances the
// epoch so in-flight poll responses of the old session are dropped.
type evRunningChanged struct {
	running bool
}

// evBoardAdopted installs a canonical board from a remote round-trip.
// bumpEpoch is set for non-poll mutations (customize, resize, randomize,
// clear, fill), which supersede any in-flight poll session.
type evBoardAdopted struct {
	board     board.Board
	bumpEpoch bool
}

// evProbabilityChanged stores an acknowledged live probability.
type evProbabilityChanged struct {
	p float64
}

// evRefreshChanged stores a clamped refresh interval.
type evRefreshChanged struct {
	ms int
}

// evSizeRequested records a validated resize intent awaiting debounce.
type evSizeRequested struct {
	rows, columns int
}

func (evLoading) isEvent()            {}
func (evLoaded) isEvent()             {}
func (evCellToggled) isEvent()        {}
func (evModeChanged) isEvent()        {}
func (evRunningChanged) isEvent()     {}
func (evBoardAdopted) isEvent()       {}
func (evProbabilityChanged) isEvent() {}
func (evRefreshChanged) isEvent()     {}
func (evSizeRequested) isEvent()      {}

// apply is the reducer: given a state and an event it returns the next state.
// It never performs I/O and never touches timers; the controller handles
// those around it.
func apply(s state, ev event) state {
	switch ev := ev.(type) {
	case evLoading:
		s.loading = ev.loading

	case evLoaded:
		s.board = ev.board
		s.settings.LiveProbability = ev.liveProbability
		s.loading = false

	case evCellToggled:
		if s.settings.Running || !s.board.InBounds(ev.i, ev.j) {
			return s
		}
		s.board = s.board.Clone()
		s.board.Toggle(ev.i, ev.j)
		if s.mode == board.Viewing {
			s.mode = board.Customizing
		}

	case evModeChanged:
		s.mode = ev.mode

	case evRunningChanged:
		if s.settings.Running == ev.running {
			return s
		}
		s.settings.Running = ev.running
		s.epoch++
		if ev.running {
			// Running and Customizing are mutually exclusive.
			s.mode = board.Viewing
		}

	case evBoardAdopted:
		s.board = ev.board
		if ev.bumpEpoch {
			s.epoch++
			// The adopted board is canonical; pending local edits are gone.
			s.mode = board.Viewing
		}

	case evProbabilityChanged:
		s.settings.LiveProbability = ev.p

	case evRefreshChanged:
		s.settings.RefreshInterval = board.ClampRefresh(ev.ms)

	case evSizeRequested:
		s.pendingRows = ev.rows
		s.pendingColumns = ev.columns
	}
	return s
}
