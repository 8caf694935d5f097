// Package ui renders the board and forwards user intents to the sync
// controller. It is deliberately thin: every rule about modes, epochs and
// timers lives in internal/control, and the model here only reads snapshots
// on a fixed tick.
package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lifeboard/lifeboard/internal/board"
	"github.com/lifeboard/lifeboard/internal/control"
)

const snapshotTick = 100 * time.Millisecond

// Options configure the UI runtime.
type Options struct {
	Controller *control.Controller
	Context    context.Context
}

// Run blocks until the user quits or the context is cancelled.
func Run(opts Options) error {
	if opts.Controller == nil {
		return fmt.Errorf("ui requires a controller")
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	p := tea.NewProgram(newModel(ctx, opts.Controller), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

type tickMsg time.Time

// opDoneMsg signals a controller round-trip finished. Failures are already
// surfaced through the controller's error presenter, so it carries nothing.
type opDoneMsg struct{}

type model struct {
	ctx  context.Context
	ctl  *control.Controller
	snap control.Snapshot

	cursorRow, cursorCol int

	// Accumulated resize target for +/- bursts. Reseeded from the snapshot
	// once a burst goes quiet.
	targetRows, targetCols int
	lastSizePress          time.Time

	sizePrompt textinput.Model
	prompting  bool

	width, height int
}

func newModel(ctx context.Context, ctl *control.Controller) model {
	prompt := textinput.New()
	prompt.Placeholder = "rows x columns"
	prompt.CharLimit = 16
	prompt.Prompt = "size: "

	return model{
		ctx:        ctx,
		ctl:        ctl,
		snap:       ctl.Snapshot(),
		sizePrompt: prompt,
	}
}

func (m model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(snapshotTick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.snap = m.ctl.Snapshot()
		m.clampCursor()
		return m, tick()

	case opDoneMsg:
		m.snap = m.ctl.Snapshot()
		m.clampCursor()
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.prompting {
			return m.updatePrompt(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

// op wraps a controller round-trip as a command so the event loop never
// blocks on the network.
func (m model) op(fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		_ = fn(ctx) // surfaced via the controller's error presenter
		return opDoneMsg{}
	}
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		m.cursorRow--
	case "down", "j":
		m.cursorRow++
	case "left", "h":
		m.cursorCol--
	case "right", "l":
		m.cursorCol++

	case " ":
		m.ctl.ToggleCell(m.cursorRow, m.cursorCol)
		m.snap = m.ctl.Snapshot()

	case "e":
		m.ctl.StartCustomizing()
		m.snap = m.ctl.Snapshot()

	case "s":
		return m, m.op(m.ctl.FinishCustomizing)

	case "r":
		return m, m.op(m.ctl.ToggleRunning)

	case "R":
		return m, m.op(m.ctl.Randomize)

	case "c":
		return m, m.op(m.ctl.Clear)

	case "f":
		return m, m.op(m.ctl.Fill)

	case "+", "=":
		m.adjustSize(1)
	case "-", "_":
		m.adjustSize(-1)

	case "z":
		m.prompting = true
		m.sizePrompt.SetValue("")
		m.sizePrompt.Focus()
		return m, textinput.Blink

	case ">":
		p := m.snap.Settings.LiveProbability + 0.05
		if p > 1 {
			p = 1
		}
		return m, m.probabilityCmd(p)
	case "<":
		p := m.snap.Settings.LiveProbability - 0.05
		if p < 0 {
			p = 0
		}
		return m, m.probabilityCmd(p)

	case ".":
		m.ctl.SetRefreshInterval(m.snap.Settings.RefreshInterval + 50)
		m.snap = m.ctl.Snapshot()
	case ",":
		m.ctl.SetRefreshInterval(m.snap.Settings.RefreshInterval - 50)
		m.snap = m.ctl.Snapshot()
	}

	m.clampCursor()
	return m, nil
}

func (m model) probabilityCmd(p float64) tea.Cmd {
	return m.op(func(ctx context.Context) error {
		return m.ctl.SetLiveProbability(ctx, p)
	})
}

// adjustSize grows or shrinks both dimensions by delta. Bursts accumulate on
// a local target so the controller's debounce gate sees the full intent.
func (m *model) adjustSize(delta int) {
	if time.Since(m.lastSizePress) > time.Second || m.targetRows == 0 {
		m.targetRows = m.snap.Board.Rows
		m.targetCols = m.snap.Board.Columns
	}
	m.lastSizePress = time.Now()
	m.targetRows += delta
	m.targetCols += delta
	_ = m.ctl.SetSize(m.targetRows, m.targetCols)
	m.snap = m.ctl.Snapshot()
}

func (m model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.prompting = false
		m.sizePrompt.Blur()
		return m, nil
	case "enter":
		m.prompting = false
		m.sizePrompt.Blur()
		if rows, cols, ok := parseSize(m.sizePrompt.Value()); ok {
			_ = m.ctl.SetSize(rows, cols)
			m.snap = m.ctl.Snapshot()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.sizePrompt, cmd = m.sizePrompt.Update(msg)
	return m, cmd
}

// parseSize accepts "12x9", "12 9" or "12,9".
func parseSize(value string) (rows, cols int, ok bool) {
	fields := strings.FieldsFunc(strings.TrimSpace(value), func(r rune) bool {
		return r == 'x' || r == 'X' || r == ' ' || r == ','
	})
	if len(fields) != 2 {
		return 0, 0, false
	}
	rows, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, false
	}
	cols, err = strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, false
	}
	return rows, cols, true
}

func (m *model) clampCursor() {
	if m.cursorRow < 0 {
		m.cursorRow = 0
	}
	if max := m.snap.Board.Rows - 1; m.cursorRow > max && max >= 0 {
		m.cursorRow = max
	}
	if m.cursorCol < 0 {
		m.cursorCol = 0
	}
	if max := m.snap.Board.Columns - 1; m.cursorCol > max && max >= 0 {
		m.cursorCol = max
	}
}

var _ tea.Model = model{}

// boardModeLabel names the current state for the header.
func boardModeLabel(snap control.Snapshot) string {
	switch {
	case snap.Loading:
		return "loading"
	case snap.Settings.Running:
		return "running"
	case snap.Mode == board.Customizing:
		return "customizing"
	default:
		return "viewing"
	}
}
