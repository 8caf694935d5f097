// Package board holds the domain types shared between the lifeboard client
// and daemon: the cell matrix with its shape invariant, the game settings,
// and the client-side interaction mode.
package board

import "fmt"

// Cell bounds accepted for either dimension of a board.
const (
	MinSize = 1
	MaxSize = 50
)

// Board is a rectangular matrix of binary cells. A zero Board is empty and
// invalid; construct one through New or Empty so the shape invariant holds.
type Board struct {
	Cells   [][]int
	Rows    int
	Columns int
}

// New validates cells against the expected dimensions and returns a deep copy.
// Every row must have exactly columns entries and every cell must be 0 or 1.
func New(cells [][]int, rows, columns int) (Board, error) {
	if rows < MinSize || columns < MinSize {
		return Board{}, fmt.Errorf("board dimensions %dx%d: must be at least %dx%d", rows, columns, MinSize, MinSize)
	}
	if len(cells) != rows {
		return Board{}, fmt.Errorf("board has %d rows, expected %d", len(cells), rows)
	}
	dup := make([][]int, rows)
	for i, row := range cells {
		if len(row) != columns {
			return Board{}, fmt.Errorf("row %d has %d columns, expected %d", i, len(row), columns)
		}
		dup[i] = make([]int, columns)
		for j, cell := range row {
			if cell != 0 && cell != 1 {
				return Board{}, fmt.Errorf("cell (%d,%d) is %d, expected 0 or 1", i, j, cell)
			}
			dup[i][j] = cell
		}
	}
	return Board{Cells: dup, Rows: rows, Columns: columns}, nil
}

// Empty returns an all-dead board of the given dimensions.
func Empty(rows, columns int) Board {
	cells := make([][]int, rows)
	for i := range cells {
		cells[i] = make([]int, columns)
	}
	return Board{Cells: cells, Rows: rows, Columns: columns}
}

// Clone returns a deep copy so callers can hand out snapshots without
// exposing internal rows to mutation.
func (b Board) Clone() Board {
	dup := make([][]int, len(b.Cells))
	for i, row := range b.Cells {
		dup[i] = make([]int, len(row))
		copy(dup[i], row)
	}
	return Board{Cells: dup, Rows: b.Rows, Columns: b.Columns}
}

// InBounds reports whether (i, j) addresses a cell on the board.
func (b Board) InBounds(i, j int) bool {
	return i >= 0 && i < b.Rows && j >= 0 && j < b.Columns
}

// Toggle flips cell (i, j) between dead and alive. Out-of-bounds coordinates
// are ignored.
func (b *Board) Toggle(i, j int) {
	if !b.InBounds(i, j) {
		return
	}
	b.Cells[i][j] = 1 - b.Cells[i][j]
}

// HasLife reports whether any cell is alive.
func (b Board) HasLife() bool {
	for _, row := range b.Cells {
		for _, cell := range row {
			if cell == 1 {
				return true
			}
		}
	}
	return false
}

// SizeInBounds reports whether both dimensions fall inside [MinSize, MaxSize].
func SizeInBounds(rows, columns int) bool {
	return rows >= MinSize && rows <= MaxSize && columns >= MinSize && columns <= MaxSize
}

// Mode is the client-side interaction mode. Running is not a Mode: it is
// Settings.Running, and is mutually exclusive with Customizing.
type Mode int

const (
	// Viewing is the idle mode: the canonical board is displayed as-is.
	Viewing Mode = iota
	// Customizing means the user has local edits not yet pushed upstream.
	Customizing
)

// String implements fmt.Stringer for log and status output.
func (m Mode) String() string {
	switch m {
	case Customizing:
		return "customizing"
	default:
		return "viewing"
	}
}

// Settings carries the simulation parameters the user can adjust.
type Settings struct {
	Running         bool
	LiveProbability float64
	RefreshInterval int // milliseconds, within [MinRefreshMS, MaxRefreshMS]
}

// Refresh interval bounds in milliseconds.
const (
	MinRefreshMS = 50
	MaxRefreshMS = 1000
)

// ClampRefresh constrains an interval to the supported range.
func ClampRefresh(ms int) int {
	if ms < MinRefreshMS {
		return MinRefreshMS
	}
	if ms > MaxRefreshMS {
		return MaxRefreshMS
	}
	return ms
}
