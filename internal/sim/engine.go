// Package sim implements the Game of Life engine behind the lifeboard daemon.
// Edges do not wrap: cells beyond the border count as dead neighbours.
package sim

import (
	"fmt"
	"math/rand"

	"github.com/lifeboard/lifeboard/internal/board"
)

// Engine owns the canonical board and its previous generation, which is what
// static detection compares against.
type Engine struct {
	current  board.Board
	previous [][]int
}

// New returns an engine with an all-dead board of the given dimensions.
func New(rows, columns int) *Engine {
	return &Engine{current: board.Empty(rows, columns)}
}

// Board returns a snapshot of the current generation.
func (e *Engine) Board() board.Board {
	return e.current.Clone()
}

// Step advances one generation and reports whether the board reached a fixed
// point (the new generation equals the one before it).
func (e *Engine) Step() bool {
	next := board.Empty(e.current.Rows, e.current.Columns)
	for i := 0; i < e.current.Rows; i++ {
		for j := 0; j < e.current.Columns; j++ {
			next.Cells[i][j] = nextCell(e.current, i, j)
		}
	}
	e.previous = e.current.Cells
	e.current = next
	return e.isStatic()
}

func (e *Engine) isStatic() bool {
	if e.previous == nil {
		return false
	}
	for i, row := range e.current.Cells {
		for j, cell := range row {
			if cell != e.previous[i][j] {
				return false
			}
		}
	}
	return true
}

func nextCell(b board.Board, i, j int) int {
	live := 0
	for di := -1; di <= 1; di++ {
		for dj := -1; dj <= 1; dj++ {
			if di == 0 && dj == 0 {
				continue
			}
			if b.InBounds(i+di, j+dj) {
				live += b.Cells[i+di][j+dj]
			}
		}
	}
	switch {
	case b.Cells[i][j] == 1 && (live < 2 || live > 3):
		return 0
	case b.Cells[i][j] == 0 && live == 3:
		return 1
	default:
		return b.Cells[i][j]
	}
}

// Randomize reseeds every cell alive with probability p, retrying until the
// board contains at least one live cell so a run has something to do.
func (e *Engine) Randomize(p float64) {
	for {
		fresh := board.Empty(e.current.Rows, e.current.Columns)
		for i := range fresh.Cells {
			for j := range fresh.Cells[i] {
				if rand.Float64() < p {
					fresh.Cells[i][j] = 1
				}
			}
		}
		if fresh.HasLife() {
			e.replace(fresh)
			return
		}
		if p <= 0 {
			// Never terminates otherwise; seed a single cell instead.
			fresh.Cells[0][0] = 1
			e.replace(fresh)
			return
		}
	}
}

// Clear kills every cell.
func (e *Engine) Clear() {
	e.replace(board.Empty(e.current.Rows, e.current.Columns))
}

// Fill sets every cell alive.
func (e *Engine) Fill() {
	fresh := board.Empty(e.current.Rows, e.current.Columns)
	for i := range fresh.Cells {
		for j := range fresh.Cells[i] {
			fresh.Cells[i][j] = 1
		}
	}
	e.replace(fresh)
}

// Resize discards the board and starts over all-dead at the new dimensions.
func (e *Engine) Resize(rows, columns int) error {
	if !board.SizeInBounds(rows, columns) {
		return fmt.Errorf("size %dx%d out of range [%d,%d]", rows, columns, board.MinSize, board.MaxSize)
	}
	e.replace(board.Empty(rows, columns))
	return nil
}

// SetCells replaces the board with user-supplied cells, which must match the
// current dimensions exactly.
func (e *Engine) SetCells(cells [][]int) error {
	fresh, err := board.New(cells, e.current.Rows, e.current.Columns)
	if err != nil {
		return err
	}
	e.replace(fresh)
	return nil
}

// replace installs a new canonical board and forgets the previous generation
// so the next Step never reports static against an unrelated board.
func (e *Engine) replace(b board.Board) {
	e.current = b
	e.previous = nil
}
