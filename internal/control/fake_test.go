package control

import (
	"context"
	"sync"

	"github.com/lifeboard/lifeboard/internal/board"
	"github.com/lifeboard/lifeboard/internal/lifeapi"
)

// fakeService is a scriptable in-memory stand-in for the daemon API. Zero
// value behaves like a healthy daemon with an 8x8 board; individual calls
// are overridden through the function fields.
type fakeService struct {
	mu    sync.Mutex
	calls []string

	fetchFn       func(ctx context.Context) (lifeapi.BoardSnapshot, error)
	advanceFn     func(ctx context.Context, rows, columns int) (board.Board, bool, error)
	randomizeFn   func(ctx context.Context, p float64) (board.Board, error)
	resizeFn      func(ctx context.Context, rows, columns int) (board.Board, error)
	customizeFn   func(ctx context.Context, b board.Board) (board.Board, error)
	clearFn       func(ctx context.Context, rows, columns int) (board.Board, error)
	fillFn        func(ctx context.Context, rows, columns int) (board.Board, error)
	probabilityFn func(ctx context.Context, p float64) error

	inFlight    int
	maxInFlight int
}

var _ lifeapi.Service = (*fakeService)(nil)

func (f *fakeService) record(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
}

func (f *fakeService) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == op {
			n++
		}
	}
	return n
}

func (f *fakeService) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeService) FetchBoard(ctx context.Context) (lifeapi.BoardSnapshot, error) {
	f.record("fetch")
	if f.fetchFn != nil {
		return f.fetchFn(ctx)
	}
	return lifeapi.BoardSnapshot{Board: board.Empty(8, 8), LiveProbability: 0.5}, nil
}

func (f *fakeService) Advance(ctx context.Context, rows, columns int) (board.Board, bool, error) {
	f.record("advance")
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if f.advanceFn != nil {
		return f.advanceFn(ctx, rows, columns)
	}
	return board.Empty(rows, columns), false, nil
}

func (f *fakeService) Randomize(ctx context.Context, p float64) (board.Board, error) {
	f.record("randomize")
	if f.randomizeFn != nil {
		return f.randomizeFn(ctx, p)
	}
	b := board.Empty(8, 8)
	b.Cells[0][0] = 1
	return b, nil
}

func (f *fakeService) Resize(ctx context.Context, rows, columns int) (board.Board, error) {
	f.record("resize")
	if f.resizeFn != nil {
		return f.resizeFn(ctx, rows, columns)
	}
	return board.Empty(rows, columns), nil
}

func (f *fakeService) Customize(ctx context.Context, b board.Board) (board.Board, error) {
	f.record("customize")
	if f.customizeFn != nil {
		return f.customizeFn(ctx, b)
	}
	return b, nil
}

func (f *fakeService) Clear(ctx context.Context, rows, columns int) (board.Board, error) {
	f.record("clear")
	if f.clearFn != nil {
		return f.clearFn(ctx, rows, columns)
	}
	return board.Empty(rows, columns), nil
}

func (f *fakeService) Fill(ctx context.Context, rows, columns int) (board.Board, error) {
	f.record("fill")
	if f.fillFn != nil {
		return f.fillFn(ctx, rows, columns)
	}
	b := board.Empty(rows, columns)
	for i := range b.Cells {
		for j := range b.Cells[i] {
			b.Cells[i][j] = 1
		}
	}
	return b, nil
}

func (f *fakeService) SetLiveProbability(ctx context.Context, p float64) error {
	f.record("probability")
	if f.probabilityFn != nil {
		return f.probabilityFn(ctx, p)
	}
	return nil
}
