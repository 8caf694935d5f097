package lifeapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Host != defaultEndpoint {
		t.Fatalf("host = %q, want %q", u.Host, defaultEndpoint)
	}

	u, err = parseBaseURL("http://example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestClient_RoundTrips(t *testing.T) {
	t.Parallel()

	p := 0.5
	var gotCustomize customizeRequest
	var gotResize resizeRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/board":
			_ = json.NewEncoder(w).Encode(BoardResponse{
				Board:           [][]int{{0, 1}, {1, 0}},
				Rows:            2,
				Columns:         2,
				LiveProbability: &p,
			})
		case "/api/update":
			_ = json.NewEncoder(w).Encode(UpdateResponse{Board: [][]int{{0, 0}, {0, 0}}, IsStatic: true})
		case "/api/change_size":
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &gotResize)
			_ = json.NewEncoder(w).Encode(BoardResponse{Board: [][]int{{0, 0, 0}}, Rows: 1, Columns: 3})
		case "/api/customize":
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &gotCustomize)
			_ = json.NewEncoder(w).Encode(CellsResponse{Board: gotCustomize.Board})
		case "/api/clear":
			_ = json.NewEncoder(w).Encode(CellsResponse{Board: [][]int{{0, 0}, {0, 0}}})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	snap, err := c.FetchBoard(ctx)
	if err != nil {
		t.Fatalf("FetchBoard returned error: %v", err)
	}
	if snap.Board.Rows != 2 || snap.Board.Columns != 2 || snap.LiveProbability != 0.5 {
		t.Fatalf("FetchBoard = %#v, want 2x2 with p=0.5", snap)
	}

	b, static, err := c.Advance(ctx, 2, 2)
	if err != nil {
		t.Fatalf("Advance returned error: %v", err)
	}
	if !static || b.HasLife() {
		t.Fatalf("Advance = (%#v, %v), want dead static board", b, static)
	}

	resized, err := c.Resize(ctx, 1, 3)
	if err != nil {
		t.Fatalf("Resize returned error: %v", err)
	}
	if resized.Rows != 1 || resized.Columns != 3 {
		t.Fatalf("Resize dimensions = %dx%d, want 1x3", resized.Rows, resized.Columns)
	}
	if gotResize.Rows != 1 || gotResize.Columns != 3 {
		t.Fatalf("resize request = %#v, want rows=1 columns=3", gotResize)
	}

	pushed, err := c.Customize(ctx, snap.Board)
	if err != nil {
		t.Fatalf("Customize returned error: %v", err)
	}
	if pushed.Cells[0][1] != 1 {
		t.Fatalf("Customize echo = %#v, want pushed cells", pushed.Cells)
	}
	if len(gotCustomize.Board) != 2 {
		t.Fatalf("customize request board = %#v, want 2 rows", gotCustomize.Board)
	}

	cleared, err := c.Clear(ctx, 2, 2)
	if err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if cleared.HasLife() {
		t.Fatalf("Clear board = %#v, want all dead", cleared.Cells)
	}
}

func TestClient_StatusErrorCarriesBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: "size 0x10 out of range"})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.Resize(context.Background(), 0, 10)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Resize error = %v, want *StatusError", err)
	}
	if statusErr.Status != http.StatusBadRequest || statusErr.Message == "" {
		t.Fatalf("StatusError = %#v, want 400 with message", statusErr)
	}
}

func TestClient_MalformedResponses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"ragged rows", `{"board": [[0,1],[0]], "rows": 2, "columns": 2, "liveProbability": 0.5}`},
		{"row count mismatch", `{"board": [[0,1]], "rows": 2, "columns": 2, "liveProbability": 0.5}`},
		{"cell out of range", `{"board": [[0,3],[0,0]], "rows": 2, "columns": 2, "liveProbability": 0.5}`},
		{"missing probability", `{"board": [[0,1],[0,0]], "rows": 2, "columns": 2}`},
		{"probability out of range", `{"board": [[0,1],[0,0]], "rows": 2, "columns": 2, "liveProbability": 1.5}`},
		{"not json", `<html>oops</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(server.Close)

			c, err := NewClient(server.URL)
			if err != nil {
				t.Fatalf("NewClient returned error: %v", err)
			}
			if _, err := c.FetchBoard(context.Background()); !errors.Is(err, ErrMalformed) {
				t.Fatalf("FetchBoard error = %v, want ErrMalformed", err)
			}
		})
	}
}
