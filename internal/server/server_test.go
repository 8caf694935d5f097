package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	s, err := New(DefaultRows, DefaultColumns, DefaultLiveProbability)
	require.NoError(t, err)
	return s.Router()
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestGetBoard_Defaults(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/board", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[boardBody](t, w)
	require.Equal(t, DefaultRows, resp.Rows)
	require.Equal(t, DefaultColumns, resp.Columns)
	require.Len(t, resp.Board, DefaultRows)
	for _, row := range resp.Board {
		require.Len(t, row, DefaultColumns)
	}
	require.Equal(t, DefaultLiveProbability, resp.LiveProbability)
}

func TestUpdate_BlockReportsStatic(t *testing.T) {
	router := newTestRouter(t)

	cells := make([][]int, DefaultRows)
	for i := range cells {
		cells[i] = make([]int, DefaultColumns)
	}
	cells[1][1], cells[1][2], cells[2][1], cells[2][2] = 1, 1, 1, 1
	w := doJSON(t, router, http.MethodPost, "/api/customize", gin.H{"board": cells})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/update", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[struct {
		Board    [][]int `json:"board"`
		IsStatic bool    `json:"isStatic"`
	}](t, w)
	require.True(t, resp.IsStatic)
	require.Equal(t, 1, resp.Board[1][1])
}

func TestCustomize_RejectsBadShapes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name string
		body any
	}{
		{"missing board", gin.H{}},
		{"wrong row count", gin.H{"board": [][]int{{0, 0}}}},
		{"cell out of range", gin.H{"board": func() [][]int {
			cells := make([][]int, DefaultRows)
			for i := range cells {
				cells[i] = make([]int, DefaultColumns)
			}
			cells[0][0] = 7
			return cells
		}()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/api/customize", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			resp := decode[map[string]string](t, w)
			require.NotEmpty(t, resp["error"])
		})
	}
}

func TestChangeSize_BoundsEnforced(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/change_size", gin.H{"rows": 12, "columns": 9})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[struct {
		Rows    int     `json:"rows"`
		Columns int     `json:"columns"`
		Board   [][]int `json:"board"`
	}](t, w)
	require.Equal(t, 12, resp.Rows)
	require.Equal(t, 9, resp.Columns)
	require.Len(t, resp.Board, 12)

	for _, size := range []gin.H{
		{"rows": 0, "columns": 10},
		{"rows": 10, "columns": 0},
		{"rows": 51, "columns": 10},
		{"rows": 10, "columns": 51},
	} {
		w := doJSON(t, router, http.MethodPost, "/api/change_size", size)
		require.Equal(t, http.StatusBadRequest, w.Code, "size %v", size)
	}
}

func TestRandomize_UsesAndStoresProbability(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/randomize", gin.H{"liveProbability": 1.0})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[boardBody](t, w)
	for _, row := range resp.Board {
		for _, cell := range row {
			require.Equal(t, 1, cell, "p=1 must fill the board")
		}
	}

	// The stored probability is reported by a subsequent board fetch.
	w = doJSON(t, router, http.MethodGet, "/api/board", nil)
	require.Equal(t, 1.0, decode[boardBody](t, w).LiveProbability)

	w = doJSON(t, router, http.MethodPost, "/api/randomize", gin.H{"liveProbability": 1.5})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClearAndFill(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/fill", nil)
	require.Equal(t, http.StatusOK, w.Code)
	filled := decode[map[string][][]int](t, w)
	require.Equal(t, 1, filled["board"][0][0])

	w = doJSON(t, router, http.MethodPost, "/api/clear", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cleared := decode[map[string][][]int](t, w)
	for _, row := range cleared["board"] {
		for _, cell := range row {
			require.Zero(t, cell)
		}
	}
}

func TestSetLiveProbability(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/live_probability", gin.H{"liveProbability": 0.25})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/board", nil)
	require.Equal(t, 0.25, decode[boardBody](t, w).LiveProbability)

	w = doJSON(t, router, http.MethodPost, "/api/live_probability", gin.H{})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNew_RejectsBadConfig(t *testing.T) {
	_, err := New(0, 8, 0.5)
	require.Error(t, err)
	_, err = New(8, 8, 2)
	require.Error(t, err)
}
