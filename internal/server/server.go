// Package server exposes the simulation engine over the lifeboardd HTTP API.
package server

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/lifeboard/lifeboard/internal/board"
	"github.com/lifeboard/lifeboard/internal/sim"
)

// Defaults match the original deployment.
const (
	DefaultRows            = 8
	DefaultColumns         = 8
	DefaultLiveProbability = 0.5
)

// Server owns the canonical board. One board per process; handlers serialize
// access through the mutex.
type Server struct {
	mu              sync.Mutex
	engine          *sim.Engine
	liveProbability float64
}

// New builds a server with an all-dead board of the given dimensions.
func New(rows, columns int, liveProbability float64) (*Server, error) {
	if !board.SizeInBounds(rows, columns) {
		return nil, fmt.Errorf("size %dx%d out of range [%d,%d]", rows, columns, board.MinSize, board.MaxSize)
	}
	if liveProbability < 0 || liveProbability > 1 {
		return nil, fmt.Errorf("live probability %v out of [0,1]", liveProbability)
	}
	return &Server{
		engine:          sim.New(rows, columns),
		liveProbability: liveProbability,
	}, nil
}

// Router wires the API routes onto a gin engine.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	api := r.Group("/api")
	api.GET("/board", s.getBoard)
	api.POST("/update", s.update)
	api.POST("/randomize", s.randomize)
	api.POST("/change_size", s.changeSize)
	api.POST("/customize", s.customize)
	api.POST("/clear", s.clear)
	api.POST("/fill", s.fill)
	api.POST("/live_probability", s.setLiveProbability)
	return r
}

type boardBody struct {
	Board           [][]int `json:"board"`
	Rows            int     `json:"rows"`
	Columns         int     `json:"columns"`
	LiveProbability float64 `json:"liveProbability"`
}

func (s *Server) getBoard(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.engine.Board()
	c.JSON(http.StatusOK, boardBody{
		Board:           b.Cells,
		Rows:            b.Rows,
		Columns:         b.Columns,
		LiveProbability: s.liveProbability,
	})
}

func (s *Server) update(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	static := s.engine.Step()
	c.JSON(http.StatusOK, gin.H{
		"board":    s.engine.Board().Cells,
		"isStatic": static,
	})
}

func (s *Server) randomize(c *gin.Context) {
	var req struct {
		LiveProbability *float64 `json:"liveProbability"`
	}
	// The body is optional; an absent probability falls back to the stored one.
	_ = c.ShouldBindJSON(&req)

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.liveProbability
	if req.LiveProbability != nil {
		p = *req.LiveProbability
	}
	if p < 0 || p > 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "liveProbability must be between 0 and 1"})
		return
	}

	s.engine.Randomize(p)
	s.liveProbability = p
	b := s.engine.Board()
	c.JSON(http.StatusOK, boardBody{Board: b.Cells, Rows: b.Rows, Columns: b.Columns, LiveProbability: p})
}

func (s *Server) changeSize(c *gin.Context) {
	var req struct {
		Rows    int `json:"rows"`
		Columns int `json:"columns"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rows and columns must be integers"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.engine.Resize(req.Rows, req.Columns); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b := s.engine.Board()
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Board size changed to %d rows x %d columns.", b.Rows, b.Columns),
		"rows":    b.Rows,
		"columns": b.Columns,
		"board":   b.Cells,
	})
}

func (s *Server) customize(c *gin.Context) {
	var req struct {
		Board [][]int `json:"board"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Board == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a board matrix is required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.engine.SetCells(req.Board); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Board customized successfully",
		"board":   s.engine.Board().Cells,
	})
}

func (s *Server) clear(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.engine.Clear()
	c.JSON(http.StatusOK, gin.H{"board": s.engine.Board().Cells})
}

func (s *Server) fill(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.engine.Fill()
	c.JSON(http.StatusOK, gin.H{"board": s.engine.Board().Cells})
}

func (s *Server) setLiveProbability(c *gin.Context) {
	var req struct {
		LiveProbability *float64 `json:"liveProbability"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.LiveProbability == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "liveProbability is required"})
		return
	}
	p := *req.LiveProbability
	if p < 0 || p > 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "liveProbability must be between 0 and 1"})
		return
	}

	s.mu.Lock()
	s.liveProbability = p
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Live probability set to %v", p)})
}
