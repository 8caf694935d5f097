// Package lifeapi talks to the lifeboardd HTTP API and validates every
// response against the board invariants before handing it to callers.
package lifeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lifeboard/lifeboard/internal/board"
)

// Service is the remote board service surface the sync controller consumes.
// Implemented by *Client; tests substitute fakes.
type Service interface {
	FetchBoard(ctx context.Context) (BoardSnapshot, error)
	Advance(ctx context.Context, rows, columns int) (board.Board, bool, error)
	Randomize(ctx context.Context, p float64) (board.Board, error)
	Resize(ctx context.Context, rows, columns int) (board.Board, error)
	Customize(ctx context.Context, b board.Board) (board.Board, error)
	Clear(ctx context.Context, rows, columns int) (board.Board, error)
	Fill(ctx context.Context, rows, columns int) (board.Board, error)
	SetLiveProbability(ctx context.Context, p float64) error
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

// BoardSnapshot is the validated result of fetching the canonical board.
type BoardSnapshot struct {
	Board           board.Board
	LiveProbability float64
}

// Client talks to the lifeboardd HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultEndpoint  = "127.0.0.1:8391"
	defaultUserAgent = "lifeboard/0.1"
	requestTimeout   = 5 * time.Second
)

// NewClient builds a Client for the provided host:port endpoint.
func NewClient(endpoint string) (*Client, error) {
	base, err := parseBaseURL(endpoint)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// FetchBoard retrieves the canonical board and simulation settings.
func (c *Client) FetchBoard(ctx context.Context) (BoardSnapshot, error) {
	var payload BoardResponse
	if err := c.do(ctx, http.MethodGet, "/api/board", nil, &payload); err != nil {
		return BoardSnapshot{}, err
	}
	b, err := board.New(payload.Board, payload.Rows, payload.Columns)
	if err != nil {
		return BoardSnapshot{}, malformed(err)
	}
	if payload.LiveProbability == nil {
		return BoardSnapshot{}, malformed(fmt.Errorf("liveProbability missing"))
	}
	p := *payload.LiveProbability
	if p < 0 || p > 1 {
		return BoardSnapshot{}, malformed(fmt.Errorf("liveProbability %v out of [0,1]", p))
	}
	return BoardSnapshot{Board: b, LiveProbability: p}, nil
}

// Advance requests one simulation step. The response carries only the matrix,
// so it is validated against the caller's current dimensions.
func (c *Client) Advance(ctx context.Context, rows, columns int) (board.Board, bool, error) {
	var payload UpdateResponse
	if err := c.do(ctx, http.MethodPost, "/api/update", nil, &payload); err != nil {
		return board.Board{}, false, err
	}
	b, err := board.New(payload.Board, rows, columns)
	if err != nil {
		return board.Board{}, false, malformed(err)
	}
	return b, payload.IsStatic, nil
}

// Randomize reseeds the remote board with the given live probability.
func (c *Client) Randomize(ctx context.Context, p float64) (board.Board, error) {
	return c.boardCall(ctx, "/api/randomize", randomizeRequest{LiveProbability: p})
}

// Resize changes the remote board dimensions. The daemon answers the new
// canonical board, which only has to be self-consistent.
func (c *Client) Resize(ctx context.Context, rows, columns int) (board.Board, error) {
	return c.boardCall(ctx, "/api/change_size", resizeRequest{Rows: rows, Columns: columns})
}

// Customize pushes locally edited cells. The daemon may renormalize them; the
// reply must keep the pushed dimensions.
func (c *Client) Customize(ctx context.Context, b board.Board) (board.Board, error) {
	var payload CellsResponse
	if err := c.do(ctx, http.MethodPost, "/api/customize", customizeRequest{Board: b.Cells}, &payload); err != nil {
		return board.Board{}, err
	}
	out, err := board.New(payload.Board, b.Rows, b.Columns)
	if err != nil {
		return board.Board{}, malformed(err)
	}
	return out, nil
}

// Clear kills every remote cell.
func (c *Client) Clear(ctx context.Context, rows, columns int) (board.Board, error) {
	return c.cellsCall(ctx, "/api/clear", rows, columns)
}

// Fill sets every remote cell alive.
func (c *Client) Fill(ctx context.Context, rows, columns int) (board.Board, error) {
	return c.cellsCall(ctx, "/api/fill", rows, columns)
}

// SetLiveProbability stores the live probability used by future randomize calls.
func (c *Client) SetLiveProbability(ctx context.Context, p float64) error {
	var payload AckResponse
	return c.do(ctx, http.MethodPost, "/api/live_probability", probabilityRequest{LiveProbability: p}, &payload)
}

func (c *Client) boardCall(ctx context.Context, path string, body any) (board.Board, error) {
	var payload BoardResponse
	if err := c.do(ctx, http.MethodPost, path, body, &payload); err != nil {
		return board.Board{}, err
	}
	b, err := board.New(payload.Board, payload.Rows, payload.Columns)
	if err != nil {
		return board.Board{}, malformed(err)
	}
	return b, nil
}

func (c *Client) cellsCall(ctx context.Context, path string, rows, columns int) (board.Board, error) {
	var payload CellsResponse
	if err := c.do(ctx, http.MethodPost, path, nil, &payload); err != nil {
		return board.Board{}, err
	}
	b, err := board.New(payload.Board, rows, columns)
	if err != nil {
		return board.Board{}, malformed(err)
	}
	return b, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		var errBody errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return &StatusError{Status: resp.StatusCode, Message: errBody.Error}
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return malformed(fmt.Errorf("decode response: %v", err))
	}
	return nil
}

func parseBaseURL(endpoint string) (*url.URL, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		trimmed = defaultEndpoint
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint %q: %w", endpoint, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
