package lifeapi

// Wire payloads for the lifeboardd HTTP API. JSON keys follow the daemon:
// the cell matrix always travels under "board".

// BoardResponse mirrors GET /api/board and the randomize/change_size replies.
type BoardResponse struct {
	Board           [][]int  `json:"board"`
	Rows            int      `json:"rows"`
	Columns         int      `json:"columns"`
	LiveProbability *float64 `json:"liveProbability,omitempty"`
}

// UpdateResponse mirrors POST /api/update.
type UpdateResponse struct {
	Board    [][]int `json:"board"`
	IsStatic bool    `json:"isStatic"`
}

// CellsResponse mirrors the customize/clear/fill replies, which return only
// the (possibly renormalized) matrix.
type CellsResponse struct {
	Board [][]int `json:"board"`
}

// AckResponse mirrors acknowledgement-only replies.
type AckResponse struct {
	Message string `json:"message"`
}

type randomizeRequest struct {
	LiveProbability float64 `json:"liveProbability"`
}

type resizeRequest struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

type customizeRequest struct {
	Board [][]int `json:"board"`
}

type probabilityRequest struct {
	LiveProbability float64 `json:"liveProbability"`
}

type errorResponse struct {
	Error string `json:"error"`
}
