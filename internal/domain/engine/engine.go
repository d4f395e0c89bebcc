package engine

// Boards travel as eight rows of '.', 'A' and 'B', row 0 being rank 8.

type MoveRequest struct {
	Board       []string `json:"board"`
	ToMove      string   `json:"to_move"`
	TimeLimitMs int      `json:"time_limit_ms,omitempty"`
}

type MoveResponse struct {
	Move      string  `json:"move,omitempty"`
	Row       int     `json:"row"`
	Col       int     `json:"col"`
	Pass      bool    `json:"pass"`
	Depth     int     `json:"depth"`
	Value     float64 `json:"value"`
	Nodes     int     `json:"nodes"`
	Fallback  bool    `json:"fallback,omitempty"`
	ElapsedMs int64   `json:"elapsed_ms"`
}

// EvaluateRequest scores the position for Perspective, or for the side to
// move when Perspective is empty.
type EvaluateRequest struct {
	Board       []string `json:"board"`
	ToMove      string   `json:"to_move"`
	Perspective string   `json:"perspective,omitempty"`
}

type EvaluateResponse struct {
	Value       float64  `json:"value"`
	Perspective string   `json:"perspective"`
	Terminal    bool     `json:"terminal"`
	Winner      string   `json:"winner,omitempty"`
	LegalMoves  []string `json:"legal_moves"`
	TilesA      int      `json:"tiles_a"`
	TilesB      int      `json:"tiles_b"`
	StableA     int      `json:"stable_a"`
	StableB     int      `json:"stable_b"`
}
