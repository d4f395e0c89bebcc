package session

import "time"

const (
	StatusActive   = "active"
	StatusFinished = "finished"
)

// Session is a live game between the engine and one remote opponent. It is
// kept only for as long as the game is being played.
type Session struct {
	ID         string    `json:"id"`
	EngineSide string    `json:"engine_side"`
	Board      []string  `json:"board"`
	ToMove     string    `json:"to_move"`
	Moves      []string  `json:"moves"`
	Status     string    `json:"status"`
	Winner     string    `json:"winner,omitempty"`
	Forfeit    bool      `json:"forfeit,omitempty"`
	TilesA     int       `json:"tiles_a"`
	TilesB     int       `json:"tiles_b"`
	Version    int       `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CreateRequest struct {
	EngineSide string `json:"engine_side"`
}

type MoveRequest struct {
	Move string `json:"move"`
}
