package board

import (
	"fmt"

	errs "othello_ai/internal/errors"
)

// Cell is the content of one square.
type Cell uint8

const (
	Empty Cell = iota
	PlayerA
	PlayerB
)

// Opponent returns the other player. Empty stays Empty.
func (c Cell) Opponent() Cell {
	switch c {
	case PlayerA:
		return PlayerB
	case PlayerB:
		return PlayerA
	}
	return Empty
}

func (c Cell) IsPlayer() bool {
	return c == PlayerA || c == PlayerB
}

func (c Cell) String() string {
	switch c {
	case PlayerA:
		return "A"
	case PlayerB:
		return "B"
	}
	return "."
}

// ParseCell accepts the one-letter form produced by String.
func ParseCell(s string) (Cell, error) {
	switch s {
	case ".":
		return Empty, nil
	case "A", "a":
		return PlayerA, nil
	case "B", "b":
		return PlayerB, nil
	}
	return Empty, fmt.Errorf("unknown cell %q: %w", s, errs.ErrMalformedCoordinate)
}

// ParsePlayer is ParseCell restricted to the two players.
func ParsePlayer(s string) (Cell, error) {
	c, err := ParseCell(s)
	if err != nil {
		return Empty, err
	}
	if !c.IsPlayer() {
		return Empty, fmt.Errorf("%q is not a player: %w", s, errs.ErrMalformedCoordinate)
	}
	return c, nil
}
