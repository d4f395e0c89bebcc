package board

import (
	"fmt"
	"strconv"
	"strings"

	errs "othello_ai/internal/errors"
)

// Action is a 0-indexed (row, column) square. Row 0 is the referee's rank 8
// and column 0 is file A.
type Action struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (a Action) InBounds() bool {
	return a.Row >= 0 && a.Row < Size && a.Col >= 0 && a.Col < Size
}

// String renders the referee notation, e.g. "D 3".
func (a Action) String() string {
	return fmt.Sprintf("%c %d", 'A'+a.Col, Size-a.Row)
}

// ParseAction converts a referee letter/number pair into an Action.
func ParseAction(letter, number string) (Action, error) {
	n, err := strconv.Atoi(number)
	if err != nil {
		return Action{}, fmt.Errorf("rank %q: %w", number, errs.ErrMalformedCoordinate)
	}
	row := Size - n
	if row < 0 || row >= Size {
		return Action{}, fmt.Errorf("rank %d out of range: %w", n, errs.ErrMalformedCoordinate)
	}
	if len(letter) != 1 {
		return Action{}, fmt.Errorf("file %q: %w", letter, errs.ErrMalformedCoordinate)
	}
	col := int(strings.ToUpper(letter)[0]) - 'A'
	if col < 0 || col >= Size {
		return Action{}, fmt.Errorf("file %q out of range: %w", letter, errs.ErrMalformedCoordinate)
	}
	return Action{Row: row, Col: col}, nil
}

// ParseMove accepts "D 3", "D3" or "d3".
func ParseMove(s string) (Action, error) {
	s = strings.TrimSpace(s)
	fields := strings.Fields(s)
	switch {
	case len(fields) == 2:
		return ParseAction(fields[0], fields[1])
	case len(fields) == 1 && len(s) >= 2:
		return ParseAction(s[:1], s[1:])
	}
	return Action{}, fmt.Errorf("move %q: %w", s, errs.ErrMalformedCoordinate)
}
