// Package referee plays a match against an external referee that talks
// through files in a shared directory.
package referee

import (
	"fmt"
	"strings"

	"othello_ai/internal/domain/board"
	errs "othello_ai/internal/errors"
)

const (
	MoveFile    = "move_file"
	EndGameFile = "end_game"
	goSuffix    = ".go"
	passLetter  = "P"
)

// GoFile is the file whose creation hands the turn to name.
func GoFile(name string) string { return name + goSuffix }

// Line is the first line of the move file: "<name> <letter> <number>", or
// "<name> P 1" for a pass.
type Line struct {
	Name   string
	Pass   bool
	Action board.Action
}

func ParseLine(s string) (Line, error) {
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return Line{}, fmt.Errorf("move line %q: %w", s, errs.ErrMalformedCoordinate)
	}
	if fields[1] == passLetter {
		return Line{Name: fields[0], Pass: true}, nil
	}
	a, err := board.ParseAction(fields[1], fields[2])
	if err != nil {
		return Line{}, fmt.Errorf("move line %q: %w", s, err)
	}
	return Line{Name: fields[0], Action: a}, nil
}

func (l Line) String() string {
	if l.Pass {
		return l.Name + " " + passLetter + " 1"
	}
	return l.Name + " " + l.Action.String()
}
