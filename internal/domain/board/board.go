package board

import (
	"fmt"
	"strings"

	errs "othello_ai/internal/errors"
)

const (
	Size  = 8
	Cells = Size * Size
)

// Positional weights: corners, C-squares, X-squares and the rest.
const (
	weightCorner = 50.0
	weightC      = -2.0
	weightX      = -10.0
	weightPlain  = 0.5
)

var Weights = [Size][Size]float64{
	{weightCorner, weightC, weightPlain, weightPlain, weightPlain, weightPlain, weightC, weightCorner},
	{weightC, weightX, weightPlain, weightPlain, weightPlain, weightPlain, weightX, weightC},
	{weightPlain, weightPlain, weightPlain, weightPlain, weightPlain, weightPlain, weightPlain, weightPlain},
	{weightPlain, weightPlain, weightPlain, weightPlain, weightPlain, weightPlain, weightPlain, weightPlain},
	{weightPlain, weightPlain, weightPlain, weightPlain, weightPlain, weightPlain, weightPlain, weightPlain},
	{weightPlain, weightPlain, weightPlain, weightPlain, weightPlain, weightPlain, weightPlain, weightPlain},
	{weightC, weightX, weightPlain, weightPlain, weightPlain, weightPlain, weightX, weightC},
	{weightCorner, weightC, weightPlain, weightPlain, weightPlain, weightPlain, weightC, weightCorner},
}

// direction is a (row, col) step.
type direction struct{ dr, dc int }

// Order in which legality is probed. Same-row directions first.
var probeDirections = [8]direction{
	{0, -1}, {0, 1},
	{-1, -1}, {-1, 0}, {-1, 1},
	{1, -1}, {1, 0}, {1, 1},
}

var flipDirections = [8]direction{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Board is a game position. The role is the side whose point of view the
// tile counters and the evaluation take; it is fixed for a whole lineage of
// clones and never changes on the hot path.
//
// The cell grid is an array, so assigning a Board copies it entirely.
type Board struct {
	cells  [Size][Size]Cell
	toMove Cell
	role   Cell

	playerTiles   int
	opponentTiles int
	playerWorth   float64
	opponentWorth float64
}

// New returns the initial position with PlayerA to move. It panics if role is
// not a player; use FromCells for unchecked input.
func New(role Cell) *Board {
	if !role.IsPlayer() {
		panic(fmt.Sprintf("board: role %v is not a player", role))
	}
	b := &Board{toMove: PlayerA, role: role}
	b.cells[3][3], b.cells[3][4] = PlayerB, PlayerA
	b.cells[4][3], b.cells[4][4] = PlayerA, PlayerB
	b.playerTiles, b.opponentTiles = 2, 2
	b.playerWorth, b.opponentWorth = 2*weightPlain, 2*weightPlain
	return b
}

// FromCells builds a board from a snapshot. The counters are derived once here
// and kept incrementally from then on.
func FromCells(cells [Size][Size]Cell, toMove, role Cell) (*Board, error) {
	if !toMove.IsPlayer() {
		return nil, fmt.Errorf("side to move %v: %w", toMove, errs.ErrMalformedCoordinate)
	}
	if !role.IsPlayer() {
		return nil, fmt.Errorf("role %v: %w", role, errs.ErrMalformedCoordinate)
	}
	b := &Board{cells: cells, toMove: toMove, role: role}
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			switch cells[r][c] {
			case Empty:
			case role:
				b.playerTiles++
				b.playerWorth += Weights[r][c]
			case role.Opponent():
				b.opponentTiles++
				b.opponentWorth += Weights[r][c]
			default:
				return nil, fmt.Errorf("cell (%d,%d) holds %d: %w", r, c, cells[r][c], errs.ErrMalformedCoordinate)
			}
		}
	}
	return b, nil
}

// Parse reads eight rows of '.', 'A' and 'B'.
func Parse(rows []string, toMove, role Cell) (*Board, error) {
	if len(rows) != Size {
		return nil, fmt.Errorf("expected %d rows, got %d: %w", Size, len(rows), errs.ErrMalformedCoordinate)
	}
	var cells [Size][Size]Cell
	for r, row := range rows {
		if len(row) != Size {
			return nil, fmt.Errorf("row %d has %d cells: %w", r, len(row), errs.ErrMalformedCoordinate)
		}
		for c := 0; c < Size; c++ {
			cell, err := ParseCell(row[c : c+1])
			if err != nil {
				return nil, err
			}
			cells[r][c] = cell
		}
	}
	return FromCells(cells, toMove, role)
}

// Clone returns an independent copy.
func (b *Board) Clone() *Board {
	clone := *b
	return &clone
}

// Rebind returns a copy whose counters are seen from role.
func (b *Board) Rebind(role Cell) *Board {
	clone := b.Clone()
	if role != b.role {
		clone.role = role
		clone.playerTiles, clone.opponentTiles = b.opponentTiles, b.playerTiles
		clone.playerWorth, clone.opponentWorth = b.opponentWorth, b.playerWorth
	}
	return clone
}

func (b *Board) ToMove() Cell { return b.toMove }

func (b *Board) Role() Cell { return b.role }

func (b *Board) At(r, c int) Cell { return b.cells[r][c] }

func (b *Board) Grid() [Size][Size]Cell { return b.cells }

func (b *Board) PlayerTiles() int { return b.playerTiles }

func (b *Board) OpponentTiles() int { return b.opponentTiles }

func (b *Board) PlayerWorth() float64 { return b.playerWorth }

func (b *Board) OpponentWorth() float64 { return b.opponentWorth }

func (b *Board) EmptyCells() int { return Cells - b.playerTiles - b.opponentTiles }

// Tiles returns the disc count of p.
func (b *Board) Tiles(p Cell) int {
	switch p {
	case b.role:
		return b.playerTiles
	case b.role.Opponent():
		return b.opponentTiles
	}
	return b.EmptyCells()
}

// IsLegalMove reports whether p may place a disc on (r, c). Empty never has a
// legal move.
func (b *Board) IsLegalMove(p Cell, r, c int) bool {
	if !p.IsPlayer() || r < 0 || r >= Size || c < 0 || c >= Size || b.cells[r][c] != Empty {
		return false
	}
	for _, d := range probeDirections {
		if b.sandwiches(p, r, c, d) {
			return true
		}
	}
	return false
}

// sandwiches reports whether walking from (r, c) along d crosses one or more
// opposing discs and then lands on one of p's.
func (b *Board) sandwiches(p Cell, r, c int, d direction) bool {
	r, c = r+d.dr, c+d.dc
	if !onBoard(r, c) || b.cells[r][c] == p || b.cells[r][c] == Empty {
		return false
	}
	for r, c = r+d.dr, c+d.dc; onBoard(r, c); r, c = r+d.dr, c+d.dc {
		switch b.cells[r][c] {
		case p:
			return true
		case Empty:
			return false
		}
	}
	return false
}

// LegalMoves lists p's moves in row-major order.
func (b *Board) LegalMoves(p Cell) []Action {
	var moves []Action
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b.IsLegalMove(p, r, c) {
				moves = append(moves, Action{Row: r, Col: c})
			}
		}
	}
	return moves
}

func (b *Board) moveCount(p Cell) int {
	n := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b.IsLegalMove(p, r, c) {
				n++
			}
		}
	}
	return n
}

func (b *Board) hasMove(p Cell) bool {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b.IsLegalMove(p, r, c) {
				return true
			}
		}
	}
	return false
}

// Apply returns the position after p plays a. The receiver is not modified.
func (b *Board) Apply(p Cell, a Action) (*Board, error) {
	next := b.Clone()
	if err := next.play(p, a); err != nil {
		return nil, err
	}
	return next, nil
}

// play mutates b in place.
func (b *Board) play(p Cell, a Action) error {
	if !a.InBounds() {
		return fmt.Errorf("square (%d,%d): %w", a.Row, a.Col, errs.ErrMalformedCoordinate)
	}
	if !p.IsPlayer() {
		return fmt.Errorf("mover %v: %w", p, errs.ErrMalformedCoordinate)
	}
	if b.cells[a.Row][a.Col] != Empty {
		return &IllegalMoveError{Player: p, Action: a, Reason: errs.ErrCellOccupied}
	}

	// Every direction has to be walked; stopping at the first hit would leave
	// discs unflipped.
	flipped := false
	for _, d := range flipDirections {
		if b.flip(p, a.Row, a.Col, d) {
			flipped = true
		}
	}
	if !flipped {
		return &IllegalMoveError{Player: p, Action: a, Reason: errs.ErrNoFlips}
	}

	b.toMove = b.toMove.Opponent()
	return nil
}

// flip claims (r, c) and every opposing disc between it and the closing disc
// along d, if d forms a sandwich.
func (b *Board) flip(p Cell, r, c int, d direction) bool {
	if !b.sandwiches(p, r, c, d) {
		return false
	}
	if b.cells[r][c] != p {
		b.gain(p, r, c)
		b.cells[r][c] = p
	}
	for fr, fc := r+d.dr, c+d.dc; b.cells[fr][fc] != p; fr, fc = fr+d.dr, fc+d.dc {
		b.gain(p, fr, fc)
		b.lose(p.Opponent(), fr, fc)
		b.cells[fr][fc] = p
	}
	return true
}

func (b *Board) gain(p Cell, r, c int) {
	if p == b.role {
		b.playerTiles++
		b.playerWorth += Weights[r][c]
	} else {
		b.opponentTiles++
		b.opponentWorth += Weights[r][c]
	}
}

func (b *Board) lose(p Cell, r, c int) {
	if p == b.role {
		b.playerTiles--
		b.playerWorth -= Weights[r][c]
	} else {
		b.opponentTiles--
		b.opponentWorth -= Weights[r][c]
	}
}

// Pass returns a copy with the turn handed over.
func (b *Board) Pass() *Board {
	next := b.Clone()
	next.toMove = next.toMove.Opponent()
	return next
}

// IsTerminal reports whether the game has ended. Tile counts are checked
// before the move scans.
func (b *Board) IsTerminal() bool {
	return b.playerTiles+b.opponentTiles == Cells ||
		b.playerTiles == 0 ||
		b.opponentTiles == 0 ||
		(!b.hasMove(PlayerA) && !b.hasMove(PlayerB))
}

// Winner compares disc counts. Empty means a draw.
func (b *Board) Winner() Cell {
	a, o := b.Tiles(PlayerA), b.Tiles(PlayerB)
	switch {
	case a > o:
		return PlayerA
	case o > a:
		return PlayerB
	}
	return Empty
}

// Rows renders the grid in the form Parse accepts.
func (b *Board) Rows() []string {
	rows := make([]string, Size)
	var sb strings.Builder
	for r := 0; r < Size; r++ {
		sb.Reset()
		for c := 0; c < Size; c++ {
			sb.WriteString(b.cells[r][c].String())
		}
		rows[r] = sb.String()
	}
	return rows
}

func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("  A B C D E F G H\n")
	for r := 0; r < Size; r++ {
		fmt.Fprintf(&sb, "%d", Size-r)
		for c := 0; c < Size; c++ {
			sb.WriteByte(' ')
			sb.WriteString(b.cells[r][c].String())
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "to move: %v", b.toMove)
	return sb.String()
}

func onBoard(r, c int) bool {
	return r >= 0 && r < Size && c >= 0 && c < Size
}

// IllegalMoveError describes a rejected move.
type IllegalMoveError struct {
	Player Cell
	Action Action
	Reason error
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("player %v at %v: %v", e.Player, e.Action, e.Reason)
}

func (e *IllegalMoveError) Unwrap() error { return e.Reason }

func (e *IllegalMoveError) Is(target error) bool {
	return target == errs.ErrIllegalMove
}
