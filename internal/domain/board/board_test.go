package board

import (
	"errors"
	"math/rand"
	"testing"

	errs "othello_ai/internal/errors"
)

func mustParse(t *testing.T, rows []string, toMove, role Cell) *Board {
	t.Helper()
	b, err := Parse(rows, toMove, role)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return b
}

func emptyCount(b *Board) int {
	n := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b.At(r, c) == Empty {
				n++
			}
		}
	}
	return n
}

func TestNewBoard(t *testing.T) {
	b := New(PlayerA)
	if b.PlayerTiles() != 2 || b.OpponentTiles() != 2 {
		t.Fatalf("tiles = %d/%d, want 2/2", b.PlayerTiles(), b.OpponentTiles())
	}
	if got := emptyCount(b); got != 60 {
		t.Fatalf("empty cells = %d, want 60", got)
	}
	if b.ToMove() != PlayerA {
		t.Fatalf("to move = %v, want A", b.ToMove())
	}
	if b.PlayerWorth() != 1.0 || b.OpponentWorth() != 1.0 {
		t.Fatalf("worth = %v/%v, want 1/1", b.PlayerWorth(), b.OpponentWorth())
	}
}

func TestInitialLegalMoves(t *testing.T) {
	b := New(PlayerA)
	want := []Action{{2, 3}, {3, 2}, {4, 5}, {5, 4}}
	got := b.LegalMoves(PlayerA)
	if len(got) != len(want) {
		t.Fatalf("moves = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("moves[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if !b.IsLegalMove(PlayerA, 2, 3) {
		t.Fatal("(2,3) should be legal for A")
	}
	if b.IsLegalMove(PlayerB, 2, 3) {
		t.Fatal("(2,3) should not be legal for B")
	}
}

func TestEmptyHasNoMoves(t *testing.T) {
	b := New(PlayerA)
	for _, sq := range []Action{{2, 3}, {3, 2}, {4, 5}, {5, 4}} {
		if b.IsLegalMove(Empty, sq.Row, sq.Col) {
			t.Errorf("(%d,%d) is legal for Empty", sq.Row, sq.Col)
		}
	}
	if moves := b.LegalMoves(Empty); len(moves) != 0 {
		t.Fatalf("Empty moves = %v", moves)
	}
}

func TestNewRejectsEmptyRole(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("New(Empty) did not panic")
		}
	}()
	New(Empty)
}

func TestApplyOpeningMove(t *testing.T) {
	b := New(PlayerA)
	next, err := b.Apply(PlayerA, Action{Row: 2, Col: 3})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if next.PlayerTiles() != 4 || next.OpponentTiles() != 1 {
		t.Fatalf("tiles = %d/%d, want 4/1", next.PlayerTiles(), next.OpponentTiles())
	}
	if next.At(3, 3) != PlayerA || next.At(2, 3) != PlayerA {
		t.Fatal("expected (2,3) and (3,3) to belong to A")
	}
	if next.ToMove() != PlayerB {
		t.Fatalf("to move = %v, want B", next.ToMove())
	}
	if next.PlayerWorth() != 2.0 || next.OpponentWorth() != 0.5 {
		t.Fatalf("worth = %v/%v, want 2/0.5", next.PlayerWorth(), next.OpponentWorth())
	}

	// the source position is untouched
	if b.At(3, 3) != PlayerB || b.PlayerTiles() != 2 || b.ToMove() != PlayerA {
		t.Fatal("Apply modified its receiver")
	}
}

func TestApplyRejects(t *testing.T) {
	b := New(PlayerA)
	tests := []struct {
		name   string
		action Action
		want   error
	}{
		{"occupied", Action{3, 3}, errs.ErrCellOccupied},
		{"no flips", Action{0, 0}, errs.ErrNoFlips},
		{"out of range", Action{8, 0}, errs.ErrMalformedCoordinate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := b.Apply(PlayerA, tt.action)
			if next != nil {
				t.Fatal("expected no resulting board")
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	_, err := b.Apply(PlayerA, Action{0, 0})
	var illegal *IllegalMoveError
	if !errors.As(err, &illegal) || !errors.Is(err, errs.ErrIllegalMove) {
		t.Fatalf("err = %v, want an IllegalMoveError", err)
	}
}

func TestApplyFlipsEveryDirection(t *testing.T) {
	b := mustParse(t, []string{
		"A..A..A.",
		".B.B.B..",
		"..BBB...",
		"ABB.BBBA",
		"..BBB...",
		".B.B.B..",
		"A..A..A.",
		"........",
	}, PlayerA, PlayerA)

	next, err := b.Apply(PlayerA, Action{3, 3})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if next.OpponentTiles() != 0 {
		t.Fatalf("opponent tiles = %d, want 0\n%v", next.OpponentTiles(), next)
	}
	if next.PlayerTiles() != b.PlayerTiles()+b.OpponentTiles()+1 {
		t.Fatalf("player tiles = %d", next.PlayerTiles())
	}
	if !next.IsTerminal() {
		t.Fatal("a side without discs ends the game")
	}
}

// Random self-play: counters must match a recount and legality must agree
// with Apply everywhere.
func TestRandomGamesKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for game := 0; game < 20; game++ {
		b := New(PlayerB)
		for !b.IsTerminal() {
			p := b.ToMove()
			for r := 0; r < Size; r++ {
				for c := 0; c < Size; c++ {
					_, err := b.Apply(p, Action{r, c})
					if legal := b.IsLegalMove(p, r, c); legal != (err == nil) {
						t.Fatalf("(%d,%d) legal=%v apply err=%v\n%v", r, c, legal, err, b)
					}
				}
			}

			moves := b.LegalMoves(p)
			if len(moves) == 0 {
				b = b.Pass()
				continue
			}
			next, err := b.Apply(p, moves[rng.Intn(len(moves))])
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			b = next

			if b.PlayerTiles()+b.OpponentTiles()+emptyCount(b) != Cells {
				t.Fatalf("conservation broken\n%v", b)
			}
			recount, err := FromCells(b.Grid(), b.ToMove(), b.Role())
			if err != nil {
				t.Fatalf("FromCells: %v", err)
			}
			if recount.PlayerTiles() != b.PlayerTiles() || recount.OpponentTiles() != b.OpponentTiles() ||
				recount.PlayerWorth() != b.PlayerWorth() || recount.OpponentWorth() != b.OpponentWorth() {
				t.Fatalf("incremental counters drifted: got %d/%d %v/%v, recount %d/%d %v/%v",
					b.PlayerTiles(), b.OpponentTiles(), b.PlayerWorth(), b.OpponentWorth(),
					recount.PlayerTiles(), recount.OpponentTiles(), recount.PlayerWorth(), recount.OpponentWorth())
			}
		}
	}
}

func TestPassOnlySwapsTurn(t *testing.T) {
	b := New(PlayerA)
	p := b.Pass()
	if p.ToMove() != PlayerB {
		t.Fatalf("to move = %v, want B", p.ToMove())
	}
	if p.Grid() != b.Grid() || p.PlayerTiles() != 2 || p.OpponentTiles() != 2 {
		t.Fatal("pass changed the position")
	}
	if b.ToMove() != PlayerA {
		t.Fatal("Pass modified its receiver")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := New(PlayerA)
	c := b.Clone()
	if err := c.play(PlayerA, Action{2, 3}); err != nil {
		t.Fatalf("play: %v", err)
	}
	if b.At(2, 3) != Empty || b.At(3, 3) != PlayerB {
		t.Fatal("clone shares its grid with the original")
	}
}

func TestIsTerminal(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		want bool
	}{
		{"initial", New(PlayerA).Rows(), false},
		{"full board", []string{
			"AAAAAAAA", "AAAAAAAA", "AAAAAAAA", "AAAAAAAA",
			"BBBBBBBB", "BBBBBBBB", "BBBBBBBB", "BBBBBBBA",
		}, true},
		{"nobody can move", []string{
			"AAAAAAAA", "AAAAAAAA", "AAAAAAAA", "AAAAAAAA",
			"AAAAAAAA", "AAAAAAAA", "AAAAAAAA", "BBBBBBB.",
		}, true},
		{"one side wiped out", []string{
			"........", "........", "........", "...AA...",
			"...AA...", "........", "........", "........",
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustParse(t, tt.rows, PlayerA, PlayerA)
			if got := b.IsTerminal(); got != tt.want {
				t.Fatalf("IsTerminal = %v, want %v\n%v", got, tt.want, b)
			}
		})
	}
}

func TestRebindSwapsCounters(t *testing.T) {
	b, err := New(PlayerA).Apply(PlayerA, Action{2, 3})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	r := b.Rebind(PlayerB)
	if r.Role() != PlayerB || r.PlayerTiles() != 1 || r.OpponentTiles() != 4 {
		t.Fatalf("rebound tiles = %d/%d", r.PlayerTiles(), r.OpponentTiles())
	}
	if r.Tiles(PlayerA) != 4 || b.Tiles(PlayerA) != 4 {
		t.Fatal("Tiles must not depend on the role")
	}
}

func TestParseRejectsBadRows(t *testing.T) {
	rows := New(PlayerA).Rows()
	rows[2] = "...x...."
	if _, err := Parse(rows, PlayerA, PlayerA); !errors.Is(err, errs.ErrMalformedCoordinate) {
		t.Fatalf("err = %v, want ErrMalformedCoordinate", err)
	}
	if _, err := Parse(rows[:7], PlayerA, PlayerA); !errors.Is(err, errs.ErrMalformedCoordinate) {
		t.Fatalf("err = %v, want ErrMalformedCoordinate", err)
	}
}

func TestMoveNotation(t *testing.T) {
	if got := (Action{Row: 2, Col: 3}).String(); got != "D 6" {
		t.Fatalf("String = %q, want %q", got, "D 6")
	}

	tests := []struct {
		in      string
		want    Action
		wantErr bool
	}{
		{"D 6", Action{2, 3}, false},
		{"d6", Action{2, 3}, false},
		{"A 8", Action{0, 0}, false},
		{"H 1", Action{7, 7}, false},
		{"I 1", Action{}, true},
		{"A 9", Action{}, true},
		{"A 0", Action{}, true},
		{"AB 3", Action{}, true},
		{"x", Action{}, true},
		{"", Action{}, true},
	}
	for _, tt := range tests {
		got, err := ParseMove(tt.in)
		if tt.wantErr {
			if !errors.Is(err, errs.ErrMalformedCoordinate) {
				t.Errorf("ParseMove(%q) err = %v, want ErrMalformedCoordinate", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseMove(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}
