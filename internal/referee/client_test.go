package referee

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"othello_ai/internal/domain/board"
	errs "othello_ai/internal/errors"
	"othello_ai/internal/usecase/search"
)

const (
	us    = "othello_ai"
	rival = "rival"
)

func newClient(t *testing.T) (*Client, string) {
	t.Helper()
	dir := t.TempDir()
	log := zaptest.NewLogger(t).Sugar()
	engine := search.NewEngine(search.Options{StartDepth: 1, MaxDepth: 2}, log)
	return NewClient(us, dir, time.Minute, engine, log), dir
}

func writeMove(t *testing.T, dir, line string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, MoveFile), []byte(line+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readMove(t *testing.T, dir string) Line {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join(dir, MoveFile))
	if err != nil {
		t.Fatal(err)
	}
	l, err := ParseLine(string(raw))
	if err != nil {
		t.Fatalf("our move file %q: %v", raw, err)
	}
	return l
}

func TestTakeTurnFirst(t *testing.T) {
	c, dir := newClient(t)
	writeMove(t, dir, "")

	if _, done, err := c.TakeTurn(); err != nil || done {
		t.Fatalf("TakeTurn: done %v, err %v", done, err)
	}
	l := readMove(t, dir)
	if l.Name != us || l.Pass || !board.New(board.PlayerA).IsLegalMove(board.PlayerA, l.Action.Row, l.Action.Col) {
		t.Fatalf("wrote %+v", l)
	}
	if c.State().Role() != board.PlayerA || c.State().ToMove() != board.PlayerB {
		t.Fatalf("state role %v to move %v", c.State().Role(), c.State().ToMove())
	}
}

func TestTakeTurnSecond(t *testing.T) {
	c, dir := newClient(t)
	writeMove(t, dir, rival+" D 6")

	if _, done, err := c.TakeTurn(); err != nil || done {
		t.Fatalf("TakeTurn: done %v, err %v", done, err)
	}
	if c.State().Role() != board.PlayerB {
		t.Fatalf("role %v, want PlayerB", c.State().Role())
	}
	l := readMove(t, dir)
	afterRival, _ := board.New(board.PlayerA).Apply(board.PlayerA, board.Action{Row: 2, Col: 3})
	if l.Name != us || !afterRival.IsLegalMove(board.PlayerB, l.Action.Row, l.Action.Col) {
		t.Fatalf("wrote %+v", l)
	}
	if c.State().Tiles(board.PlayerA)+c.State().Tiles(board.PlayerB) != 6 {
		t.Fatalf("tracked position:\n%v", c.State())
	}
}

func TestTakeTurnOnOurOwnLineWaits(t *testing.T) {
	c, dir := newClient(t)
	writeMove(t, dir, "")
	if _, _, err := c.TakeTurn(); err != nil {
		t.Fatalf("first TakeTurn: %v", err)
	}
	ours := readMove(t, dir)
	before := c.State()

	if _, done, err := c.TakeTurn(); err != nil || done {
		t.Fatalf("TakeTurn on our own line: done %v, err %v", done, err)
	}
	if got := readMove(t, dir); got != ours {
		t.Fatalf("move file rewritten: %+v, was %+v", got, ours)
	}
	if c.State().Grid() != before.Grid() || c.State().ToMove() != board.PlayerB {
		t.Fatalf("tracked position changed:\n%v", c.State())
	}
}

func TestOpponentForfeits(t *testing.T) {
	tests := []struct {
		line string
		want error
	}{
		{rival + " Z 4", errs.ErrMalformedCoordinate},
		{rival + " D", errs.ErrMalformedCoordinate},
		{rival + " A 1", errs.ErrIllegalMove},
		{rival + " P 1", errs.ErrInvalidPass},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			c, dir := newClient(t)
			writeMove(t, dir, tt.line)
			o, done, err := c.TakeTurn()
			if err != nil || !done {
				t.Fatalf("done %v, err %v", done, err)
			}
			if o.Result != Win || !o.Forfeit || !errors.Is(o.Reason, tt.want) {
				t.Fatalf("got %+v, want a forfeit win for %v", o, tt.want)
			}
		})
	}
}

func TestGameOverScoresTrackedPosition(t *testing.T) {
	c, dir := newClient(t)
	writeMove(t, dir, "")
	if _, _, err := c.TakeTurn(); err != nil {
		t.Fatal(err)
	}
	// The file still names us, so nothing is replayed.
	o, err := c.GameOver()
	if err != nil {
		t.Fatalf("GameOver: %v", err)
	}
	if o.Complete || o.Result != Win || o.PlayerTiles != 4 || o.OpponentTiles != 1 {
		t.Fatalf("got %+v", o)
	}
}

func TestGameOverBeforeOurFirstTurn(t *testing.T) {
	c, dir := newClient(t)
	writeMove(t, dir, rival+" C 5")
	o, err := c.GameOver()
	if err != nil {
		t.Fatalf("GameOver: %v", err)
	}
	if o.Role != board.PlayerB || o.Result != Loss || o.PlayerTiles != 1 || o.OpponentTiles != 4 {
		t.Fatalf("got %+v", o)
	}
}

func TestRunFollowsReferee(t *testing.T) {
	c, dir := newClient(t)
	writeMove(t, dir, "")
	goFile := filepath.Join(dir, GoFile(us))
	if err := os.WriteFile(goFile, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	type result struct {
		o   Outcome
		err error
	}
	done := make(chan result, 1)
	go func() {
		o, err := c.Run(ctx)
		done <- result{o, err}
	}()

	waitForOurMove := func(previous string) string {
		t.Helper()
		for ctx.Err() == nil {
			raw, _ := os.ReadFile(filepath.Join(dir, MoveFile))
			if line := strings.TrimSpace(string(raw)); strings.HasPrefix(line, us+" ") && line != previous {
				return line
			}
			time.Sleep(10 * time.Millisecond)
		}
		t.Fatal("no move written")
		return ""
	}
	hand := func() {
		t.Helper()
		_ = os.Remove(goFile)
		if err := os.WriteFile(goFile, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	first := waitForOurMove("")
	ours, err := ParseLine(first)
	if err != nil {
		t.Fatalf("first move %q: %v", first, err)
	}

	// Reply with the first legal move for B and hand the turn back.
	state, _ := board.New(board.PlayerA).Apply(board.PlayerA, ours.Action)
	reply := state.LegalMoves(board.PlayerB)[0]
	writeMove(t, dir, Line{Name: rival, Action: reply}.String())
	hand()
	second := waitForOurMove(first)
	if l, err := ParseLine(second); err != nil || l.Pass {
		t.Fatalf("second move %q: %v", second, err)
	}

	if err := os.WriteFile(filepath.Join(dir, EndGameFile), []byte("done"), 0o644); err != nil {
		t.Fatal(err)
	}
	res := <-done
	if res.err != nil {
		t.Fatalf("Run: %v", res.err)
	}
	if res.o.Complete || res.o.PlayerTiles+res.o.OpponentTiles != 7 {
		t.Fatalf("outcome %+v", res.o)
	}
}
