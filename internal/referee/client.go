package referee

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"othello_ai/internal/domain/board"
	errs "othello_ai/internal/errors"
	"othello_ai/internal/usecase/search"
)

type Engine interface {
	ChooseMove(b *board.Board, budget time.Duration) search.Result
}

type Result int

const (
	Draw Result = iota
	Win
	Loss
)

func (r Result) String() string {
	switch r {
	case Win:
		return "win"
	case Loss:
		return "loss"
	}
	return "draw"
}

// Outcome is how the match ended from our side.
type Outcome struct {
	Result        Result
	Role          board.Cell
	PlayerTiles   int
	OpponentTiles int
	// Forfeit is set when the opponent broke the protocol or the rules.
	Forfeit bool
	Reason  error
	// Complete is false when the referee stopped before a terminal position.
	Complete bool
}

// Client follows the referee protocol for one game.
type Client struct {
	name   string
	dir    string
	budget time.Duration
	engine Engine
	log    *zap.SugaredLogger

	state       *board.Board
	initialized bool
}

func NewClient(name, dir string, budget time.Duration, engine Engine, log *zap.SugaredLogger) *Client {
	return &Client{
		name:   name,
		dir:    dir,
		budget: budget,
		engine: engine,
		log:    log,
		state:  board.New(board.PlayerA),
	}
}

// Run watches the directory until the game ends or ctx is cancelled.
func (c *Client) Run(ctx context.Context) (Outcome, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return Outcome{}, fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(c.dir); err != nil {
		return Outcome{}, fmt.Errorf("watch %s: %w", c.dir, err)
	}
	c.log.Infof("%s waiting for the referee in %s", c.name, c.dir)

	// The referee may have handed us the turn before the watch was in place.
	goFile := GoFile(c.name)
	if c.exists(goFile) {
		if o, done, err := c.handleTurn(); err != nil || done {
			return o, err
		}
	}

	for {
		select {
		case <-ctx.Done():
			return Outcome{}, ctx.Err()
		case err, ok := <-watcher.Errors:
			if !ok {
				return Outcome{}, errors.New("watcher closed")
			}
			c.log.Errorf("watcher error: %v", err)
		case ev, ok := <-watcher.Events:
			if !ok {
				return Outcome{}, errors.New("watcher closed")
			}
			switch filepath.Base(ev.Name) {
			case goFile:
				if !ev.Has(fsnotify.Create) {
					continue
				}
				if o, done, err := c.handleTurn(); err != nil || done {
					return o, err
				}
			case EndGameFile:
				if c.exists(EndGameFile) {
					return c.GameOver()
				}
			}
		}
	}
}

func (c *Client) handleTurn() (Outcome, bool, error) {
	if c.exists(EndGameFile) {
		o, err := c.GameOver()
		return o, true, err
	}
	return c.TakeTurn()
}

// TakeTurn reads the opponent's move, answers it and writes our move. done is
// set when the opponent forfeited.
func (c *Client) TakeTurn() (Outcome, bool, error) {
	line, err := c.readMoveFile()
	if err != nil {
		return Outcome{}, false, err
	}

	if !c.initialized {
		c.initialized = true
		if line == "" {
			c.log.Infof("%s moves first", c.name)
			return Outcome{}, false, c.runMove()
		}
		c.state = c.state.Rebind(board.PlayerB)
		c.log.Infof("%s moves second", c.name)
	}

	if o, forfeited := c.processOpponentMove(line); forfeited {
		return o, true, nil
	}
	if c.state.ToMove() != c.state.Role() {
		c.log.Warnf("%s is not to move, waiting for the opponent", c.name)
		return Outcome{}, false, nil
	}
	return Outcome{}, false, c.runMove()
}

// GameOver applies any move still pending in the move file and scores the
// final position.
func (c *Client) GameOver() (Outcome, error) {
	line, err := c.readMoveFile()
	if err != nil {
		return Outcome{}, err
	}
	if line != "" {
		if !c.initialized {
			c.initialized = true
			if l, err := ParseLine(line); err != nil || l.Name != c.name {
				c.state = c.state.Rebind(board.PlayerB)
			}
		}
		if o, forfeited := c.processOpponentMove(line); forfeited {
			return o, nil
		}
	}

	o := c.score()
	if !o.Complete {
		c.log.Warnf("game ended before a terminal position, a player may have run out of time")
	}
	c.log.Infof("game over: %s, %d to %d", o.Result, o.PlayerTiles, o.OpponentTiles)
	return o, nil
}

// State returns the position as we track it.
func (c *Client) State() *board.Board { return c.state }

func (c *Client) processOpponentMove(line string) (Outcome, bool) {
	l, err := ParseLine(line)
	if err != nil {
		return c.opponentForfeits(err), true
	}
	if l.Name == c.name {
		c.log.Warnf("we were the last to move, the game may be over")
		return Outcome{}, false
	}

	opponent := c.state.Role().Opponent()
	if l.Pass {
		if len(c.state.LegalMoves(c.state.ToMove())) > 0 {
			return c.opponentForfeits(errs.ErrInvalidPass), true
		}
		c.state = c.state.Pass()
		return Outcome{}, false
	}

	next, err := c.state.Apply(opponent, l.Action)
	if err != nil {
		return c.opponentForfeits(err), true
	}
	c.state = next
	return Outcome{}, false
}

func (c *Client) runMove() error {
	res := c.engine.ChooseMove(c.state, c.budget)
	line := Line{Name: c.name, Pass: res.Pass, Action: res.Action}

	if res.Pass {
		c.state = c.state.Pass()
	} else {
		next, err := c.state.Apply(c.state.Role(), res.Action)
		if err != nil {
			return fmt.Errorf("engine chose %v: %w", res.Action, err)
		}
		c.state = next
	}

	if err := os.WriteFile(filepath.Join(c.dir, MoveFile), []byte(line.String()), 0o644); err != nil {
		return fmt.Errorf("write move: %w", err)
	}
	c.log.Infof("played %q (depth %d, value %.2f, %v)", line.String(), res.Depth, res.Value, res.Elapsed)
	return nil
}

func (c *Client) opponentForfeits(reason error) Outcome {
	c.log.Infof("opponent forfeits: %v", reason)
	o := c.score()
	o.Result = Win
	o.Forfeit = true
	o.Reason = reason
	return o
}

func (c *Client) score() Outcome {
	o := Outcome{
		Role:          c.state.Role(),
		PlayerTiles:   c.state.PlayerTiles(),
		OpponentTiles: c.state.OpponentTiles(),
		Complete:      c.state.IsTerminal(),
	}
	switch {
	case o.PlayerTiles > o.OpponentTiles:
		o.Result = Win
	case o.PlayerTiles < o.OpponentTiles:
		o.Result = Loss
	}
	return o
}

func (c *Client) exists(name string) bool {
	_, err := os.Stat(filepath.Join(c.dir, name))
	return err == nil
}

// readMoveFile returns the first line of the move file, or "" when the file
// is missing or empty.
func (c *Client) readMoveFile() (string, error) {
	f, err := os.Open(filepath.Join(c.dir, MoveFile))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("open move file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if sc.Scan() {
		return strings.TrimSpace(sc.Text()), nil
	}
	return "", sc.Err()
}
