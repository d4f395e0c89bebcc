package match

import (
	"context"
	"fmt"

	"othello_ai/internal/domain/board"
	errs "othello_ai/internal/errors"
)

// Move is one entry of a game record.
type Move struct {
	Player board.Cell
	Action board.Action
	Pass   bool
}

func (m Move) String() string {
	if m.Pass {
		return m.Player.String() + " pass"
	}
	return m.Player.String() + " " + m.Action.String()
}

// Outcome of a finished game. Winner is board.Empty for a draw.
type Outcome struct {
	Winner  board.Cell
	TilesA  int
	TilesB  int
	Forfeit bool
	// Reason is set when the loser forfeited.
	Reason error
	Moves  []Move
	Final  *board.Board
}

// Play drives a full game with a moving first as PlayerA. A move the board
// rejects, or a pass while legal moves exist, forfeits the game for the mover.
func Play(ctx context.Context, a, b Strategy) (Outcome, error) {
	players := map[board.Cell]Strategy{board.PlayerA: a, board.PlayerB: b}
	state := board.New(board.PlayerA)
	var moves []Move

	for !state.IsTerminal() {
		if err := ctx.Err(); err != nil {
			return Outcome{}, fmt.Errorf("game between %s and %s: %w", a.Name(), b.Name(), err)
		}
		mover := state.ToMove()
		legal := len(state.LegalMoves(mover)) > 0

		action, ok := players[mover].ChooseMove(state.Rebind(mover))
		if !ok {
			if legal {
				return forfeit(state, mover, moves, errs.ErrInvalidPass), nil
			}
			moves = append(moves, Move{Player: mover, Pass: true})
			state = state.Pass()
			continue
		}

		next, err := state.Apply(mover, action)
		if err != nil {
			return forfeit(state, mover, append(moves, Move{Player: mover, Action: action}), err), nil
		}
		moves = append(moves, Move{Player: mover, Action: action})
		state = next
	}

	return Outcome{
		Winner: state.Winner(),
		TilesA: state.Tiles(board.PlayerA),
		TilesB: state.Tiles(board.PlayerB),
		Moves:  moves,
		Final:  state,
	}, nil
}

func forfeit(state *board.Board, loser board.Cell, moves []Move, reason error) Outcome {
	return Outcome{
		Winner:  loser.Opponent(),
		TilesA:  state.Tiles(board.PlayerA),
		TilesB:  state.Tiles(board.PlayerB),
		Forfeit: true,
		Reason:  reason,
		Moves:   moves,
		Final:   state,
	}
}

// Score is one strategy's result over both colour assignments.
type Score struct {
	Wins      float64
	TileShare float64
	Forfeits  int
}

// Compare plays x against y twice, once with each colour, and scores both.
// A win is worth 1 and a draw 0.5. TileShare is the strategy's share of the
// discs on the final board, averaged over the two games.
func Compare(ctx context.Context, x, y Strategy) (Score, Score, error) {
	first, err := Play(ctx, x, y)
	if err != nil {
		return Score{}, Score{}, err
	}
	second, err := Play(ctx, y, x)
	if err != nil {
		return Score{}, Score{}, err
	}

	var sx, sy Score
	tally(&sx, &sy, first, board.PlayerA)
	tally(&sx, &sy, second, board.PlayerB)
	sx.TileShare /= 2
	sy.TileShare /= 2
	return sx, sy, nil
}

// tally credits one game to x, who played side, and to y.
func tally(x, y *Score, o Outcome, side board.Cell) {
	switch o.Winner {
	case board.Empty:
		x.Wins += 0.5
		y.Wins += 0.5
	case side:
		x.Wins++
		if o.Forfeit {
			y.Forfeits++
		}
	default:
		y.Wins++
		if o.Forfeit {
			x.Forfeits++
		}
	}

	mine, theirs := o.TilesA, o.TilesB
	if side == board.PlayerB {
		mine, theirs = theirs, mine
	}
	if total := mine + theirs; total > 0 {
		x.TileShare += float64(mine) / float64(total)
		y.TileShare += float64(theirs) / float64(total)
	} else {
		x.TileShare += 0.5
		y.TileShare += 0.5
	}
}
