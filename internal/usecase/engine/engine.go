package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"othello_ai/internal/domain/board"
	"othello_ai/internal/domain/engine"
	"othello_ai/internal/usecase/search"
)

// MaxBudget caps the time a caller may ask for.
const MaxBudget = 30 * time.Second

type EngineUseCase struct {
	engine *search.Engine
	budget time.Duration
	log    *zap.SugaredLogger
}

func NewEngineUseCase(e *search.Engine, budget time.Duration, log *zap.SugaredLogger) *EngineUseCase {
	return &EngineUseCase{
		engine: e,
		budget: budget,
		log:    log,
	}
}

// ChooseMove searches the position for the side to move within the requested
// time limit, or the configured one when none is given.
func (u *EngineUseCase) ChooseMove(ctx context.Context, req engine.MoveRequest) (engine.MoveResponse, error) {
	if err := ctx.Err(); err != nil {
		return engine.MoveResponse{}, err
	}
	toMove, err := board.ParsePlayer(req.ToMove)
	if err != nil {
		return engine.MoveResponse{}, err
	}
	b, err := board.Parse(req.Board, toMove, toMove)
	if err != nil {
		return engine.MoveResponse{}, err
	}

	budget := u.budget
	if req.TimeLimitMs > 0 {
		budget = min(time.Duration(req.TimeLimitMs)*time.Millisecond, MaxBudget)
	}

	res := u.engine.ChooseMove(b, budget)
	resp := engine.MoveResponse{
		Pass:      res.Pass,
		Depth:     res.Depth,
		Value:     res.Value,
		Nodes:     res.Nodes,
		Fallback:  res.Fallback,
		ElapsedMs: res.Elapsed.Milliseconds(),
	}
	if !res.Pass {
		resp.Move = res.Action.String()
		resp.Row, resp.Col = res.Action.Row, res.Action.Col
	}
	u.log.Infof("chose %q for %v: depth %d, %d nodes, %v", resp.Move, toMove, res.Depth, res.Nodes, res.Elapsed)
	return resp, nil
}

func (u *EngineUseCase) Evaluate(ctx context.Context, req engine.EvaluateRequest) (engine.EvaluateResponse, error) {
	if err := ctx.Err(); err != nil {
		return engine.EvaluateResponse{}, err
	}
	toMove, err := board.ParsePlayer(req.ToMove)
	if err != nil {
		return engine.EvaluateResponse{}, err
	}
	perspective := toMove
	if req.Perspective != "" {
		if perspective, err = board.ParsePlayer(req.Perspective); err != nil {
			return engine.EvaluateResponse{}, err
		}
	}
	b, err := board.Parse(req.Board, toMove, perspective)
	if err != nil {
		return engine.EvaluateResponse{}, err
	}

	moves := b.LegalMoves(toMove)
	legal := make([]string, len(moves))
	for i, a := range moves {
		legal[i] = a.String()
	}
	resp := engine.EvaluateResponse{
		Value:       b.Evaluate(),
		Perspective: perspective.String(),
		Terminal:    b.IsTerminal(),
		LegalMoves:  legal,
		TilesA:      b.Tiles(board.PlayerA),
		TilesB:      b.Tiles(board.PlayerB),
		StableA:     b.StableDiscs(board.PlayerA)[4],
		StableB:     b.StableDiscs(board.PlayerB)[4],
	}
	if resp.Terminal {
		resp.Winner = b.Winner().String()
	}
	return resp, nil
}
