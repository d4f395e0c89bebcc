package match

import (
	"time"

	"othello_ai/internal/domain/board"
	"othello_ai/internal/usecase/search"
)

// Strategy picks a move for the side to move. ok is false for a pass.
// Implementations are shared between concurrent games.
type Strategy interface {
	Name() string
	ChooseMove(b *board.Board) (a board.Action, ok bool)
}

// SearchStrategy plays the iterative deepening engine. A positive depth
// replaces the time budget with a fixed-depth search.
type SearchStrategy struct {
	name   string
	engine *search.Engine
	budget time.Duration
	depth  int
}

func NewSearchStrategy(name string, engine *search.Engine, budget time.Duration) *SearchStrategy {
	return &SearchStrategy{
		name:   name,
		engine: engine,
		budget: budget,
	}
}

func NewFixedDepthStrategy(name string, engine *search.Engine, depth int) *SearchStrategy {
	return &SearchStrategy{
		name:   name,
		engine: engine,
		depth:  depth,
	}
}

func (s *SearchStrategy) Name() string { return s.name }

func (s *SearchStrategy) ChooseMove(b *board.Board) (board.Action, bool) {
	var res search.Result
	if s.depth > 0 {
		res = s.engine.SearchDepth(b, s.depth)
	} else {
		res = s.engine.ChooseMove(b, s.budget)
	}
	return res.Action, !res.Pass
}

// GreedyStrategy looks one ply ahead and takes the child with the best
// static value for the mover. Ties go to the first move in row-major order.
type GreedyStrategy struct {
	name string
}

func NewGreedyStrategy(name string) *GreedyStrategy {
	return &GreedyStrategy{name: name}
}

func (g *GreedyStrategy) Name() string { return g.name }

func (g *GreedyStrategy) ChooseMove(b *board.Board) (board.Action, bool) {
	mover := b.ToMove()
	var (
		best  board.Action
		value float64
		found bool
	)
	for _, a := range b.LegalMoves(mover) {
		next, err := b.Apply(mover, a)
		if err != nil {
			continue
		}
		v := next.Rebind(mover).Evaluate()
		if !found || v > value {
			best, value, found = a, v, true
		}
	}
	return best, found
}
