package search

import (
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	"othello_ai/internal/domain/board"
	errs "othello_ai/internal/errors"
	"othello_ai/internal/pq"
)

const (
	lowest  = -math.MaxFloat64
	highest = math.MaxFloat64
)

type Options struct {
	// StartDepth is the first depth of iterative deepening.
	StartDepth int
	// SafetyMargin is kept back from every budget for the caller's I/O.
	SafetyMargin time.Duration
	// MaxDepth stops deepening early. Zero means no limit.
	MaxDepth int
}

func DefaultOptions() Options {
	return Options{
		StartDepth:   5,
		SafetyMargin: 150 * time.Millisecond,
	}
}

// Result is the outcome of one top-level search. Pass is set when the side to
// move has nothing to play.
type Result struct {
	Action   board.Action
	Pass     bool
	Value    float64
	Depth    int
	Nodes    int
	Fallback bool
	Elapsed  time.Duration
}

type Engine struct {
	opts Options
	log  *zap.SugaredLogger
	now  func() time.Time
}

func NewEngine(opts Options, log *zap.SugaredLogger) *Engine {
	if opts.StartDepth < 1 {
		opts.StartDepth = 1
	}
	return &Engine{
		opts: opts,
		log:  log,
		now:  time.Now,
	}
}

func (e *Engine) Options() Options { return e.opts }

// ChooseMove runs iterative deepening until the budget (minus the safety
// margin) runs out and returns the result of the deepest completed depth.
// An iteration cut short by the deadline is discarded as a whole.
func (e *Engine) ChooseMove(b *board.Board, budget time.Duration) Result {
	start := e.now()
	if b.IsTerminal() {
		return Result{Pass: true}
	}
	if b.ToMove() != b.Role() {
		b = b.Rebind(b.ToMove())
	}
	if len(b.LegalMoves(b.ToMove())) == 0 {
		return Result{Pass: true}
	}

	s := &searcher{
		deadline:    start.Add(budget - e.opts.SafetyMargin),
		hasDeadline: true,
		now:         e.now,
	}

	var (
		res       Result
		completed bool
	)
	for depth := e.opts.StartDepth; e.now().Before(s.deadline); depth++ {
		if e.opts.MaxDepth > 0 && depth > e.opts.MaxDepth {
			break
		}
		n, err := s.maxNode(b, lowest, highest, depth)
		if err != nil {
			if !errors.Is(err, errs.ErrSearchTimeout) {
				e.log.Errorf("search aborted at depth %d: %v", depth, err)
			}
			break
		}
		res = Result{Action: n.action, Pass: !n.hasAction, Value: n.value, Depth: depth}
		completed = true
		e.log.Debugf("depth %d completed: move %v value %.2f nodes %d", depth, n.action, n.value, s.nodes)
	}

	if !completed {
		fallback, err := e.staticBest(b)
		if err != nil {
			e.log.Errorf("static fallback failed: %v", err)
			return Result{Pass: true, Nodes: s.nodes, Elapsed: e.now().Sub(start)}
		}
		e.log.Warnf("no depth completed within %v, falling back to %v", budget, fallback.Action)
		res = fallback
	}
	res.Nodes = s.nodes
	res.Elapsed = e.now().Sub(start)
	return res
}

// SearchDepth runs a single alpha-beta search to depth without a deadline.
func (e *Engine) SearchDepth(b *board.Board, depth int) Result {
	if b.IsTerminal() {
		return Result{Pass: true}
	}
	if b.ToMove() != b.Role() {
		b = b.Rebind(b.ToMove())
	}
	if depth < 1 {
		depth = 1
	}
	s := &searcher{}
	n, err := s.maxNode(b, lowest, highest, depth)
	if err != nil {
		e.log.Errorf("fixed depth search failed: %v", err)
		return Result{Pass: true, Nodes: s.nodes}
	}
	return Result{Action: n.action, Pass: !n.hasAction, Value: n.value, Depth: depth, Nodes: s.nodes}
}

// staticBest is the top of the one-ply move ordering.
func (e *Engine) staticBest(b *board.Board) (Result, error) {
	children, err := expand(b, pq.MaxFirst)
	if err != nil {
		return Result{}, err
	}
	top, ok := children.Peek()
	if !ok {
		return Result{Pass: true}, nil
	}
	return Result{Action: top.action, Value: top.value, Fallback: true}, nil
}
