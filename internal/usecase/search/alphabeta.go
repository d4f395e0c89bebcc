package search

import (
	"cmp"
	"fmt"
	"time"

	"othello_ai/internal/domain/board"
	errs "othello_ai/internal/errors"
	"othello_ai/internal/pq"
)

// evaluatedAction is a candidate move together with the position it leads to
// and that position's static value.
type evaluatedAction struct {
	action board.Action
	state  *board.Board
	value  float64
}

func compareEvaluated(a, b evaluatedAction) int {
	return cmp.Compare(a.value, b.value)
}

// node is what a max or min node hands back to its parent. hasAction is false
// for leaves and for positions where the mover had to pass.
type node struct {
	value     float64
	action    board.Action
	hasAction bool
}

// searcher carries the state of one top-level search. Concurrent searches
// each own their own searcher.
type searcher struct {
	deadline    time.Time
	hasDeadline bool
	now         func() time.Time
	nodes       int
}

func (s *searcher) expired() bool {
	return s.hasDeadline && !s.now().Before(s.deadline)
}

// expand orders the children of b for the given orientation by their static
// value.
func expand(b *board.Board, order pq.Order) (*pq.Heap[evaluatedAction], error) {
	mover := b.ToMove()
	moves := b.LegalMoves(mover)
	children := pq.New(len(moves), order, compareEvaluated)
	for _, a := range moves {
		next, err := b.Apply(mover, a)
		if err != nil {
			return nil, fmt.Errorf("expand %v: %w", a, err)
		}
		children.Insert(evaluatedAction{action: a, state: next, value: next.Evaluate()})
	}
	return children, nil
}

func (s *searcher) maxNode(b *board.Board, alpha, beta float64, depth int) (node, error) {
	if s.expired() {
		return node{}, errs.ErrSearchTimeout
	}
	s.nodes++
	if depth == 0 || b.IsTerminal() {
		return node{value: b.Evaluate()}, nil
	}

	children, err := expand(b, pq.MaxFirst)
	if err != nil {
		return node{}, err
	}
	if children.IsEmpty() {
		child, err := s.minNode(b.Pass(), alpha, beta, depth-1)
		if err != nil {
			return node{}, err
		}
		return node{value: child.value}, nil
	}

	best := node{value: lowest}
	for {
		c, ok := children.Pop()
		if !ok {
			break
		}
		child, err := s.minNode(c.state, alpha, beta, depth-1)
		if err != nil {
			return node{}, err
		}
		if !best.hasAction || child.value > best.value {
			best = node{value: child.value, action: c.action, hasAction: true}
			alpha = max(alpha, best.value)
		}
		if best.value >= beta {
			return best, nil
		}
	}
	return best, nil
}

func (s *searcher) minNode(b *board.Board, alpha, beta float64, depth int) (node, error) {
	if s.expired() {
		return node{}, errs.ErrSearchTimeout
	}
	s.nodes++
	if depth == 0 || b.IsTerminal() {
		return node{value: b.Evaluate()}, nil
	}

	children, err := expand(b, pq.MinFirst)
	if err != nil {
		return node{}, err
	}
	if children.IsEmpty() {
		child, err := s.maxNode(b.Pass(), alpha, beta, depth-1)
		if err != nil {
			return node{}, err
		}
		return node{value: child.value}, nil
	}

	best := node{value: highest}
	for {
		c, ok := children.Pop()
		if !ok {
			break
		}
		child, err := s.maxNode(c.state, alpha, beta, depth-1)
		if err != nil {
			return node{}, err
		}
		if !best.hasAction || child.value < best.value {
			best = node{value: child.value, action: c.action, hasAction: true}
			beta = min(beta, best.value)
		}
		if best.value <= alpha {
			return best, nil
		}
	}
	return best, nil
}
