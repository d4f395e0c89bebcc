package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"othello_ai/internal/domain/board"
	"othello_ai/internal/domain/session"
	errs "othello_ai/internal/errors"
	"othello_ai/internal/usecase/search"
)

type SessionStore interface {
	SaveSession(ctx context.Context, s session.Session) error
	// UpdateSession stores s only if the stored copy is still at version.
	// Otherwise it returns ErrSessionConflict.
	UpdateSession(ctx context.Context, s session.Session, version int) error
	GetSession(ctx context.Context, id string) (session.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

type Engine interface {
	ChooseMove(b *board.Board, budget time.Duration) search.Result
}

type SessionUseCase struct {
	store  SessionStore
	engine Engine
	budget time.Duration
	log    *zap.SugaredLogger
	now    func() time.Time
}

func NewSessionUseCase(store SessionStore, engine Engine, budget time.Duration, log *zap.SugaredLogger) *SessionUseCase {
	return &SessionUseCase{
		store:  store,
		engine: engine,
		budget: budget,
		log:    log,
		now:    time.Now,
	}
}

// Create starts a game. When the engine holds PlayerA it opens at once.
func (u *SessionUseCase) Create(ctx context.Context, engineSide board.Cell) (session.Session, error) {
	if !engineSide.IsPlayer() {
		return session.Session{}, fmt.Errorf("engine side %v: %w", engineSide, errs.ErrMalformedCoordinate)
	}
	now := u.now()
	s := session.Session{
		ID:         uuid.New().String(),
		EngineSide: engineSide.String(),
		Status:     session.StatusActive,
		CreatedAt:  now,
	}
	b := board.New(engineSide)
	b, s.Moves = u.respond(b, engineSide, s.Moves)
	u.snapshot(&s, b)

	if err := u.store.SaveSession(ctx, s); err != nil {
		return session.Session{}, err
	}
	u.log.Infof("session %s created, engine plays %s", s.ID, s.EngineSide)
	return s, nil
}

func (u *SessionUseCase) Get(ctx context.Context, id string) (session.Session, error) {
	return u.store.GetSession(ctx, id)
}

// Delete abandons a game. Unknown ids report ErrSessionNotFound.
func (u *SessionUseCase) Delete(ctx context.Context, id string) error {
	if _, err := u.store.GetSession(ctx, id); err != nil {
		return err
	}
	return u.store.DeleteSession(ctx, id)
}

// Play applies the opponent's move and the engine's reply. Unparseable input
// is rejected without touching the game. An illegal move, or a pass while a
// legal move exists, forfeits the game for the opponent. Of two moves made
// against the same position only the first is kept; the other gets
// ErrSessionConflict.
func (u *SessionUseCase) Play(ctx context.Context, id, move string) (session.Session, error) {
	s, err := u.store.GetSession(ctx, id)
	if err != nil {
		return session.Session{}, err
	}
	if s.Status == session.StatusFinished {
		return s, errs.ErrGameOver
	}

	engineSide, b, err := restore(s)
	if err != nil {
		u.log.Errorf("session %s holds a broken snapshot: %v", id, err)
		return session.Session{}, errs.ErrInternal
	}
	opponent := engineSide.Opponent()
	if b.ToMove() != opponent {
		return s, errs.ErrNotYourTurn
	}

	pass, action, err := parseMove(move)
	if err != nil {
		return s, err
	}

	switch {
	case pass && len(b.LegalMoves(opponent)) > 0:
		u.forfeit(&s, b, engineSide, "pass")
		u.log.Infof("session %s: opponent passed with legal moves and forfeits", id)
	case pass:
		s.Moves = append(s.Moves, opponent.String()+" pass")
		b = b.Pass()
	default:
		next, err := b.Apply(opponent, action)
		if err != nil {
			if errors.Is(err, errs.ErrMalformedCoordinate) {
				return s, err
			}
			u.forfeit(&s, b, engineSide, action.String())
			u.log.Infof("session %s: opponent played %v illegally and forfeits: %v", id, action, err)
			break
		}
		s.Moves = append(s.Moves, opponent.String()+" "+action.String())
		b = next
	}

	if s.Status != session.StatusFinished {
		b, s.Moves = u.respond(b, engineSide, s.Moves)
		u.snapshot(&s, b)
	}
	s.UpdatedAt = u.now()

	version := s.Version
	s.Version++
	if err := u.store.UpdateSession(ctx, s, version); err != nil {
		if errors.Is(err, errs.ErrSessionConflict) {
			u.log.Infof("session %s: move %q lost a race with another move", id, move)
		}
		return session.Session{}, err
	}
	return s, nil
}

// respond lets the engine move until it is the opponent's turn with a legal
// move available, or the game ends. Forced passes are played automatically
// for both sides.
func (u *SessionUseCase) respond(b *board.Board, engineSide board.Cell, moves []string) (*board.Board, []string) {
	for !b.IsTerminal() {
		mover := b.ToMove()
		if mover != engineSide {
			if len(b.LegalMoves(mover)) > 0 {
				break
			}
			moves = append(moves, mover.String()+" pass")
			b = b.Pass()
			continue
		}

		res := u.engine.ChooseMove(b, u.budget)
		if res.Pass {
			moves = append(moves, mover.String()+" pass")
			b = b.Pass()
			continue
		}
		next, err := b.Apply(mover, res.Action)
		if err != nil {
			// The engine only returns legal moves; treat anything else as a pass.
			u.log.Errorf("engine proposed %v: %v", res.Action, err)
			moves = append(moves, mover.String()+" pass")
			b = b.Pass()
			continue
		}
		u.log.Debugf("engine plays %v at depth %d (value %.2f)", res.Action, res.Depth, res.Value)
		moves = append(moves, mover.String()+" "+res.Action.String())
		b = next
	}
	return b, moves
}

func (u *SessionUseCase) snapshot(s *session.Session, b *board.Board) {
	s.Board = b.Rows()
	s.ToMove = b.ToMove().String()
	s.TilesA = b.Tiles(board.PlayerA)
	s.TilesB = b.Tiles(board.PlayerB)
	if b.IsTerminal() {
		s.Status = session.StatusFinished
		s.Winner = b.Winner().String()
	}
}

func (u *SessionUseCase) forfeit(s *session.Session, b *board.Board, engineSide board.Cell, move string) {
	s.Moves = append(s.Moves, engineSide.Opponent().String()+" "+move)
	u.snapshot(s, b)
	s.Status = session.StatusFinished
	s.Winner = engineSide.String()
	s.Forfeit = true
}

func restore(s session.Session) (board.Cell, *board.Board, error) {
	engineSide, err := board.ParsePlayer(s.EngineSide)
	if err != nil {
		return board.Empty, nil, err
	}
	toMove, err := board.ParsePlayer(s.ToMove)
	if err != nil {
		return board.Empty, nil, err
	}
	b, err := board.Parse(s.Board, toMove, engineSide)
	if err != nil {
		return board.Empty, nil, err
	}
	return engineSide, b, nil
}

// parseMove accepts "pass", "P", "P 1" or a square such as "D 3".
func parseMove(move string) (bool, board.Action, error) {
	m := strings.TrimSpace(move)
	if strings.EqualFold(m, "pass") || strings.EqualFold(m, "p") || strings.EqualFold(m, "p 1") {
		return true, board.Action{}, nil
	}
	a, err := board.ParseMove(m)
	return false, a, err
}
