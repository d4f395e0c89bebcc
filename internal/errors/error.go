package errors

import "errors"

var (
	ErrIllegalMove         = errors.New("illegal move")
	ErrCellOccupied        = errors.New("cell is already occupied")
	ErrNoFlips             = errors.New("move traps no discs")
	ErrMalformedCoordinate = errors.New("malformed coordinate")
	ErrInvalidPass         = errors.New("pass while legal moves exist")
	ErrSearchTimeout       = errors.New("search deadline exceeded")
	ErrSessionNotFound     = errors.New("session was not found")
	ErrGameOver            = errors.New("game is already over")
	ErrNotYourTurn         = errors.New("not your turn")
	ErrSessionConflict     = errors.New("session was changed by another move")
	ErrMalformedRequest    = errors.New("malformed request")
	ErrInternal            = errors.New("internal error")
)
