// FILE: internal/core/error.go
package core

import "errors"

// Engine contract errors. All of them are raised before any mutation happens.
var (
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrOccupiedCell      = errors.New("cell is occupied")
	ErrEmptyCell         = errors.New("cell is empty")
	ErrMoveNotFound      = errors.New("no moves for piece")
	ErrIllegalMove       = errors.New("illegal move")
	ErrAlreadyPromoted   = errors.New("piece already promoted")
	ErrNotPromoted       = errors.New("piece is not promoted")
	ErrBoardNotClear     = errors.New("board is not clear")
	ErrNoMoveToUndo      = errors.New("no move to undo")
	ErrInvalidState      = errors.New("invalid game state")
	ErrGameNotFound      = errors.New("game not found")
)

// Error codes
const (
	CodeGameNotFound      = "GAME_NOT_FOUND"
	CodeInvalidMove       = "INVALID_MOVE"
	CodeNoMoveToUndo      = "NO_MOVE_TO_UNDO"
	CodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	CodeInvalidContent    = "INVALID_CONTENT_TYPE"
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeInvalidState      = "INVALID_STATE"
	CodeInternalError     = "INTERNAL_ERROR"
)
