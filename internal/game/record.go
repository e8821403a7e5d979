// FILE: internal/game/record.go
package game

import (
	"fmt"

	"draughts/internal/board"
	"draughts/internal/core"
	"draughts/internal/movecalc"
)

// MoveRecord holds what is needed to take back one applied move
type MoveRecord struct {
	From     core.Vector
	To       core.Vector
	Removed  []board.Piece
	Promoted bool
}

// PieceMoves associates a piece with its legal moves for the current turn
type PieceMoves struct {
	Piece board.Piece
	Moves []movecalc.Move
}

func NewPieceMoves(p board.Piece, moves []movecalc.Move) (PieceMoves, error) {
	if len(moves) == 0 {
		return PieceMoves{}, fmt.Errorf("%w: %s", core.ErrMoveNotFound, p)
	}
	return PieceMoves{Piece: p, Moves: moves}, nil
}
