// FILE: internal/board/piece.go
package board

import (
	"fmt"

	"draughts/internal/core"
)

// PieceID is a handle into a board's piece arena. Zero means no piece.
type PieceID int32

// Piece is a value snapshot of an arena entry. Changes to a piece on the
// board go through Board methods only.
type Piece struct {
	ID       PieceID     `json:"id"`
	Side     core.Side   `json:"side"`
	Promoted bool        `json:"promoted"`
	Pos      core.Vector `json:"position"`
}

// NewPiece validates the attributes of a piece that is about to be placed
func NewPiece(side core.Side, pos core.Vector, promoted bool) (Piece, error) {
	if !side.Valid() {
		return Piece{}, fmt.Errorf("invalid side %d", side)
	}
	if err := core.CheckCoordinate(pos); err != nil {
		return Piece{}, err
	}
	return Piece{Side: side, Promoted: promoted, Pos: pos}, nil
}

// ShouldBePromoted reports whether a man stands on its side's far row
func (p Piece) ShouldBePromoted() bool {
	return !p.Promoted && p.Pos.Y == p.Side.FarRow()
}

// Symbol is the one-letter board glyph: l/L for light, d/D for dark, upper case for kings
func (p Piece) Symbol() byte {
	var c byte = 'l'
	if p.Side == core.SideDark {
		c = 'd'
	}
	if p.Promoted {
		c -= 'a' - 'A'
	}
	return c
}

func (p Piece) String() string {
	kind := "man"
	if p.Promoted {
		kind = "king"
	}
	return fmt.Sprintf("%s %s at %s", p.Side, kind, p.Pos)
}

func (p *Piece) moveTo(pos core.Vector) error {
	if err := core.CheckCoordinate(pos); err != nil {
		return err
	}
	p.Pos = pos
	return nil
}

func (p *Piece) promote() error {
	if p.Promoted {
		return fmt.Errorf("%w: %s", core.ErrAlreadyPromoted, p)
	}
	p.Promoted = true
	return nil
}

func (p *Piece) demote() error {
	if !p.Promoted {
		return fmt.Errorf("%w: %s", core.ErrNotPromoted, p)
	}
	p.Promoted = false
	return nil
}
