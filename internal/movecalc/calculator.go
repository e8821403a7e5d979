// FILE: internal/movecalc/calculator.go

// Package movecalc enumerates legal moves for one piece against a read-only
// board view. Nothing here mutates the board.
package movecalc

import (
	"draughts/internal/board"
	"draughts/internal/core"
)

// CalculateMoves returns the simple (non-capture) moves of p, or nil
func CalculateMoves(v board.View, p board.Piece) []Move {
	if p.Promoted {
		return kingMoves(v, p)
	}
	return manMoves(v, p)
}

// manMoves walks the three forward directions. A man slides through a run of
// its own men and stops on the first empty cell; anything else blocks.
func manMoves(v board.View, p board.Piece) []Move {
	f := p.Side.Forward()
	var moves []Move
	for _, d := range []core.Vector{{X: 0, Y: f}, {X: -1, Y: f}, {X: 1, Y: f}} {
		pos := p.Pos.Add(d)
		for {
			c := v.Cell(pos)
			if c.Kind == board.CellEmpty {
				moves = append(moves, Move{Path: []core.Vector{p.Pos, pos}})
				break
			}
			if c.Kind != board.CellOccupied || c.Piece.Side != p.Side || c.Piece.Promoted {
				break
			}
			pos = pos.Add(d)
		}
	}
	return moves
}

// kingMoves emits one move per reachable empty cell in all eight directions.
// The path lists every cell crossed.
func kingMoves(v board.View, p board.Piece) []Move {
	var moves []Move
	for _, d := range core.AllDirections {
		path := []core.Vector{p.Pos}
		for pos := p.Pos.Add(d); v.Cell(pos).Kind == board.CellEmpty; pos = pos.Add(d) {
			path = append(path, pos)
			moves = append(moves, Move{Path: append([]core.Vector(nil), path...)})
		}
	}
	return moves
}

// HasAttackMoves reports whether p can capture anything right now. Men look
// at adjacent cells only; kings look along each orthogonal line.
func HasAttackMoves(v board.View, p board.Piece) bool {
	for _, d := range core.Orthogonal {
		over := p.Pos.Add(d)
		if p.Promoted {
			for v.Cell(over).Kind == board.CellEmpty {
				over = over.Add(d)
			}
		}
		c := v.Cell(over)
		if c.Kind == board.CellOccupied && c.Piece.Side != p.Side && v.Cell(over.Add(d)).Kind == board.CellEmpty {
			return true
		}
	}
	return false
}
