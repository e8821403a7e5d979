// FILE: internal/movecalc/capture.go
package movecalc

import (
	"slices"

	"draughts/internal/board"
	"draughts/internal/core"
)

// CalculateAttackMoves returns the capture chains of p that remove the most
// pieces, or nil when p cannot capture.
func CalculateAttackMoves(v board.View, p board.Piece) []Move {
	s := &captureSearch{view: v, piece: p, path: []core.Vector{p.Pos}}
	if p.Promoted {
		for _, d := range core.Orthogonal {
			s.kingAlong(p.Pos, d)
		}
	} else {
		s.manFrom(p.Pos)
	}
	return longest(s.moves)
}

func longest(moves []Move) []Move {
	most := 0
	for _, m := range moves {
		most = max(most, len(m.Captured))
	}
	var out []Move
	for _, m := range moves {
		if len(m.Captured) == most {
			out = append(out, m)
		}
	}
	return out
}

// captureSearch is a backtracking walk over capture chains. path and removed
// grow on entry to a branch and shrink on exit.
type captureSearch struct {
	view    board.View
	piece   board.Piece
	path    []core.Vector
	removed []board.PieceID
	moves   []Move
}

// cell treats the mover's starting square as vacated
func (s *captureSearch) cell(pos core.Vector) board.Cell {
	if pos == s.piece.Pos {
		return board.Cell{Kind: board.CellEmpty}
	}
	return s.view.Cell(pos)
}

func (s *captureSearch) empty(pos core.Vector) bool {
	return s.cell(pos).Kind == board.CellEmpty
}

// capturable is an enemy not yet taken in this chain. Taken pieces stay on
// the board until the move is applied, so they still block.
func (s *captureSearch) capturable(c board.Cell) bool {
	return c.Kind == board.CellOccupied &&
		c.Piece.Side != s.piece.Side &&
		!slices.Contains(s.removed, c.Piece.ID)
}

func (s *captureSearch) push(pos core.Vector) {
	s.path = append(s.path, pos)
}

func (s *captureSearch) pop() {
	s.path = s.path[:len(s.path)-1]
}

func (s *captureSearch) emit() {
	s.moves = append(s.moves, Move{
		Path:     slices.Clone(s.path),
		Captured: slices.Clone(s.removed),
	})
}

// manFrom tries a jump in every orthogonal direction and reports whether any
// was possible. A chain ends where no further jump exists.
func (s *captureSearch) manFrom(pos core.Vector) bool {
	found := false
	for _, d := range core.Orthogonal {
		over := pos.Add(d)
		land := over.Add(d)
		c := s.cell(over)
		if !s.capturable(c) || !s.empty(land) {
			continue
		}
		found = true

		s.push(land)
		s.removed = append(s.removed, c.Piece.ID)
		if !s.manFrom(land) {
			s.emit()
		}
		s.removed = s.removed[:len(s.removed)-1]
		s.pop()
	}
	return found
}

// kingTurns looks for a continuation at a right angle to d from pos
func (s *captureSearch) kingTurns(pos, d core.Vector) bool {
	found := false
	for _, t := range core.Perpendicular(d) {
		if s.kingAlong(pos, t) {
			found = true
		}
	}
	return found
}

// kingAlong flies from pos along d over empty cells to the first piece. If it
// can be taken, every empty cell behind it is a landing square: each one is
// tried for a turn, and a landing without a turn ends a chain. The flight then
// continues straight from the farthest landing. Reports whether a capture
// was made along d.
func (s *captureSearch) kingAlong(pos, d core.Vector) bool {
	over := pos.Add(d)
	for s.empty(over) {
		over = over.Add(d)
	}
	c := s.cell(over)
	land := over.Add(d)
	if !s.capturable(c) || !s.empty(land) {
		return false
	}

	s.removed = append(s.removed, c.Piece.ID)
	for ; s.empty(land); land = land.Add(d) {
		s.push(land)
		if !s.kingTurns(land, d) {
			s.emit()
		}
		s.pop()
	}

	last := land.Sub(d)
	s.push(last)
	s.kingAlong(last, d)
	s.pop()

	s.removed = s.removed[:len(s.removed)-1]
	return true
}
