// FILE: internal/board/board.go
package board

import (
	"fmt"

	"draughts/internal/core"
)

// standardRows is the number of back rows each side fills at the start
const standardRows = 3

// Board is the single mutable source of truth for piece placement. The grid
// stores handles into an arena; captured pieces stay in the arena so undo can
// revive them under the same handle.
type Board struct {
	cells [core.CellsPerSide][core.CellsPerSide]PieceID // [y][x]
	arena []Piece                                     // arena[id-1]
}

// New returns an empty board
func New() *Board {
	return &Board{}
}

// Cell resolves a coordinate. Anything off the board is a wall.
func (b *Board) Cell(pos core.Vector) Cell {
	if !pos.InBounds() {
		return Cell{Kind: CellWall}
	}
	id := b.cells[pos.Y][pos.X]
	if id == 0 {
		return Cell{Kind: CellEmpty}
	}
	return Cell{Kind: CellOccupied, Piece: b.arena[id-1]}
}

// Piece returns the piece behind a handle if it is currently on the board
func (b *Board) Piece(id PieceID) (Piece, bool) {
	if !b.onBoard(id) {
		return Piece{}, false
	}
	return b.arena[id-1], true
}

func (b *Board) onBoard(id PieceID) bool {
	if id <= 0 || int(id) > len(b.arena) {
		return false
	}
	pos := b.arena[id-1].Pos
	return pos.InBounds() && b.cells[pos.Y][pos.X] == id
}

// AddPiece places p on its cell. A p.ID naming a removed arena entry revives
// that entry, otherwise a new handle is allocated.
func (b *Board) AddPiece(p Piece) (PieceID, error) {
	if err := core.CheckCoordinate(p.Pos); err != nil {
		return 0, err
	}
	if !p.Side.Valid() {
		return 0, fmt.Errorf("invalid side %d", p.Side)
	}
	if b.cells[p.Pos.Y][p.Pos.X] != 0 {
		return 0, fmt.Errorf("%w: %s", core.ErrOccupiedCell, p.Pos)
	}

	id := p.ID
	if id > 0 && int(id) <= len(b.arena) && !b.onBoard(id) {
		b.arena[id-1] = Piece{ID: id, Side: p.Side, Promoted: p.Promoted, Pos: p.Pos}
	} else {
		b.arena = append(b.arena, Piece{Side: p.Side, Promoted: p.Promoted, Pos: p.Pos})
		id = PieceID(len(b.arena))
		b.arena[id-1].ID = id
	}

	b.cells[p.Pos.Y][p.Pos.X] = id
	return id, nil
}

// RemovePiece clears a cell
func (b *Board) RemovePiece(pos core.Vector) error {
	if err := core.CheckCoordinate(pos); err != nil {
		return err
	}
	if b.cells[pos.Y][pos.X] == 0 {
		return fmt.Errorf("%w: %s", core.ErrEmptyCell, pos)
	}
	b.cells[pos.Y][pos.X] = 0
	return nil
}

// MovePiece relocates the piece at from. A capture move may land on an
// occupied cell, the occupant is expected to be removed later in the turn.
func (b *Board) MovePiece(from, to core.Vector, isCapture bool) error {
	if err := core.CheckCoordinate(from); err != nil {
		return err
	}
	if err := core.CheckCoordinate(to); err != nil {
		return err
	}

	id := b.cells[from.Y][from.X]
	if id == 0 {
		return fmt.Errorf("%w: %s", core.ErrEmptyCell, from)
	}
	if !isCapture && b.cells[to.Y][to.X] != 0 {
		return fmt.Errorf("%w: %s", core.ErrOccupiedCell, to)
	}
	if from == to {
		// a capture chain may end where it started
		return nil
	}

	if err := b.arena[id-1].moveTo(to); err != nil {
		return err
	}
	b.cells[from.Y][from.X] = 0
	b.cells[to.Y][to.X] = id
	return nil
}

// Promote turns the piece into a king
func (b *Board) Promote(id PieceID) error {
	if !b.onBoard(id) {
		return fmt.Errorf("%w: piece %d is not on the board", core.ErrEmptyCell, id)
	}
	return b.arena[id-1].promote()
}

// Demote reverts a promotion, used by undo only
func (b *Board) Demote(id PieceID) error {
	if !b.onBoard(id) {
		return fmt.Errorf("%w: piece %d is not on the board", core.ErrEmptyCell, id)
	}
	return b.arena[id-1].demote()
}

// IsClear reports whether no cell holds a piece
func (b *Board) IsClear() bool {
	return b.Count() == 0
}

// Count returns the number of occupied cells
func (b *Board) Count() int {
	n := 0
	for y := range b.cells {
		for x := range b.cells[y] {
			if b.cells[y][x] != 0 {
				n++
			}
		}
	}
	return n
}

// Pieces lists the pieces on the board from top to bottom, left to right
func (b *Board) Pieces() []Piece {
	var pieces []Piece
	for y := range b.cells {
		for x := range b.cells[y] {
			if id := b.cells[y][x]; id != 0 {
				pieces = append(pieces, b.arena[id-1])
			}
		}
	}
	return pieces
}

// FillStandardBoard places the starting formation: three back rows per
// side, centered, each row two cells narrower than the one behind it.
func (b *Board) FillStandardBoard() error {
	if !b.IsClear() {
		return core.ErrBoardNotClear
	}

	const n = core.CellsPerSide
	for i := 0; i < standardRows; i++ {
		count := n - i*2
		for x := (n - count) / 2; x < (n+count)/2; x++ {
			b.mustAdd(core.SideDark, core.Vector{X: x, Y: i})
			b.mustAdd(core.SideLight, core.Vector{X: x, Y: n - 1 - i})
		}
	}
	return nil
}

func (b *Board) mustAdd(side core.Side, pos core.Vector) {
	if _, err := b.AddPiece(Piece{Side: side, Pos: pos}); err != nil {
		panic(fmt.Sprintf("standard layout: %v", err))
	}
}

// FillBoard places a supplied piece list on a clear board. On failure the
// board is left clear.
func (b *Board) FillBoard(pieces []Piece) ([]PieceID, error) {
	if !b.IsClear() {
		return nil, core.ErrBoardNotClear
	}

	ids := make([]PieceID, 0, len(pieces))
	for _, p := range pieces {
		p.ID = 0
		id, err := b.AddPiece(p)
		if err != nil {
			b.ClearBoard()
			return nil, fmt.Errorf("fill board: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ClearBoard empties every cell and forgets all handles
func (b *Board) ClearBoard() {
	b.cells = [core.CellsPerSide][core.CellsPerSide]PieceID{}
	b.arena = nil
}

// Reset clears the board and refills the standard formation
func (b *Board) Reset() {
	b.ClearBoard()
	if err := b.FillStandardBoard(); err != nil {
		panic(fmt.Sprintf("reset: %v", err))
	}
}
