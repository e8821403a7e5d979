// FILE: internal/board/cell.go
package board

import (
	"fmt"
	"strings"

	"draughts/internal/core"
)

type CellKind uint8

const (
	CellEmpty CellKind = iota
	CellOccupied
	CellWall
)

func (k CellKind) String() string {
	switch k {
	case CellEmpty:
		return "empty"
	case CellOccupied:
		return "occupied"
	case CellWall:
		return "wall"
	default:
		return "unknown"
	}
}

// Cell is the result of a board lookup. Piece is only meaningful for CellOccupied.
type Cell struct {
	Kind  CellKind
	Piece Piece
}

// View is the read-only surface handed to move search and renderers
type View interface {
	Cell(pos core.Vector) Cell
}

// ToASCII draws the board with file letters and rank numbers
func ToASCII(v View) string {
	var sb strings.Builder
	files := "  "
	for x := 0; x < core.CellsPerSide; x++ {
		files += fmt.Sprintf("%c ", 'a'+x)
	}
	files = strings.TrimRight(files, " ")
	sb.WriteString(files + "\n")

	for y := 0; y < core.CellsPerSide; y++ {
		sb.WriteString(fmt.Sprintf("%d ", core.CellsPerSide-y))
		for x := 0; x < core.CellsPerSide; x++ {
			c := v.Cell(core.Vector{X: x, Y: y})
			if c.Kind == CellOccupied {
				sb.WriteString(fmt.Sprintf("%c ", c.Piece.Symbol()))
			} else {
				sb.WriteString(". ")
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", core.CellsPerSide-y))
	}
	sb.WriteString(files)

	return sb.String()
}

// Grid is a detached copy of a board that can be read after the game moves on
type Grid [core.CellsPerSide][core.CellsPerSide]Cell

// Freeze copies every cell of v
func Freeze(v View) *Grid {
	var g Grid
	for y := range g {
		for x := range g[y] {
			g[y][x] = v.Cell(core.Vector{X: x, Y: y})
		}
	}
	return &g
}

func (g *Grid) Cell(pos core.Vector) Cell {
	if !pos.InBounds() {
		return Cell{Kind: CellWall}
	}
	return g[pos.Y][pos.X]
}
