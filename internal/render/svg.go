// FILE: internal/render/svg.go

// Package render draws a board view as an SVG image.
package render

import (
	"fmt"
	"io"

	"draughts/internal/board"
	"draughts/internal/core"

	svg "github.com/ajstarks/svgo"
)

const (
	CellSize = 60
	Margin   = 24
	Size     = CellSize*core.CellsPerSide + 2*Margin
)

type Theme struct {
	LightSquare string
	DarkSquare  string
	LightPiece  string
	DarkPiece   string
	Outline     string
	Label       string
}

var DefaultTheme = Theme{
	LightSquare: "#f0d9b5",
	DarkSquare:  "#b58863",
	LightPiece:  "#fafafa",
	DarkPiece:   "#2b2b2b",
	Outline:     "#555555",
	Label:       "#333333",
}

// Board writes v as a standalone SVG document
func Board(w io.Writer, v board.View, theme Theme) {
	canvas := svg.New(w)
	canvas.Start(Size, Size)
	canvas.Title("draughts board")
	canvas.Rect(0, 0, Size, Size, "fill:white")

	for y := 0; y < core.CellsPerSide; y++ {
		for x := 0; x < core.CellsPerSide; x++ {
			fill := theme.DarkSquare
			if (x+y)%2 == 0 {
				fill = theme.LightSquare
			}
			canvas.Rect(Margin+x*CellSize, Margin+y*CellSize, CellSize, CellSize, "fill:"+fill)
		}
	}

	labels(canvas, theme)

	for y := 0; y < core.CellsPerSide; y++ {
		for x := 0; x < core.CellsPerSide; x++ {
			cell := v.Cell(core.Vector{X: x, Y: y})
			if cell.Kind == board.CellOccupied {
				piece(canvas, cell.Piece, theme)
			}
		}
	}

	canvas.End()
}

func labels(canvas *svg.SVG, theme Theme) {
	style := fmt.Sprintf("text-anchor:middle;font-family:sans-serif;font-size:14px;fill:%s", theme.Label)
	for i := 0; i < core.CellsPerSide; i++ {
		center := Margin + i*CellSize + CellSize/2
		file := string(rune('a' + i))
		rank := fmt.Sprint(core.CellsPerSide - i)
		canvas.Text(center, Margin-8, file, style)
		canvas.Text(center, Size-8, file, style)
		canvas.Text(Margin/2, center+5, rank, style)
		canvas.Text(Size-Margin/2, center+5, rank, style)
	}
}

// piece draws a man as a disc; a king gets an inner ring in the outline colour
func piece(canvas *svg.SVG, p board.Piece, theme Theme) {
	fill := theme.DarkPiece
	ring := theme.LightPiece
	if p.Side == core.SideLight {
		fill, ring = theme.LightPiece, theme.DarkPiece
	}
	cx := Margin + p.Pos.X*CellSize + CellSize/2
	cy := Margin + p.Pos.Y*CellSize + CellSize/2

	canvas.Circle(cx, cy, CellSize*2/5, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:2", fill, theme.Outline))
	if p.Promoted {
		canvas.Circle(cx, cy, CellSize/5, fmt.Sprintf("fill:none;stroke:%s;stroke-width:3", ring))
	}
}
