// FILE: internal/movecalc/move.go
package movecalc

import (
	"fmt"
	"slices"

	"draughts/internal/board"
	"draughts/internal/core"
)

// Move is a candidate move. Path[0] is the origin and the last point the
// destination; intermediate points appear for capture chains and king
// slides. Captured is nil for a simple move.
type Move struct {
	Path     []core.Vector   `json:"path"`
	Captured []board.PieceID `json:"captured,omitempty"`
}

// NewMove validates a path and normalizes an empty capture list to nil
func NewMove(path []core.Vector, captured []board.PieceID) (Move, error) {
	if len(path) < 2 {
		return Move{}, fmt.Errorf("move path needs at least 2 points, got %d", len(path))
	}
	for _, p := range path {
		if err := core.CheckCoordinate(p); err != nil {
			return Move{}, err
		}
	}
	if len(captured) == 0 {
		captured = nil
	}
	return Move{Path: slices.Clone(path), Captured: slices.Clone(captured)}, nil
}

func (m Move) From() core.Vector {
	return m.Path[0]
}

func (m Move) To() core.Vector {
	return m.Path[len(m.Path)-1]
}

func (m Move) IsCapture() bool {
	return len(m.Captured) > 0
}

// Equal compares paths point by point and captured pieces as a set
func (m Move) Equal(o Move) bool {
	if !slices.Equal(m.Path, o.Path) || len(m.Captured) != len(o.Captured) {
		return false
	}
	for _, id := range m.Captured {
		if !slices.Contains(o.Captured, id) {
			return false
		}
	}
	return true
}

func (m Move) String() string {
	return core.FormatPath(m.Path, m.IsCapture())
}
