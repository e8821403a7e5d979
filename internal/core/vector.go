// FILE: internal/core/vector.go
package core

import (
	"encoding/json"
	"fmt"
	"math"
)

// Vector is a board coordinate or a direction. Rows are stored from top to
// bottom, so y=0 is Dark's back row.
type Vector struct {
	X int
	Y int
}

func (v Vector) Add(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vector) Sub(o Vector) Vector {
	return Vector{X: v.X - o.X, Y: v.Y - o.Y}
}

// InBounds reports whether v addresses a board cell
func (v Vector) InBounds() bool {
	return v.X >= 0 && v.X < CellsPerSide && v.Y >= 0 && v.Y < CellsPerSide
}

// CheckCoordinate is the single place positions are validated
func CheckCoordinate(v Vector) error {
	if !v.InBounds() {
		return fmt.Errorf("%w: (%d, %d) outside [0, %d]", ErrInvalidCoordinate, v.X, v.Y, CellsPerSide-1)
	}
	return nil
}

// String prints the square name, e.g. "c3"
func (v Vector) String() string {
	if !v.InBounds() {
		return fmt.Sprintf("(%d,%d)", v.X, v.Y)
	}
	return fmt.Sprintf("%c%d", 'a'+v.X, CellsPerSide-v.Y)
}

type vectorJSON struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (v Vector) MarshalJSON() ([]byte, error) {
	return json.Marshal(vectorJSON{X: v.X, Y: v.Y})
}

// UnmarshalJSON rejects fractional and out-of-range coordinates
func (v *Vector) UnmarshalJSON(data []byte) error {
	var raw struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCoordinate, err)
	}
	if raw.X != math.Trunc(raw.X) || raw.Y != math.Trunc(raw.Y) {
		return fmt.Errorf("%w: (%v, %v) is not integral", ErrInvalidCoordinate, raw.X, raw.Y)
	}
	parsed := Vector{X: int(raw.X), Y: int(raw.Y)}
	if err := CheckCoordinate(parsed); err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Directions
var (
	Up    = Vector{X: 0, Y: -1}
	Down  = Vector{X: 0, Y: 1}
	Left  = Vector{X: -1, Y: 0}
	Right = Vector{X: 1, Y: 0}

	// Orthogonal is the capture direction set
	Orthogonal = []Vector{Up, Right, Down, Left}

	AllDirections = []Vector{
		Up, Right, Down, Left,
		{X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1}, {X: -1, Y: -1},
	}
)

// Perpendicular returns the two orthogonal directions at a right angle to d
func Perpendicular(d Vector) [2]Vector {
	return [2]Vector{{X: d.Y, Y: d.X}, {X: -d.Y, Y: -d.X}}
}
