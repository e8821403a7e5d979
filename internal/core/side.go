// FILE: internal/core/side.go
package core

import "fmt"

// Board geometry and the standard formation counts
const (
	CellsPerSide     = 8
	TotalLightPieces = 18
	TotalDarkPieces  = 18
	TotalPieces      = TotalLightPieces + TotalDarkPieces
)

type Side byte

const (
	SideLight Side = iota + 1
	SideDark
)

func (s Side) String() string {
	switch s {
	case SideLight:
		return "light"
	case SideDark:
		return "dark"
	default:
		return "-"
	}
}

func (s Side) Valid() bool {
	return s == SideLight || s == SideDark
}

// Opposite returns the other side
func (s Side) Opposite() Side {
	if s == SideLight {
		return SideDark
	}
	return SideLight
}

// Forward is the y step of a man's advance. Light starts at the bottom rows
// and moves up, Dark starts at the top and moves down.
func (s Side) Forward() int {
	if s == SideLight {
		return -1
	}
	return 1
}

// FarRow is the promotion row of the side
func (s Side) FarRow() int {
	if s == SideLight {
		return 0
	}
	return CellsPerSide - 1
}

func (s Side) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid side: %d", s)
	}
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(text []byte) error {
	switch string(text) {
	case "light":
		*s = SideLight
	case "dark":
		*s = SideDark
	default:
		return fmt.Errorf("invalid side: %q", text)
	}
	return nil
}
