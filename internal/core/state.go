// FILE: internal/core/state.go
package core

type State int

const (
	StateOngoing State = iota
	StateLightWins
	StateDarkWins
)

func (s State) String() string {
	switch s {
	case StateOngoing:
		return "ongoing"
	case StateLightWins:
		return "light wins"
	case StateDarkWins:
		return "dark wins"
	default:
		return "unknown"
	}
}

// WinState returns the terminal state for the given winner
func WinState(winner Side) State {
	if winner == SideLight {
		return StateLightWins
	}
	return StateDarkWins
}
