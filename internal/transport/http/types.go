// FILE: internal/transport/http/types.go
package http

import (
	"draughts/internal/board"
	"draughts/internal/core"
	"draughts/internal/game"
	"draughts/internal/service"
)

// Request types

type CreateGameRequest struct {
	State *game.GameState `json:"state,omitempty"`
}

type MoveRequest struct {
	Path []string `json:"path" validate:"required,min=2,max=64,dive,len=2"` // squares: ["c6","c5"]
}

// Response types

type PieceInfo struct {
	ID       board.PieceID `json:"id"`
	Side     core.Side     `json:"side"`
	Promoted bool          `json:"promoted,omitempty"`
	Square   string        `json:"square"`
}

type MoveInfo struct {
	From     string   `json:"from"`
	Path     []string `json:"path"`
	Notation string   `json:"notation"`
	Captures int      `json:"captures,omitempty"`
}

type GameResponse struct {
	GameID    string      `json:"gameId"`
	Turn      core.Side   `json:"turn"`
	State     string      `json:"state"` // "ongoing", "light_wins", "dark_wins"
	Pieces    []PieceInfo `json:"pieces"`
	Moves     []MoveInfo  `json:"moves"`
	CanUndo   bool        `json:"canUndo"`
	MoveCount int         `json:"moveCount"`
	LastMove  string      `json:"lastMove,omitempty"`
	ElapsedMs int64       `json:"elapsedMs"`
}

type MovesResponse struct {
	GameID string     `json:"gameId"`
	Turn   core.Side  `json:"turn"`
	Moves  []MoveInfo `json:"moves"`
}

// GamesResponse lists the ids of the live games in ascending order
type GamesResponse struct {
	Games []string `json:"games"`
}

type BoardResponse struct {
	Board string `json:"board"` // ASCII representation
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

// Helper functions

func stateToString(s core.State) string {
	switch s {
	case core.StateOngoing:
		return "ongoing"
	case core.StateLightWins:
		return "light_wins"
	case core.StateDarkWins:
		return "dark_wins"
	default:
		return "unknown"
	}
}

func squares(path []core.Vector) []string {
	out := make([]string, len(path))
	for i, v := range path {
		out[i] = v.String()
	}
	return out
}

func movesInfo(moves []game.PieceMoves) []MoveInfo {
	out := []MoveInfo{}
	for _, pm := range moves {
		for _, m := range pm.Moves {
			out = append(out, MoveInfo{
				From:     pm.Piece.Pos.String(),
				Path:     squares(m.Path),
				Notation: m.String(),
				Captures: len(m.Captured),
			})
		}
	}
	return out
}

func buildGameResponse(snap service.Snapshot) GameResponse {
	pieces := make([]PieceInfo, len(snap.Pieces))
	for i, p := range snap.Pieces {
		pieces[i] = PieceInfo{ID: p.ID, Side: p.Side, Promoted: p.Promoted, Square: p.Pos.String()}
	}
	return GameResponse{
		GameID:    snap.GameID,
		Turn:      snap.Current,
		State:     stateToString(snap.Status),
		Pieces:    pieces,
		Moves:     movesInfo(snap.Moves),
		CanUndo:   snap.CanUndo,
		MoveCount: snap.MoveCount,
		LastMove:  snap.LastMove,
		ElapsedMs: snap.Elapsed.Milliseconds(),
	}
}

// parsePath converts validated square names
func parsePath(req MoveRequest) ([]core.Vector, error) {
	path := make([]core.Vector, len(req.Path))
	for i, s := range req.Path {
		v, err := core.ParseSquare(s)
		if err != nil {
			return nil, err
		}
		path[i] = v
	}
	return path, nil
}
