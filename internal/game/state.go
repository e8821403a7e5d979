// FILE: internal/game/state.go
package game

import (
	"encoding/json"
	"fmt"

	"draughts/internal/board"
	"draughts/internal/core"
)

// GameState is the serializable snapshot used to save and restore a game
type GameState struct {
	Current core.Side     `json:"current"`
	Pieces  []PieceState  `json:"pieces"`
	History []RecordState `json:"history,omitempty"`
}

type PieceState struct {
	Side     core.Side   `json:"side"`
	Promoted bool        `json:"promoted,omitempty"`
	Position core.Vector `json:"position"`
}

type RecordState struct {
	From     core.Vector  `json:"from"`
	To       core.Vector  `json:"to"`
	Removed  []PieceState `json:"removed,omitempty"`
	Promoted bool         `json:"promoted,omitempty"`
}

func pieceState(p board.Piece) PieceState {
	return PieceState{Side: p.Side, Promoted: p.Promoted, Position: p.Pos}
}

// State captures the position, the side to move and the undo stack
func (g *Game) State() GameState {
	st := GameState{Current: g.current}
	for _, p := range g.Pieces() {
		st.Pieces = append(st.Pieces, pieceState(p))
	}
	for _, rec := range g.history {
		rs := RecordState{From: rec.From, To: rec.To, Promoted: rec.Promoted}
		for _, p := range rec.Removed {
			rs.Removed = append(rs.Removed, pieceState(p))
		}
		st.History = append(st.History, rs)
	}
	return st
}

// FromState rebuilds a game from a snapshot. Every undo record is replayed
// backwards on a scratch copy first, so a snapshot that cannot be taken back
// to its start is rejected with ErrInvalidState.
func FromState(st GameState) (*Game, error) {
	g, err := build(st)
	if err != nil {
		return nil, err
	}

	scratch, _ := build(st)
	for scratch.CanUndo() {
		if err := scratch.UndoMove(); err != nil {
			return nil, fmt.Errorf("%w: undo record %d: %w", core.ErrInvalidState, len(scratch.history), err)
		}
	}
	return g, nil
}

func build(st GameState) (*Game, error) {
	if !st.Current.Valid() {
		return nil, fmt.Errorf("%w: side to move %d", core.ErrInvalidState, st.Current)
	}

	pieces := make([]board.Piece, 0, len(st.Pieces))
	for i, ps := range st.Pieces {
		p, err := board.NewPiece(ps.Side, ps.Position, ps.Promoted)
		if err != nil {
			return nil, fmt.Errorf("%w: piece %d: %w", core.ErrInvalidState, i, err)
		}
		pieces = append(pieces, p)
	}

	history := make([]MoveRecord, 0, len(st.History))
	for i, rs := range st.History {
		if err := core.CheckCoordinate(rs.From); err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", core.ErrInvalidState, i, err)
		}
		if err := core.CheckCoordinate(rs.To); err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", core.ErrInvalidState, i, err)
		}
		rec := MoveRecord{From: rs.From, To: rs.To, Promoted: rs.Promoted}
		for _, ps := range rs.Removed {
			p, err := board.NewPiece(ps.Side, ps.Position, ps.Promoted)
			if err != nil {
				return nil, fmt.Errorf("%w: record %d: %w", core.ErrInvalidState, i, err)
			}
			rec.Removed = append(rec.Removed, p)
		}
		history = append(history, rec)
	}

	g := &Game{board: board.New(), current: st.Current}
	ids, err := g.board.FillBoard(pieces)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidState, err)
	}
	g.pieces = ids
	g.history = history
	g.calculateMoves()
	return g, nil
}

// ParseState decodes a JSON snapshot. Coordinates and sides are checked while
// decoding; structural checks happen in FromState.
func ParseState(data []byte) (GameState, error) {
	var st GameState
	if err := json.Unmarshal(data, &st); err != nil {
		return GameState{}, fmt.Errorf("%w: %w", core.ErrInvalidState, err)
	}
	return st, nil
}
