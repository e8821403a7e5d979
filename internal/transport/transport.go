// FILE: internal/transport/transport.go
package transport

import (
	"draughts/internal/board"
	"draughts/internal/core"
	"draughts/internal/game"
	"draughts/internal/service"
)

// Handler processes user commands independent of transport medium
type Handler interface {
	NewGame() (service.Snapshot, error)
	RestoreGame(gameID string) (service.Snapshot, error)
	GetGame(gameID string) (service.Snapshot, error)
	Move(gameID string, path []core.Vector) (service.Snapshot, error)
	Undo(gameID string) (service.Snapshot, error)
	Reset(gameID string) (service.Snapshot, error)
}

// View abstracts display/output operations
type View interface {
	DisplayBoard(b board.View)
	ShowMessage(msg string)
	ShowError(err error)
	ShowMoves(moves []game.PieceMoves)
	ShowMove(side core.Side, move string, captured int)
	ShowHistory(first core.Side, history []game.RecordState)
	ShowGameOver(state core.State)
	ShowPrompt(prompt string)
}

var _ Handler = (*service.Service)(nil)
