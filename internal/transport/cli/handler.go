// FILE: internal/transport/cli/handler.go
package cli

import (
	"errors"
	"fmt"
	"time"

	"draughts/internal/cli"
	"draughts/internal/core"
	"draughts/internal/service"
	"draughts/internal/transport"
)

// Terminal is a view that also reads commands and holds display settings
type Terminal interface {
	transport.View
	GetCommand() (*cli.Command, error)
	SetTheme(theme cli.ColorTheme) error
	ToggleVerbose() bool
	ShowHelp()
}

type CLIHandler struct {
	svc    transport.Handler
	view   Terminal
	gameID string
}

func New(svc transport.Handler, view Terminal) *CLIHandler {
	return &CLIHandler{
		svc:  svc,
		view: view,
	}
}

// Resume continues a saved game; an empty id picks the latest one
func (h *CLIHandler) Resume(gameID string) error {
	snap, err := h.svc.RestoreGame(gameID)
	if err != nil {
		return err
	}
	h.gameID = snap.GameID
	h.view.ShowMessage(fmt.Sprintf("Resumed game %s (%d moves, %s played).", shortID(snap.GameID), snap.MoveCount, snap.Elapsed.Round(time.Second)))
	h.show(snap)
	return nil
}

// GameID is the id of the active game, empty before 'new'
func (h *CLIHandler) GameID() string {
	return h.gameID
}

// Main game loop - simple command processing
func (h *CLIHandler) Run() {
	for {
		h.view.ShowPrompt(h.getPrompt())

		cmd, err := h.view.GetCommand()
		if err != nil {
			break
		}

		// Process command - returns false to exit
		if !h.ProcessCommand(cmd) {
			break
		}
	}
}

// getPrompt shows whose turn it is while a game is running
func (h *CLIHandler) getPrompt() string {
	if h.gameID == "" {
		return "> "
	}
	snap, err := h.svc.GetGame(h.gameID)
	if err != nil || snap.Status != core.StateOngoing {
		return "> "
	}
	return fmt.Sprintf("[%s]> ", snap.Current)
}

// ProcessCommand handles one command and returns false to exit
func (h *CLIHandler) ProcessCommand(cmd *cli.Command) bool {
	switch cmd.Type {
	case cli.CmdQuit:
		return false

	case cli.CmdNone:
		return true

	case cli.CmdNew:
		snap, err := h.svc.NewGame()
		if err != nil {
			h.view.ShowError(fmt.Errorf("could not start the game: %w", err))
			return true
		}
		h.gameID = snap.GameID
		h.view.ShowMessage("Game started. Light moves first.")
		h.view.DisplayBoard(snap.Board)

	case cli.CmdHelp:
		h.view.ShowHelp()

	case cli.CmdVerbose:
		verbose := h.view.ToggleVerbose()
		h.view.ShowMessage(fmt.Sprintf("Verbose mode: %t", verbose))

	case cli.CmdColor:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: color <off|brown|green|gray>")
			return true
		}
		theme := cli.ColorTheme(cmd.Args[0])
		if err := h.view.SetTheme(theme); err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowMessage(fmt.Sprintf("Color theme set to: %s", theme))
		if snap, err := h.svc.GetGame(h.gameID); err == nil {
			h.view.DisplayBoard(snap.Board)
		}

	default:
		if h.gameID == "" {
			h.view.ShowMessage("No active game. Use 'new'.")
			return true
		}
		h.gameCommand(cmd)
	}

	return true
}

func (h *CLIHandler) gameCommand(cmd *cli.Command) {
	switch cmd.Type {
	case cli.CmdMove:
		path, err := core.ParsePath(cmd.Args[0])
		if err != nil {
			h.view.ShowError(fmt.Errorf("invalid move: %w", err))
			return
		}
		before, err := h.svc.GetGame(h.gameID)
		if err != nil {
			h.lost(err)
			return
		}
		snap, err := h.svc.Move(h.gameID, path)
		if err != nil {
			h.view.ShowError(fmt.Errorf("invalid move: %w", err))
			return
		}
		h.view.ShowMove(before.Current, snap.LastMove, len(before.Pieces)-len(snap.Pieces))
		h.show(snap)

	case cli.CmdMoves:
		snap, err := h.svc.GetGame(h.gameID)
		if err != nil {
			h.lost(err)
			return
		}
		h.view.ShowMoves(snap.Moves)

	case cli.CmdUndo:
		snap, err := h.svc.Undo(h.gameID)
		if errors.Is(err, core.ErrNoMoveToUndo) {
			h.view.ShowMessage("Nothing to undo.")
			return
		}
		if err != nil {
			h.lost(err)
			return
		}
		h.view.ShowMessage("Move undone")
		h.show(snap)

	case cli.CmdReset:
		snap, err := h.svc.Reset(h.gameID)
		if err != nil {
			h.lost(err)
			return
		}
		h.view.ShowMessage("Game reset.")
		h.show(snap)

	case cli.CmdHistory:
		snap, err := h.svc.GetGame(h.gameID)
		if err != nil {
			h.lost(err)
			return
		}
		first := snap.Current
		if len(snap.State.History)%2 == 1 {
			first = first.Opposite()
		}
		h.view.ShowHistory(first, snap.State.History)
	}
}

func (h *CLIHandler) show(snap service.Snapshot) {
	h.view.DisplayBoard(snap.Board)
	if snap.Status != core.StateOngoing {
		h.view.ShowGameOver(snap.Status)
	}
}

// lost reports a failure on the active game and forgets it
func (h *CLIHandler) lost(err error) {
	h.view.ShowError(err)
	h.gameID = ""
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
