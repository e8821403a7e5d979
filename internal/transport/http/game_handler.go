// FILE: internal/transport/http/game_handler.go
package http

import (
	"bytes"
	"log"
	"strconv"
	"time"

	"draughts/internal/board"
	"draughts/internal/core"
	"draughts/internal/game"
	"draughts/internal/render"
	"draughts/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const (
	// eventBuffer is the number of undelivered events a websocket client may lag
	eventBuffer = 64
	// eventTimeout bounds a websocket write
	eventTimeout = 5 * time.Second
)

// CreateGame starts a game, from the standard formation or a supplied state
func (h *HTTPHandler) CreateGame(c *fiber.Ctx) error {
	req, _ := c.Locals("validatedBody").(*CreateGameRequest)

	var snap service.Snapshot
	var err error
	if req != nil && req.State != nil {
		snap, err = h.svc.ImportGame(*req.State)
	} else {
		snap, err = h.svc.NewGame()
	}
	if err != nil {
		return sendError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(buildGameResponse(snap))
}

// GetGame returns the game. With ?wait=true&moveCount=n it holds the request
// until the move count differs from n or the wait times out.
func (h *HTTPHandler) GetGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	if c.Query("wait", "false") != "true" {
		snap, err := h.svc.GetGame(gameID)
		if err != nil {
			return sendError(c, err)
		}
		return c.JSON(buildGameResponse(snap))
	}

	// Long-polling path
	moveCount, err := strconv.Atoi(c.Query("moveCount", "-1"))
	if err != nil {
		moveCount = -1
	}

	ctx := c.Context()
	notify, err := h.svc.RegisterWait(gameID, moveCount, ctx)
	if err != nil {
		return sendError(c, err)
	}

	select {
	case <-notify:
		// Game might have been deleted meanwhile
		snap, err := h.svc.GetGame(gameID)
		if err != nil {
			return sendError(c, err)
		}
		return c.JSON(buildGameResponse(snap))

	case <-ctx.Done():
		// Server shutting down
		return nil
	}
}

// MakeMove applies a move given as a list of squares
func (h *HTTPHandler) MakeMove(c *fiber.Ctx) error {
	req, ok := c.Locals("validatedBody").(*MoveRequest)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "missing move")
	}

	path, err := parsePath(*req)
	if err != nil {
		return sendError(c, err)
	}

	snap, err := h.svc.Move(c.Params("gameId"), path)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(buildGameResponse(snap))
}

// GetMoves lists the legal moves of the side to move
func (h *HTTPHandler) GetMoves(c *fiber.Ctx) error {
	snap, err := h.svc.GetGame(c.Params("gameId"))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(MovesResponse{
		GameID: snap.GameID,
		Turn:   snap.Current,
		Moves:  movesInfo(snap.Moves),
	})
}

// UndoMove takes back the last move
func (h *HTTPHandler) UndoMove(c *fiber.Ctx) error {
	snap, err := h.svc.Undo(c.Params("gameId"))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(buildGameResponse(snap))
}

// ResetGame restarts the game from the standard formation
func (h *HTTPHandler) ResetGame(c *fiber.Ctx) error {
	snap, err := h.svc.Reset(c.Params("gameId"))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(buildGameResponse(snap))
}

// ListGames returns the ids of the games held in memory
func (h *HTTPHandler) ListGames(c *fiber.Ctx) error {
	return c.JSON(GamesResponse{Games: h.svc.ListGames()})
}

// DeleteGame ends and cleans up a game
func (h *HTTPHandler) DeleteGame(c *fiber.Ctx) error {
	if err := h.svc.DeleteGame(c.Params("gameId")); err != nil {
		return sendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetBoard returns ASCII representation of the board
func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	snap, err := h.svc.GetGame(c.Params("gameId"))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(BoardResponse{Board: board.ToASCII(snap.Board)})
}

// GetBoardSVG returns the board as an SVG image
func (h *HTTPHandler) GetBoardSVG(c *fiber.Ctx) error {
	snap, err := h.svc.GetGame(c.Params("gameId"))
	if err != nil {
		return sendError(c, err)
	}

	var buf bytes.Buffer
	render.Board(&buf, snap.Board, render.DefaultTheme)
	c.Set(fiber.HeaderContentType, "image/svg+xml")
	return c.Send(buf.Bytes())
}

// upgradeEvents admits websocket upgrades for games that exist
func (h *HTTPHandler) upgradeEvents(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	if _, err := h.svc.GetGame(c.Params("gameId")); err != nil {
		return sendError(c, err)
	}
	return c.Next()
}

// Events streams the game's events as JSON text frames. The first frame
// names the side to move. The stream ends with a normal close frame when the
// game is deleted, or when the client disconnects.
func (h *HTTPHandler) Events() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		gameID := conn.Params("gameId")

		events := make(chan game.Event, eventBuffer)
		// the handler runs under the service lock, it must never block
		unsubscribe, gone, err := h.svc.Subscribe(gameID, func(ev game.Event) {
			select {
			case events <- ev:
			default:
			}
		})
		if err != nil {
			conn.WriteJSON(ErrorResponse{Error: "game not found", Code: core.CodeGameNotFound})
			return
		}
		defer unsubscribe()

		if snap, err := h.svc.GetGame(gameID); err == nil {
			if !h.sendEvent(conn, gameID, game.Event{Kind: game.EventPlayerChanged, Side: snap.Current}) {
				return
			}
		}

		// Reader detects client close
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case ev := <-events:
				if !h.sendEvent(conn, gameID, ev) {
					return
				}
			case <-gone:
				// events raised before the delete are still queued
				for len(events) > 0 {
					if !h.sendEvent(conn, gameID, <-events) {
						return
					}
				}
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game deleted"),
					time.Now().Add(eventTimeout))
				return
			case <-closed:
				return
			}
		}
	}, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	})
}

func (h *HTTPHandler) sendEvent(conn *websocket.Conn, gameID string, ev game.Event) bool {
	conn.SetWriteDeadline(time.Now().Add(eventTimeout))
	if err := conn.WriteJSON(ev); err != nil {
		log.Printf("Event stream for game %s closed: %v", gameID, err)
		return false
	}
	return true
}
