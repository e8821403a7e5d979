// FILE: internal/game/game.go

// Package game runs a draughts match: it owns the board, decides whose turn it
// is, enforces mandatory maximal capture, applies and takes back moves, and
// notifies subscribers of every change.
package game

import (
	"fmt"
	"slices"

	"draughts/internal/board"
	"draughts/internal/core"
	"draughts/internal/movecalc"
)

// Game is not safe for concurrent use
type Game struct {
	board   *board.Board
	pieces  []board.PieceID // ascending
	current core.Side
	moves   []PieceMoves
	history []MoveRecord
	status  core.State
	subject subject
}

// New starts a game from the standard formation with Light to move
func New() *Game {
	g := &Game{board: board.New()}
	g.board.Reset()
	g.start()
	return g
}

func (g *Game) start() {
	g.pieces = g.pieces[:0]
	for _, p := range g.board.Pieces() {
		g.pieces = append(g.pieces, p.ID)
	}
	slices.Sort(g.pieces)
	g.history = nil
	g.current = core.SideLight
	g.calculateMoves()
}

// Board is a read-only view of the grid
func (g *Game) Board() board.View {
	return g.board
}

// Pieces returns every piece in play
func (g *Game) Pieces() []board.Piece {
	pieces := make([]board.Piece, 0, len(g.pieces))
	for _, id := range g.pieces {
		if p, ok := g.board.Piece(id); ok {
			pieces = append(pieces, p)
		}
	}
	return pieces
}

func (g *Game) Current() core.Side {
	return g.current
}

func (g *Game) Status() core.State {
	return g.status
}

// Moves returns a deep copy of the legal-move table of the side to move
func (g *Game) Moves() []PieceMoves {
	table := make([]PieceMoves, len(g.moves))
	for i, pm := range g.moves {
		table[i] = PieceMoves{Piece: pm.Piece, Moves: cloneMoves(pm.Moves)}
	}
	return table
}

// FindPieceMoves returns a copy of one piece's legal moves, or false if it has none
func (g *Game) FindPieceMoves(id board.PieceID) ([]movecalc.Move, bool) {
	if moves, ok := g.pieceMoves(id); ok {
		return cloneMoves(moves), true
	}
	return nil, false
}

func (g *Game) pieceMoves(id board.PieceID) ([]movecalc.Move, bool) {
	for _, pm := range g.moves {
		if pm.Piece.ID == id {
			return pm.Moves, true
		}
	}
	return nil, false
}

func cloneMoves(moves []movecalc.Move) []movecalc.Move {
	out := make([]movecalc.Move, len(moves))
	for i, m := range moves {
		out[i] = movecalc.Move{Path: slices.Clone(m.Path), Captured: slices.Clone(m.Captured)}
	}
	return out
}

func (g *Game) CanUndo() bool {
	return len(g.history) > 0
}

// History returns the undo stack, oldest first
func (g *Game) History() []MoveRecord {
	return slices.Clone(g.history)
}

func (g *Game) Subscribe(h Handler) SubscriptionID {
	return g.subject.subscribe(h)
}

func (g *Game) Unsubscribe(id SubscriptionID) bool {
	return g.subject.unsubscribe(id)
}

// calculateMoves rebuilds the legal-move table for the side to move. If any
// piece can capture, only capturing pieces move and only with chains that
// take the most pieces across the whole side.
func (g *Game) calculateMoves() {
	own := make([]board.Piece, 0, len(g.pieces))
	mandatory := false
	for _, p := range g.Pieces() {
		if p.Side != g.current {
			continue
		}
		own = append(own, p)
		if !mandatory && movecalc.HasAttackMoves(g.board, p) {
			mandatory = true
		}
	}

	g.moves = nil
	most := 1
	for _, p := range own {
		var moves []movecalc.Move
		if mandatory {
			if !movecalc.HasAttackMoves(g.board, p) {
				continue
			}
			moves = movecalc.CalculateAttackMoves(g.board, p)
		} else {
			moves = movecalc.CalculateMoves(g.board, p)
		}
		for _, m := range moves {
			most = max(most, len(m.Captured))
		}
		if pm, err := NewPieceMoves(p, moves); err == nil {
			g.moves = append(g.moves, pm)
		}
	}

	if mandatory {
		filtered := g.moves[:0]
		for _, pm := range g.moves {
			pm.Moves = slices.DeleteFunc(slices.Clone(pm.Moves), func(m movecalc.Move) bool {
				return len(m.Captured) < most
			})
			if len(pm.Moves) > 0 {
				filtered = append(filtered, pm)
			}
		}
		g.moves = filtered
	}

	if len(g.moves) == 0 {
		g.status = core.WinState(g.current.Opposite())
	} else {
		g.status = core.StateOngoing
	}
}

// PerformMove applies a move from the current legal-move table
func (g *Game) PerformMove(id board.PieceID, m movecalc.Move) error {
	legal, ok := g.pieceMoves(id)
	if !ok {
		return fmt.Errorf("%w: piece %d", core.ErrMoveNotFound, id)
	}
	if !slices.ContainsFunc(legal, m.Equal) {
		return fmt.Errorf("%w: %s", core.ErrIllegalMove, m)
	}

	removed := make([]board.Piece, 0, len(m.Captured))
	for _, cid := range m.Captured {
		p, ok := g.board.Piece(cid)
		if !ok {
			return fmt.Errorf("%w: captured piece %d is not on the board", core.ErrIllegalMove, cid)
		}
		removed = append(removed, p)
	}

	for _, p := range removed {
		if err := g.board.RemovePiece(p.Pos); err != nil {
			return err
		}
		g.pieces = slices.DeleteFunc(g.pieces, func(pid board.PieceID) bool { return pid == p.ID })
	}
	if err := g.board.MovePiece(m.From(), m.To(), m.IsCapture()); err != nil {
		return err
	}

	promoted := false
	if p, _ := g.board.Piece(id); p.ShouldBePromoted() {
		if err := g.board.Promote(id); err != nil {
			return err
		}
		promoted = true
	}

	hadHistory := g.CanUndo()
	g.history = append(g.history, MoveRecord{From: m.From(), To: m.To(), Removed: removed, Promoted: promoted})
	g.current = g.current.Opposite()
	g.calculateMoves()

	events := []Event{
		{Kind: EventPiecesChanged},
		{Kind: EventPlayerChanged, Side: g.current},
	}
	if !hadHistory {
		events = append(events, Event{Kind: EventCanUndoChanged, CanUndo: true})
	}
	g.subject.notify(g.withEnd(events)...)
	return nil
}

// UndoMove takes back the last applied move
func (g *Game) UndoMove() error {
	if len(g.history) == 0 {
		return core.ErrNoMoveToUndo
	}
	rec := g.history[len(g.history)-1]
	mover := g.current.Opposite()
	if err := g.checkUndo(rec, mover); err != nil {
		return err
	}

	id := g.board.Cell(rec.To).Piece.ID
	if rec.Promoted {
		if err := g.board.Demote(id); err != nil {
			return err
		}
	}
	if rec.From != rec.To {
		if err := g.board.MovePiece(rec.To, rec.From, false); err != nil {
			return err
		}
	}
	for _, p := range rec.Removed {
		rid, err := g.board.AddPiece(p)
		if err != nil {
			return err
		}
		i, _ := slices.BinarySearch(g.pieces, rid)
		g.pieces = slices.Insert(g.pieces, i, rid)
	}

	g.history = g.history[:len(g.history)-1]
	g.current = mover
	g.calculateMoves()

	events := []Event{
		{Kind: EventPiecesChanged},
		{Kind: EventPlayerChanged, Side: g.current},
	}
	if len(g.history) == 0 {
		events = append(events, Event{Kind: EventCanUndoChanged, CanUndo: false})
	}
	g.subject.notify(g.withEnd(events)...)
	return nil
}

// checkUndo verifies a record against the board before anything is touched
func (g *Game) checkUndo(rec MoveRecord, mover core.Side) error {
	c := g.board.Cell(rec.To)
	if c.Kind != board.CellOccupied || c.Piece.Side != mover {
		return fmt.Errorf("%w: no %s piece on %s to take back", core.ErrInvalidState, mover, rec.To)
	}
	if rec.Promoted && !c.Piece.Promoted {
		return fmt.Errorf("%w: piece on %s is not a king", core.ErrInvalidState, rec.To)
	}
	if err := core.CheckCoordinate(rec.From); err != nil {
		return fmt.Errorf("%w: %w", core.ErrInvalidState, err)
	}
	if rec.From != rec.To && g.board.Cell(rec.From).Kind != board.CellEmpty {
		return fmt.Errorf("%w: origin %s is occupied", core.ErrInvalidState, rec.From)
	}

	seen := make(map[core.Vector]bool, len(rec.Removed))
	for _, p := range rec.Removed {
		if p.Side != mover.Opposite() {
			return fmt.Errorf("%w: %s cannot have been captured by %s", core.ErrInvalidState, p, mover)
		}
		if err := core.CheckCoordinate(p.Pos); err != nil {
			return fmt.Errorf("%w: %w", core.ErrInvalidState, err)
		}
		if seen[p.Pos] || p.Pos == rec.From || p.Pos == rec.To || g.board.Cell(p.Pos).Kind != board.CellEmpty {
			return fmt.Errorf("%w: captured piece cell %s is not free", core.ErrInvalidState, p.Pos)
		}
		seen[p.Pos] = true
	}
	return nil
}

// Reset restarts from the standard formation with Light to move
func (g *Game) Reset() {
	g.board.Reset()
	g.start()

	g.subject.notify(
		Event{Kind: EventPlayerChanged, Side: g.current},
		Event{Kind: EventGameReset},
		Event{Kind: EventPiecesChanged},
		Event{Kind: EventCanUndoChanged, CanUndo: false},
	)
}

func (g *Game) withEnd(events []Event) []Event {
	switch g.status {
	case core.StateLightWins:
		return append(events, Event{Kind: EventGameEnded, Side: core.SideLight})
	case core.StateDarkWins:
		return append(events, Event{Kind: EventGameEnded, Side: core.SideDark})
	}
	return events
}

// ResolveMove finds the legal move a player means by a path of squares. An
// exact path wins; otherwise origin and destination must pick a single move.
func (g *Game) ResolveMove(path []core.Vector) (board.PieceID, movecalc.Move, error) {
	if len(path) < 2 {
		return 0, movecalc.Move{}, fmt.Errorf("%w: path needs at least 2 squares", core.ErrIllegalMove)
	}
	for _, p := range path {
		if err := core.CheckCoordinate(p); err != nil {
			return 0, movecalc.Move{}, err
		}
	}

	c := g.board.Cell(path[0])
	if c.Kind != board.CellOccupied {
		return 0, movecalc.Move{}, fmt.Errorf("%w: %s is empty", core.ErrMoveNotFound, path[0])
	}
	legal, ok := g.FindPieceMoves(c.Piece.ID)
	if !ok {
		return 0, movecalc.Move{}, fmt.Errorf("%w: %s", core.ErrMoveNotFound, c.Piece)
	}

	var candidates []movecalc.Move
	for _, m := range legal {
		if slices.Equal(m.Path, path) {
			return c.Piece.ID, m, nil
		}
		if m.To() == path[len(path)-1] {
			candidates = append(candidates, m)
		}
	}
	switch len(candidates) {
	case 1:
		return c.Piece.ID, candidates[0], nil
	case 0:
		return 0, movecalc.Move{}, fmt.Errorf("%w: %s", core.ErrIllegalMove, core.FormatPath(path, false))
	default:
		return 0, movecalc.Move{}, fmt.Errorf("%w: %s is ambiguous, %d moves match", core.ErrIllegalMove, core.FormatPath(path, false), len(candidates))
	}
}
