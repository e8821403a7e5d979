package game

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"draughts/internal/board"
	"draughts/internal/core"
	"draughts/internal/movecalc"
)

func v(x, y int) core.Vector {
	return core.Vector{X: x, Y: y}
}

func man(side core.Side, x, y int) PieceState {
	return PieceState{Side: side, Position: v(x, y)}
}

func king(side core.Side, x, y int) PieceState {
	return PieceState{Side: side, Position: v(x, y), Promoted: true}
}

func restore(t *testing.T, current core.Side, pieces ...PieceState) *Game {
	t.Helper()
	g, err := FromState(GameState{Current: current, Pieces: pieces})
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	return g
}

func pieceAt(t *testing.T, g *Game, pos core.Vector) board.Piece {
	t.Helper()
	c := g.Board().Cell(pos)
	if c.Kind != board.CellOccupied {
		t.Fatalf("no piece on %s", pos)
	}
	return c.Piece
}

// play resolves and applies a move given in square notation
func play(t *testing.T, g *Game, notation string) {
	t.Helper()
	path, err := core.ParsePath(notation)
	if err != nil {
		t.Fatalf("parse %q: %v", notation, err)
	}
	id, m, err := g.ResolveMove(path)
	if err != nil {
		t.Fatalf("resolve %q: %v", notation, err)
	}
	if err := g.PerformMove(id, m); err != nil {
		t.Fatalf("perform %q: %v", notation, err)
	}
}

type recorder struct {
	events []Event
}

func (r *recorder) handle(e Event) {
	r.events = append(r.events, e)
}

func (r *recorder) take() []Event {
	out := r.events
	r.events = nil
	return out
}

func TestNewGame(t *testing.T) {
	g := New()
	if g.Current() != core.SideLight {
		t.Fatalf("expected light to move first, got %s", g.Current())
	}
	if len(g.Pieces()) != core.TotalPieces {
		t.Fatalf("expected %d pieces, got %d", core.TotalPieces, len(g.Pieces()))
	}
	if g.CanUndo() {
		t.Fatalf("new game can undo")
	}
	if g.Status() != core.StateOngoing {
		t.Fatalf("unexpected status %s", g.Status())
	}
	if len(g.Moves()) == 0 {
		t.Fatalf("no opening moves")
	}
	for _, pm := range g.Moves() {
		if pm.Piece.Side != core.SideLight {
			t.Fatalf("%s listed on light's turn", pm.Piece)
		}
		for _, m := range pm.Moves {
			if m.IsCapture() {
				t.Fatalf("capture %s in the opening", m)
			}
		}
	}
}

func TestEndToEnd(t *testing.T) {
	g := New()
	start := g.State()
	var rec recorder
	g.Subscribe(rec.handle)

	play(t, g, "c3-c4")

	if g.Current() != core.SideDark {
		t.Fatalf("expected dark to move, got %s", g.Current())
	}
	want := []Event{
		{Kind: EventPiecesChanged},
		{Kind: EventPlayerChanged, Side: core.SideDark},
		{Kind: EventCanUndoChanged, CanUndo: true},
	}
	if got := rec.take(); !reflect.DeepEqual(got, want) {
		t.Fatalf("move events %v, want %v", got, want)
	}

	g.Reset()

	want = []Event{
		{Kind: EventPlayerChanged, Side: core.SideLight},
		{Kind: EventGameReset},
		{Kind: EventPiecesChanged},
		{Kind: EventCanUndoChanged, CanUndo: false},
	}
	if got := rec.take(); !reflect.DeepEqual(got, want) {
		t.Fatalf("reset events %v, want %v", got, want)
	}
	if !reflect.DeepEqual(g.State(), start) {
		t.Fatalf("reset did not restore the starting position")
	}
	if g.CanUndo() {
		t.Fatalf("undo stack survived reset")
	}
}

func TestMandatoryMaximalCapture(t *testing.T) {
	g := restore(t, core.SideLight,
		man(core.SideLight, 1, 4), // takes two
		man(core.SideLight, 6, 6), // takes one
		man(core.SideLight, 4, 7), // cannot take
		man(core.SideDark, 1, 3),
		man(core.SideDark, 1, 1),
		man(core.SideDark, 6, 5),
	)

	moves := g.Moves()
	if len(moves) != 1 {
		t.Fatalf("expected one piece to move, got %d", len(moves))
	}
	pm := moves[0]
	if pm.Piece.Pos != v(1, 4) {
		t.Fatalf("wrong piece listed: %s", pm.Piece)
	}
	if len(pm.Moves) != 1 || len(pm.Moves[0].Captured) != 2 {
		t.Fatalf("expected a single 2-piece capture, got %v", pm.Moves)
	}
	if _, ok := g.FindPieceMoves(pieceAt(t, g, v(6, 6)).ID); ok {
		t.Fatalf("the shorter capture was kept")
	}

	before := g.State()
	if err := g.PerformMove(pm.Piece.ID, pm.Moves[0]); err != nil {
		t.Fatalf("perform: %v", err)
	}
	if len(g.Pieces()) != 4 {
		t.Fatalf("expected 4 pieces after the capture, got %d", len(g.Pieces()))
	}
	for _, pos := range []core.Vector{v(1, 4), v(1, 3), v(1, 2), v(1, 1)} {
		if c := g.Board().Cell(pos); c.Kind != board.CellEmpty {
			t.Fatalf("%s should be empty, holds %s", pos, c.Piece)
		}
	}
	if p := pieceAt(t, g, v(1, 0)); p.Side != core.SideLight || !p.Promoted {
		t.Fatalf("capturing man should land on b8 promoted, got %s", p)
	}

	if err := g.UndoMove(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if !reflect.DeepEqual(g.State(), before) {
		t.Fatalf("undo did not restore the position:\n%+v\n%+v", g.State(), before)
	}
}

func TestPromotionRoundTrip(t *testing.T) {
	g := restore(t, core.SideLight,
		man(core.SideLight, 3, 1),
		man(core.SideDark, 0, 3),
	)
	before := g.State()
	id := pieceAt(t, g, v(3, 1)).ID

	play(t, g, "d7-d8")

	p, ok := g.board.Piece(id)
	if !ok || !p.Promoted || p.Pos != v(3, 0) {
		t.Fatalf("expected a king on d8, got %+v", p)
	}
	if hist := g.History(); len(hist) != 1 || !hist[0].Promoted {
		t.Fatalf("record does not note the promotion: %+v", hist)
	}

	if err := g.UndoMove(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	p, _ = g.board.Piece(id)
	if p.Promoted || p.Pos != v(3, 1) {
		t.Fatalf("undo left %s", p)
	}
	if !reflect.DeepEqual(g.State(), before) {
		t.Fatalf("state differs after undo")
	}
}

func TestUndoAvailability(t *testing.T) {
	g := New()
	var rec recorder
	g.Subscribe(rec.handle)

	if err := g.UndoMove(); !errors.Is(err, core.ErrNoMoveToUndo) {
		t.Fatalf("expected ErrNoMoveToUndo, got %v", err)
	}

	play(t, g, "c3-c4")
	play(t, g, "f6-f5")
	if !g.CanUndo() {
		t.Fatalf("cannot undo after two moves")
	}

	countUndoEvents := func(events []Event) (n int, last Event) {
		for _, e := range events {
			if e.Kind == EventCanUndoChanged {
				n++
				last = e
			}
		}
		return n, last
	}

	if n, _ := countUndoEvents(rec.take()); n != 1 {
		t.Fatalf("expected one CanUndoChanged for two moves, got %d", n)
	}

	if err := g.UndoMove(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if n, _ := countUndoEvents(rec.take()); n != 0 || !g.CanUndo() {
		t.Fatalf("first undo should keep undo available")
	}

	if err := g.UndoMove(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	n, last := countUndoEvents(rec.take())
	if n != 1 || last.CanUndo || g.CanUndo() {
		t.Fatalf("draining the stack should report CanUndoChanged(false)")
	}
	if g.Current() != core.SideLight {
		t.Fatalf("expected light to move after full undo")
	}
	if err := g.UndoMove(); !errors.Is(err, core.ErrNoMoveToUndo) {
		t.Fatalf("expected ErrNoMoveToUndo, got %v", err)
	}
}

func TestPerformMoveRejects(t *testing.T) {
	g := New()
	before := g.State()

	darkID := pieceAt(t, g, v(2, 2)).ID
	step := movecalc.Move{Path: []core.Vector{v(2, 2), v(2, 3)}}
	if err := g.PerformMove(darkID, step); !errors.Is(err, core.ErrMoveNotFound) {
		t.Fatalf("expected ErrMoveNotFound, got %v", err)
	}

	lightID := pieceAt(t, g, v(2, 5)).ID
	far := movecalc.Move{Path: []core.Vector{v(2, 5), v(2, 3)}}
	if err := g.PerformMove(lightID, far); !errors.Is(err, core.ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove, got %v", err)
	}

	if !reflect.DeepEqual(g.State(), before) {
		t.Fatalf("rejected moves changed the game")
	}
}

func TestResolveMove(t *testing.T) {
	t.Run("king slide by endpoints", func(t *testing.T) {
		g := restore(t, core.SideLight, king(core.SideLight, 0, 7), man(core.SideDark, 7, 0))
		_, m, err := g.ResolveMove([]core.Vector{v(0, 7), v(0, 3)})
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if len(m.Path) != 5 {
			t.Fatalf("expected the full slide path, got %v", m)
		}
	})

	t.Run("empty origin", func(t *testing.T) {
		g := New()
		if _, _, err := g.ResolveMove([]core.Vector{v(0, 4), v(0, 3)}); !errors.Is(err, core.ErrMoveNotFound) {
			t.Fatalf("expected ErrMoveNotFound, got %v", err)
		}
	})

	t.Run("unreachable destination", func(t *testing.T) {
		g := New()
		if _, _, err := g.ResolveMove([]core.Vector{v(2, 5), v(2, 2)}); !errors.Is(err, core.ErrIllegalMove) {
			t.Fatalf("expected ErrIllegalMove, got %v", err)
		}
	})

	t.Run("ambiguous ring", func(t *testing.T) {
		g := restore(t, core.SideLight,
			man(core.SideLight, 2, 2),
			man(core.SideDark, 3, 2),
			man(core.SideDark, 4, 3),
			man(core.SideDark, 3, 4),
			man(core.SideDark, 2, 3),
		)
		if _, _, err := g.ResolveMove([]core.Vector{v(2, 2), v(2, 2)}); !errors.Is(err, core.ErrIllegalMove) {
			t.Fatalf("expected ErrIllegalMove, got %v", err)
		}

		var rec recorder
		g.Subscribe(rec.handle)
		play(t, g, "c6xe6xe4xc4xc6")

		if g.Status() != core.StateLightWins {
			t.Fatalf("expected light to win, got %s", g.Status())
		}
		events := rec.take()
		if last := events[len(events)-1]; last.Kind != EventGameEnded || last.Side != core.SideLight {
			t.Fatalf("expected GameEnded(light) last, got %v", events)
		}

		if err := g.UndoMove(); err != nil {
			t.Fatalf("undo: %v", err)
		}
		if len(g.Pieces()) != 5 || g.Status() != core.StateOngoing {
			t.Fatalf("undo did not restore the ring: %d pieces, %s", len(g.Pieces()), g.Status())
		}
	})
}

func TestNoLegalMoveEndsGame(t *testing.T) {
	g := restore(t, core.SideDark,
		man(core.SideDark, 7, 7),
		man(core.SideLight, 0, 7),
	)
	if g.Status() != core.StateLightWins {
		t.Fatalf("blocked side should lose, got %s", g.Status())
	}
	if len(g.Moves()) != 0 {
		t.Fatalf("finished game lists moves")
	}
}

func TestUnsubscribe(t *testing.T) {
	g := New()
	var a, b recorder
	ida := g.Subscribe(a.handle)
	g.Subscribe(b.handle)

	if !g.Unsubscribe(ida) {
		t.Fatalf("unsubscribe failed")
	}
	if g.Unsubscribe(ida) {
		t.Fatalf("second unsubscribe succeeded")
	}

	g.Reset()
	if len(a.events) != 0 {
		t.Fatalf("removed handler still notified")
	}
	if len(b.events) != 4 {
		t.Fatalf("expected 4 reset events, got %v", b.events)
	}
}

func TestStateRoundTrip(t *testing.T) {
	g := New()
	play(t, g, "c3-c4")
	play(t, g, "c6-c5")
	play(t, g, "c4xc6")

	st := g.State()
	data, err := json.Marshal(st)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	parsed, err := ParseState(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	restored, err := FromState(parsed)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !reflect.DeepEqual(restored.State(), st) {
		t.Fatalf("round trip changed the state")
	}

	for restored.CanUndo() {
		if err := restored.UndoMove(); err != nil {
			t.Fatalf("undo restored game: %v", err)
		}
	}
	if board.ToASCII(restored.Board()) != board.ToASCII(New().Board()) || restored.Current() != core.SideLight {
		t.Fatalf("restored history does not lead back to the start")
	}
}

func TestFromStateRejects(t *testing.T) {
	tests := []struct {
		name  string
		state GameState
	}{
		{"no side", GameState{Pieces: []PieceState{man(core.SideLight, 0, 0)}}},
		{"bad coordinate", GameState{Current: core.SideLight, Pieces: []PieceState{man(core.SideLight, 8, 0)}}},
		{"overlap", GameState{Current: core.SideLight, Pieces: []PieceState{man(core.SideLight, 1, 1), man(core.SideDark, 1, 1)}}},
		{"record without piece", GameState{
			Current: core.SideDark,
			Pieces:  []PieceState{man(core.SideLight, 1, 1), man(core.SideDark, 5, 5)},
			History: []RecordState{{From: v(3, 5), To: v(3, 4)}},
		}},
		{"record by wrong side", GameState{
			Current: core.SideLight,
			Pieces:  []PieceState{man(core.SideLight, 3, 4), man(core.SideDark, 5, 5)},
			History: []RecordState{{From: v(3, 5), To: v(3, 4)}},
		}},
		{"capture onto occupied cell", GameState{
			Current: core.SideDark,
			Pieces:  []PieceState{man(core.SideLight, 3, 2), man(core.SideDark, 5, 5)},
			History: []RecordState{{From: v(3, 4), To: v(3, 2), Removed: []PieceState{man(core.SideDark, 5, 5)}}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromState(tt.state); !errors.Is(err, core.ErrInvalidState) {
				t.Fatalf("expected ErrInvalidState, got %v", err)
			}
		})
	}
}

func TestParseStateRejectsFractionalCoordinate(t *testing.T) {
	data := []byte(`{"current":"light","pieces":[{"side":"light","position":{"x":1.5,"y":2}}]}`)
	if _, err := ParseState(data); !errors.Is(err, core.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestMoveTablesAreCopies(t *testing.T) {
	g := restore(t, core.SideLight,
		king(core.SideLight, 0, 7),
		man(core.SideDark, 0, 4),
	)
	before := g.Moves()

	table := g.Moves()
	table[0].Moves[0].Path[1] = v(7, 0)
	table[0].Moves[0].Captured = nil
	table[0].Moves = table[0].Moves[:0]

	own, ok := g.FindPieceMoves(table[0].Piece.ID)
	if !ok {
		t.Fatal("piece lost its moves")
	}
	own[0].Path[0] = v(7, 7)

	if !reflect.DeepEqual(g.Moves(), before) {
		t.Fatalf("legal-move table changed through a returned copy:\n%v\n%v", g.Moves(), before)
	}
	id := pieceAt(t, g, v(0, 7)).ID
	m := before[0].Moves[0]
	if err := g.PerformMove(id, m); err != nil {
		t.Fatalf("perform after caller mutation: %v", err)
	}
}
