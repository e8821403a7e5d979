// FILE: internal/service/session.go
package service

import (
	"sync"
	"time"

	"draughts/internal/board"
	"draughts/internal/core"
	"draughts/internal/game"
)

// Session is one game in memory together with its play clock
type Session struct {
	ID        string
	CreatedAt time.Time

	game     *game.Game
	elapsed  time.Duration // play time up to lastTick
	lastTick time.Time
	lastMove string

	done    chan struct{} // closed when the session is dropped
	endOnce sync.Once
}

func newSession(id string, g *game.Game, elapsed time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		CreatedAt: now,
		game:      g,
		elapsed:   elapsed,
		lastTick:  now,
		done:      make(chan struct{}),
	}
}

// end releases everything waiting on the session
func (s *Session) end() {
	s.endOnce.Do(func() { close(s.done) })
}

// tick folds the time since the last command into the clock. The clock only
// runs while the game is ongoing.
func (s *Session) tick() {
	now := time.Now()
	if s.game.Status() == core.StateOngoing {
		s.elapsed += now.Sub(s.lastTick)
	}
	s.lastTick = now
}

// Elapsed is the play time including the running interval
func (s *Session) Elapsed() time.Duration {
	if s.game.Status() != core.StateOngoing {
		return s.elapsed
	}
	return s.elapsed + time.Since(s.lastTick)
}

func (s *Session) resetClock() {
	s.elapsed = 0
	s.lastTick = time.Now()
}

func (s *Session) moveCount() int {
	return len(s.game.History())
}

// Snapshot is a detached copy of a session's public state
type Snapshot struct {
	GameID    string
	Current   core.Side
	Status    core.State
	Pieces    []board.Piece
	Moves     []game.PieceMoves
	CanUndo   bool
	MoveCount int
	LastMove  string
	Elapsed   time.Duration
	State     game.GameState
	Board     *board.Grid
}

func (s *Session) snapshot() Snapshot {
	g := s.game
	return Snapshot{
		GameID:    s.ID,
		Current:   g.Current(),
		Status:    g.Status(),
		Pieces:    g.Pieces(),
		Moves:     g.Moves(),
		CanUndo:   g.CanUndo(),
		MoveCount: s.moveCount(),
		LastMove:  s.lastMove,
		Elapsed:   s.Elapsed(),
		State:     g.State(),
		Board:     board.Freeze(g.Board()),
	}
}
