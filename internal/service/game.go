// FILE: internal/service/game.go
package service

import (
	"fmt"
	"time"

	"draughts/internal/core"
	"draughts/internal/storage"
)

// session looks up a game; caller holds the lock
func (s *Service) session(gameID string) (*Session, error) {
	sess, ok := s.sessions[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrGameNotFound, gameID)
	}
	return sess, nil
}

// Move resolves a path of squares against the legal moves and applies it
func (s *Service) Move(gameID string, path []core.Vector) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(gameID)
	if err != nil {
		return Snapshot{}, err
	}

	g := sess.game
	mover := g.Current()
	id, m, err := g.ResolveMove(path)
	if err != nil {
		return Snapshot{}, err
	}

	sess.tick()
	if err := g.PerformMove(id, m); err != nil {
		return Snapshot{}, err
	}
	sess.lastMove = m.String()
	moveCount := sess.moveCount()

	s.waiter.NotifyGame(gameID, moveCount)

	if s.store != nil {
		s.store.RecordMove(storage.MoveRecord{
			GameID:      gameID,
			MoveNumber:  moveCount,
			Path:        m.String(),
			Side:        mover.String(),
			Captured:    len(m.Captured),
			MoveTimeUTC: time.Now().UTC(),
		})
		s.persistSnapshot(sess)
	}

	return sess.snapshot(), nil
}

// Undo takes back the last move
func (s *Service) Undo(gameID string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(gameID)
	if err != nil {
		return Snapshot{}, err
	}

	sess.tick()
	if err := sess.game.UndoMove(); err != nil {
		return Snapshot{}, err
	}
	sess.lastMove = ""
	moveCount := sess.moveCount()

	s.waiter.NotifyGame(gameID, moveCount)

	if s.store != nil {
		s.store.DeleteUndoneMoves(gameID, moveCount)
		s.persistSnapshot(sess)
	}

	return sess.snapshot(), nil
}

// Reset restarts a game from the standard formation and zeroes its clock
func (s *Service) Reset(gameID string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(gameID)
	if err != nil {
		return Snapshot{}, err
	}

	sess.game.Reset()
	sess.resetClock()
	sess.lastMove = ""

	// every waiter is stale after a reset
	s.waiter.NotifyGame(gameID, -1)

	if s.store != nil {
		s.store.DeleteUndoneMoves(gameID, 0)
		s.persistSnapshot(sess)
	}

	return sess.snapshot(), nil
}
