// FILE: internal/service/service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"draughts/internal/core"
	"draughts/internal/game"
	"draughts/internal/storage"

	"github.com/google/uuid"
)

// Service manages game sessions with optional persistence. Games are not
// safe for concurrent use, so every access goes through the service lock.
type Service struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	store    *storage.Store // nil if persistence disabled
	waiter   *WaitRegistry
}

// New creates a new service instance with optional storage
func New(store *storage.Store) (*Service, error) {
	return &Service{
		sessions: make(map[string]*Session),
		store:    store,
		waiter:   NewWaitRegistry(),
	}, nil
}

// generateGameID returns a uuid not used by a live session; caller holds the lock
func (s *Service) generateGameID() string {
	for {
		id := uuid.New().String()
		if _, exists := s.sessions[id]; !exists {
			return id
		}
	}
}

// NewGame starts a fresh game under a new id
func (s *Service) NewGame() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.addSession(game.New()), nil
}

// ImportGame starts a session from a saved position
func (s *Service) ImportGame(st game.GameState) (Snapshot, error) {
	g, err := game.FromState(st)
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.addSession(g), nil
}

// addSession registers g under a new id; caller holds the lock
func (s *Service) addSession(g *game.Game) Snapshot {
	id := s.generateGameID()
	sess := newSession(id, g, 0)
	s.sessions[id] = sess

	if s.store != nil {
		s.store.RecordNewGame(storage.GameRecord{
			GameID:     id,
			CreatedUTC: sess.CreatedAt.UTC(),
		})
		s.persistSnapshot(sess)
	}

	return sess.snapshot()
}

// RestoreGame loads a saved game into memory. An empty id picks the most
// recently saved game. A snapshot that no longer decodes into a valid game is
// replaced by a fresh game under the same id.
func (s *Service) RestoreGame(gameID string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[gameID]; ok {
		return sess.snapshot(), nil
	}
	if s.store == nil {
		return Snapshot{}, fmt.Errorf("%w: %s (persistence disabled)", core.ErrGameNotFound, gameID)
	}

	rec, err := s.store.LoadSnapshot(gameID)
	if err != nil {
		return Snapshot{}, err
	}
	if sess, ok := s.sessions[rec.GameID]; ok {
		return sess.snapshot(), nil
	}

	g, err := decodeGame(rec.StateJSON)
	if err != nil {
		log.Printf("Discarding saved game %s: %v", rec.GameID, err)
		sess := newSession(rec.GameID, game.New(), 0)
		s.sessions[rec.GameID] = sess
		s.store.DeleteUndoneMoves(rec.GameID, 0)
		s.persistSnapshot(sess)
		return sess.snapshot(), nil
	}

	sess := newSession(rec.GameID, g, time.Duration(rec.ElapsedMs)*time.Millisecond)
	s.sessions[rec.GameID] = sess
	return sess.snapshot(), nil
}

func decodeGame(stateJSON string) (*game.Game, error) {
	st, err := game.ParseState([]byte(stateJSON))
	if err != nil {
		return nil, err
	}
	return game.FromState(st)
}

// GetGame returns a consistent copy of a game's public state
func (s *Service) GetGame(gameID string) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[gameID]
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: %s", core.ErrGameNotFound, gameID)
	}
	return sess.snapshot(), nil
}

// ListGames returns the ids of the games held in memory
func (s *Service) ListGames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// DeleteGame removes a game from memory and storage
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrGameNotFound, gameID)
	}

	// Wake long-pollers and event streams before the game disappears
	s.waiter.RemoveGame(gameID)
	sess.end()

	delete(s.sessions, gameID)
	if s.store != nil {
		s.store.DeleteGame(gameID)
	}
	return nil
}

// Subscribe attaches an event handler to a game. The handler runs while the
// service lock is held and must not call back into the service. The returned
// function detaches it; the channel is closed once the game is deleted or the
// service closes.
func (s *Service) Subscribe(gameID string, h game.Handler) (func(), <-chan struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[gameID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", core.ErrGameNotFound, gameID)
	}
	id := sess.game.Subscribe(h)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		sess.game.Unsubscribe(id)
	}, sess.done, nil
}

// RegisterWait blocks a long-poll client until the game's move count differs
// from moveCount, the wait times out, or ctx ends
func (s *Service) RegisterWait(gameID string, moveCount int, ctx context.Context) (<-chan struct{}, error) {
	s.mu.RLock()
	sess, ok := s.sessions[gameID]
	var current int
	if ok {
		current = sess.moveCount()
	}
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrGameNotFound, gameID)
	}

	notify := s.waiter.RegisterWait(gameID, moveCount, ctx)
	if current != moveCount {
		// already stale, answer right away
		s.waiter.NotifyGame(gameID, current)
	}
	return notify, nil
}

// persistSnapshot queues the current state of a session; caller holds the lock
func (s *Service) persistSnapshot(sess *Session) {
	data, err := json.Marshal(sess.game.State())
	if err != nil {
		log.Printf("Failed to encode game %s: %v", sess.ID, err)
		return
	}
	s.store.SaveSnapshot(storage.SnapshotRecord{
		GameID:    sess.ID,
		StateJSON: string(data),
		ElapsedMs: sess.Elapsed().Milliseconds(),
		SavedUTC:  time.Now().UTC(),
	})
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// Shutdown releases long-poll clients
func (s *Service) Shutdown(timeout time.Duration) error {
	return s.waiter.Shutdown(timeout)
}

// Close saves every session, then closes storage
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	defer func() {
		for _, sess := range s.sessions {
			sess.end()
		}
		s.sessions = make(map[string]*Session)
	}()

	if s.store == nil {
		return nil
	}
	for _, sess := range s.sessions {
		s.persistSnapshot(sess)
	}
	return s.store.Close()
}
