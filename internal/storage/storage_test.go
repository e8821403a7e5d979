package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"draughts/internal/core"
)

func openStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := NewStore(path, false)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := s.InitDB(); err != nil {
		t.Fatalf("init db: %v", err)
	}
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draughts.db")
	s := openStore(t, path)

	now := time.Now().UTC()
	s.RecordNewGame(GameRecord{GameID: "g1", CreatedUTC: now})
	s.RecordMove(MoveRecord{GameID: "g1", MoveNumber: 1, Path: "c3-c4", Side: "light", MoveTimeUTC: now})
	s.RecordMove(MoveRecord{GameID: "g1", MoveNumber: 2, Path: "f6-f5", Side: "dark", MoveTimeUTC: now})
	s.SaveSnapshot(SnapshotRecord{GameID: "g1", StateJSON: `{"v":1}`, ElapsedMs: 10, SavedUTC: now})
	s.SaveSnapshot(SnapshotRecord{GameID: "g1", StateJSON: `{"v":2}`, ElapsedMs: 20, SavedUTC: now})

	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !s.IsHealthy() {
		t.Fatalf("store degraded during writes")
	}

	s = openStore(t, path)
	defer s.Close()

	games, err := s.QueryGames("*")
	if err != nil {
		t.Fatalf("query games: %v", err)
	}
	if len(games) != 1 || games[0].GameID != "g1" || games[0].MoveCount != 2 {
		t.Fatalf("unexpected games: %+v", games)
	}

	snap, err := s.LoadSnapshot("g1")
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if snap.StateJSON != `{"v":2}` || snap.ElapsedMs != 20 {
		t.Fatalf("snapshot not replaced: %+v", snap)
	}

	latest, err := s.LoadSnapshot("")
	if err != nil || latest.GameID != "g1" {
		t.Fatalf("latest snapshot: %+v, %v", latest, err)
	}

	moves, err := s.QueryMoves("g1")
	if err != nil {
		t.Fatalf("query moves: %v", err)
	}
	if len(moves) != 2 || moves[0].Path != "c3-c4" || moves[1].Side != "dark" {
		t.Fatalf("unexpected moves: %+v", moves)
	}
}

func TestDeleteUndoneMovesAndGame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draughts.db")
	s := openStore(t, path)

	now := time.Now().UTC()
	s.RecordNewGame(GameRecord{GameID: "g1", CreatedUTC: now})
	for i := 1; i <= 3; i++ {
		s.RecordMove(MoveRecord{GameID: "g1", MoveNumber: i, Path: "a1-a2", Side: "light", MoveTimeUTC: now})
	}
	s.DeleteUndoneMoves("g1", 1)
	s.RecordNewGame(GameRecord{GameID: "g2", CreatedUTC: now})
	s.SaveSnapshot(SnapshotRecord{GameID: "g2", StateJSON: "{}", SavedUTC: now})
	s.DeleteGame("g2")
	s.Close()

	s = openStore(t, path)
	defer s.Close()

	games, err := s.QueryGames("")
	if err != nil {
		t.Fatalf("query games: %v", err)
	}
	if len(games) != 1 || games[0].MoveCount != 1 {
		t.Fatalf("unexpected games after delete: %+v", games)
	}
	if _, err := s.LoadSnapshot("g2"); !errors.Is(err, core.ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound for deleted game, got %v", err)
	}
}

func TestDeleteDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draughts.db")
	s := openStore(t, path)
	if err := s.DeleteDB(); err != nil {
		t.Fatalf("delete db: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("database file still present: %v", err)
	}
	if err := s.RecordNewGame(GameRecord{GameID: "late"}); err != nil {
		t.Fatalf("write after close should be dropped, got %v", err)
	}
}

func TestBrokenWriteDegradesStore(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "draughts.db"))
	// move for a game that does not exist violates the foreign key
	s.RecordMove(MoveRecord{GameID: "missing", MoveNumber: 1, Path: "a1-a2", Side: "light", MoveTimeUTC: time.Now()})
	s.Close()
	if s.IsHealthy() {
		t.Fatalf("store should be degraded after a failed write")
	}
}
