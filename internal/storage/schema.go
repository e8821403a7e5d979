// FILE: internal/storage/schema.go
package storage

import "time"

// GameRecord represents a row in the games table
type GameRecord struct {
	GameID     string    `db:"game_id"`
	CreatedUTC time.Time `db:"created_utc"`
	UpdatedUTC time.Time `db:"updated_utc"`
	MoveCount  int       `db:"-"` // joined from moves
}

// MoveRecord represents a row in the moves table
type MoveRecord struct {
	MoveID      int64     `db:"move_id"`
	GameID      string    `db:"game_id"`
	MoveNumber  int       `db:"move_number"`
	Path        string    `db:"path"` // square notation, e.g. "c3xc5"
	Side        string    `db:"side"` // "light" or "dark"
	Captured    int       `db:"captured"`
	MoveTimeUTC time.Time `db:"move_time_utc"`
}

// SnapshotRecord represents a row in the snapshots table. StateJSON is a
// serialized game state; ElapsedMs is the play time on the game clock.
type SnapshotRecord struct {
	GameID    string    `db:"game_id"`
	StateJSON string    `db:"state_json"`
	ElapsedMs int64     `db:"elapsed_ms"`
	SavedUTC  time.Time `db:"saved_utc"`
}

// Schema defines the SQLite database structure
const Schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id TEXT PRIMARY KEY,
	created_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS moves (
	move_id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL,
	move_number INTEGER NOT NULL,
	path TEXT NOT NULL,
	side TEXT NOT NULL CHECK(side IN ('light', 'dark')),
	captured INTEGER NOT NULL DEFAULT 0,
	move_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (game_id) REFERENCES games(game_id) ON DELETE CASCADE,
	UNIQUE(game_id, move_number)
);

CREATE TABLE IF NOT EXISTS snapshots (
	game_id TEXT PRIMARY KEY,
	state_json TEXT NOT NULL,
	elapsed_ms INTEGER NOT NULL DEFAULT 0,
	saved_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (game_id) REFERENCES games(game_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_moves_game_id ON moves(game_id);
CREATE INDEX IF NOT EXISTS idx_snapshots_saved ON snapshots(saved_utc);
`
