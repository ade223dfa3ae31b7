// Package persistence stores finished sessions, notable game events, the last
// fetched leaderboard and small key/value metadata in SQLite.
package persistence

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/green-sphere/internal/leaderboard"
)

// DB wraps a SQLite connection.
type DB struct {
	conn *sqlx.DB
}

// Session is one finished run.
type Session struct {
	ID                 string  `db:"id" json:"id"`
	Name               string  `db:"name" json:"name"`
	Score              int     `db:"score" json:"score"`
	Elapsed            float64 `db:"elapsed" json:"elapsed"`
	TilesRestored      int     `db:"tiles_restored" json:"tiles_restored"`
	FactoriesDestroyed int     `db:"factories_destroyed" json:"factories_destroyed"`
	MachinesDestroyed  int     `db:"machines_destroyed" json:"machines_destroyed"`
	EndedAt            int64   `db:"ended_at" json:"ended_at"` // unix seconds
}

// NewSessionID returns a fresh session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// Event is a notable occurrence worth keeping after the process exits.
type Event struct {
	Tick        uint64 `db:"tick" json:"tick"`
	Description string `db:"description" json:"description"`
	Category    string `db:"category" json:"category"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		score INTEGER NOT NULL,
		elapsed REAL NOT NULL,
		tiles_restored INTEGER NOT NULL,
		factories_destroyed INTEGER NOT NULL,
		machines_destroyed INTEGER NOT NULL,
		ended_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS leaderboard_cache (
		rank INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		score INTEGER NOT NULL,
		time REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_score ON sessions(score);
	CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveSession records a finished run. A missing ID or end time is filled in.
func (db *DB) SaveSession(s Session) (Session, error) {
	if s.ID == "" {
		s.ID = NewSessionID()
	}
	if s.EndedAt == 0 {
		s.EndedAt = time.Now().Unix()
	}
	_, err := db.conn.NamedExec(`INSERT OR REPLACE INTO sessions
		(id, name, score, elapsed, tiles_restored, factories_destroyed, machines_destroyed, ended_at)
		VALUES (:id, :name, :score, :elapsed, :tiles_restored, :factories_destroyed, :machines_destroyed, :ended_at)`,
		s)
	if err != nil {
		return s, fmt.Errorf("save session: %w", err)
	}
	slog.Debug("session saved", "id", s.ID, "score", s.Score)
	return s, nil
}

// TopSessions returns the best runs, highest score first.
func (db *DB) TopSessions(limit int) ([]Session, error) {
	var out []Session
	err := db.conn.Select(&out,
		"SELECT * FROM sessions ORDER BY score DESC, ended_at ASC LIMIT ?",
		limit,
	)
	return out, err
}

// SessionCount returns how many runs are stored.
func (db *DB) SessionCount() (int, error) {
	var n int
	err := db.conn.Get(&n, "SELECT COUNT(*) FROM sessions")
	return n, err
}

// SaveEvents appends events to the database.
func (db *DB) SaveEvents(events []Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex("INSERT INTO events (tick, description, category) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		if _, err := stmt.Exec(e.Tick, e.Description, e.Category); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// RecentEvents returns the most recent N events, newest first.
func (db *DB) RecentEvents(limit int) ([]Event, error) {
	var events []Event
	err := db.conn.Select(&events,
		"SELECT tick, description, category FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	return events, err
}

// SaveLeaderboard replaces the cached remote table.
func (db *DB) SaveLeaderboard(entries []leaderboard.Entry) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM leaderboard_cache"); err != nil {
		return err
	}

	stmt, err := tx.Preparex("INSERT INTO leaderboard_cache (rank, name, score, time) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, e := range entries {
		if _, err := stmt.Exec(i+1, e.Name, e.Score, e.Time); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadLeaderboard returns the cached table in rank order.
func (db *DB) LoadLeaderboard() ([]leaderboard.Entry, error) {
	var out []leaderboard.Entry
	rows, err := db.conn.Queryx("SELECT name, score, time FROM leaderboard_cache ORDER BY rank")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var e leaderboard.Entry
		if err := rows.Scan(&e.Name, &e.Score, &e.Time); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// SaveMeta stores a key-value pair.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM meta WHERE key = ?", key)
	return value, err
}
