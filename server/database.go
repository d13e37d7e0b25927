package main

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
	log  zerolog.Logger
}

// SnapshotRow is a stored pause snapshot
type SnapshotRow struct {
	ID         string
	SessionID  string
	Difficulty Difficulty
	Tick       uint64
	Data       []byte
	CreatedAt  time.Time
}

// ResultRow is one finished level
type ResultRow struct {
	ID         int64     `json:"id"`
	SessionID  string    `json:"sid"`
	Outcome    string    `json:"outcome"`
	Difficulty string    `json:"difficulty"`
	Ticks      uint64    `json:"ticks"`
	LivesLost  int       `json:"lives_lost"`
	Destroyed  int       `json:"destroyed"`
	CreatedAt  time.Time `json:"created_at"`
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(path string, log zerolog.Logger) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// SQLite takes one writer at a time; a single connection queues them
	// instead of failing with SQLITE_BUSY.
	conn.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	db := &DB{conn: conn, log: log}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates tables if they don't exist
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		difficulty INTEGER NOT NULL,
		tick INTEGER NOT NULL,
		data BLOB NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		outcome TEXT NOT NULL,
		difficulty TEXT NOT NULL,
		ticks INTEGER NOT NULL DEFAULT 0,
		lives_lost INTEGER NOT NULL DEFAULT 0,
		destroyed INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		entity_id TEXT,
		tick INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_session ON events(session_id);
	CREATE INDEX IF NOT EXISTS idx_results_created ON results(created_at);
	`
	if _, err := db.conn.Exec(schema); err != nil {
		db.log.Error().Err(err).Msg("DB migration failed")
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// GetSetting returns a setting value, or "" when unset
func (db *DB) GetSetting(key string) string {
	var v string
	err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&v)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			db.log.Warn().Err(err).Str("key", key).Msg("read setting")
		}
		return ""
	}
	return v
}

// SetSetting stores a setting value
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// SaveSnapshot encodes and stores a level snapshot under id
func (db *DB) SaveSnapshot(id, sessionID string, snap *Snapshot) error {
	data, err := snap.Encode()
	if err != nil {
		return err
	}
	_, err = db.conn.Exec(
		`INSERT INTO snapshots (id, session_id, difficulty, tick, data) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, tick = excluded.tick`,
		id, sessionID, int(snap.Difficulty), snap.Tick, data,
	)
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", id, err)
	}
	return nil
}

// LoadSnapshot reads and decodes the snapshot stored under id
func (db *DB) LoadSnapshot(id string) (*Snapshot, error) {
	var data []byte
	err := db.conn.QueryRow("SELECT data FROM snapshots WHERE id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", id, err)
	}
	return DecodeSnapshot(data)
}

// TakeSnapshot removes the snapshot stored under id and returns it. Only
// one caller can take a given snapshot; the rest get ErrSnapshotNotFound.
func (db *DB) TakeSnapshot(id string) (*Snapshot, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("take snapshot %s: %w", id, err)
	}
	defer tx.Rollback()

	var data []byte
	err = tx.QueryRow("SELECT data FROM snapshots WHERE id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("take snapshot %s: %w", id, err)
	}
	res, err := tx.Exec("DELETE FROM snapshots WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("take snapshot %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("take snapshot %s: %w", id, err)
	} else if n == 0 {
		return nil, ErrSnapshotNotFound
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("take snapshot %s: %w", id, err)
	}
	return DecodeSnapshot(data)
}

// PruneSnapshots deletes snapshots older than maxAge and returns how many
func (db *DB) PruneSnapshots(maxAge time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-maxAge).Format("2006-01-02 15:04:05")
	res, err := db.conn.Exec("DELETE FROM snapshots WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	return res.RowsAffected()
}

// RecordResult stores a finished level and returns its ID
func (db *DB) RecordResult(r ResultRow) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO results (session_id, outcome, difficulty, ticks, lives_lost, destroyed) VALUES (?, ?, ?, ?, ?, ?)",
		r.SessionID, r.Outcome, r.Difficulty, r.Ticks, r.LivesLost, r.Destroyed,
	)
	if err != nil {
		return 0, fmt.Errorf("record result: %w", err)
	}
	return res.LastInsertId()
}

// RecentResults returns the latest finished levels, newest first
func (db *DB) RecentResults(limit int) ([]ResultRow, error) {
	rows, err := db.conn.Query(`
		SELECT id, session_id, outcome, difficulty, ticks, lives_lost, destroyed, created_at
		FROM results ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent results: %w", err)
	}
	defer rows.Close()

	result := make([]ResultRow, 0, limit)
	for rows.Next() {
		var r ResultRow
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Outcome, &r.Difficulty, &r.Ticks, &r.LivesLost, &r.Destroyed, &r.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
