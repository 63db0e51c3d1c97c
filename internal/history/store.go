// Package history journals apply operations to SQLite.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Kinds of apply operation.
const (
	KindImage       = "image"
	KindCursorTrail = "cursor-trail"
	KindCirclePair  = "circle-pair"
	KindDigits      = "digits"
	KindHitsounds   = "hitsounds"
	KindSkinIni     = "skin-ini"
)

// Record is one apply attempt.
type Record struct {
	ID        int64     `json:"id" yaml:"id"`
	Kind      string    `json:"kind" yaml:"kind"`
	Preset    string    `json:"preset" yaml:"preset"`
	Target    string    `json:"target" yaml:"target"`
	SkinPath  string    `json:"skin_path" yaml:"skin_path"`
	Success   bool      `json:"success" yaml:"success"`
	Error     string    `json:"error,omitempty" yaml:"error,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Store persists apply records.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating database dir: %w", err)
	}
	// Pragmas go in the DSN so every pooled connection gets them.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS apply_history (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			kind       TEXT NOT NULL,
			preset     TEXT NOT NULL DEFAULT '',
			target     TEXT NOT NULL DEFAULT '',
			skin_path  TEXT NOT NULL DEFAULT '',
			success    INTEGER NOT NULL DEFAULT 0,
			error      TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_apply_history_created ON apply_history(created_at);
	`)
	return err
}

// Record inserts rec and fills in its ID. A zero CreatedAt is set to now.
func (s *Store) Record(rec *Record) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	res, err := s.db.Exec(`
		INSERT INTO apply_history (kind, preset, target, skin_path, success, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Kind, rec.Preset, rec.Target, rec.SkinPath, boolToInt(rec.Success), rec.Error,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording apply: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = id
	return nil
}

// Recent returns up to limit records, newest first. limit <= 0 means all.
func (s *Store) Recent(limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`
		SELECT id, kind, preset, target, skin_path, success, error, created_at
		FROM apply_history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		var (
			rec       Record
			success   int
			createdAt string
		)
		if err := rows.Scan(&rec.ID, &rec.Kind, &rec.Preset, &rec.Target, &rec.SkinPath, &success, &rec.Error, &createdAt); err != nil {
			return nil, err
		}
		rec.Success = success != 0
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, &rec)
	}
	return out, rows.Err()
}

// Clear deletes every record and returns how many were removed.
func (s *Store) Clear() (int64, error) {
	res, err := s.db.Exec(`DELETE FROM apply_history`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
