// Package store persists ledger blobs in SQLite: one slot per key, plus an
// append-only trail of the values each write replaced.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrNotFound is returned when a backup ID does not exist.
var ErrNotFound = errors.New("store: not found")

// Store is a SQLite-backed blob store.
type Store struct {
	db *sql.DB
}

// Backup is a previous value of a slot.
type Backup struct {
	ID        int64
	Key       string
	Value     []byte
	Version   int
	Reason    string
	CreatedAt time.Time
}

// Open opens or creates the database at dbPath and migrates its schema.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening ledger db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Read returns the value stored under key, or nil if the slot is empty.
func (s *Store) Read(key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow("SELECT value FROM slots WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return value, nil
}

// Write stores value under key. The value it replaces, if different, is
// kept as a backup tagged with reason.
func (s *Store) Write(key string, value []byte, version int, reason string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339Nano)

	var prev []byte
	var prevVersion int
	err = tx.QueryRow("SELECT value, version FROM slots WHERE key = ?", key).Scan(&prev, &prevVersion)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("reading %s: %w", key, err)
	case string(prev) == string(value):
		return nil
	default:
		_, err = tx.Exec(`INSERT INTO backups (key, value, version, reason, created_at)
			VALUES (?, ?, ?, ?, ?)`, key, prev, prevVersion, reason, now)
		if err != nil {
			return fmt.Errorf("backing up %s: %w", key, err)
		}
	}

	_, err = tx.Exec(`INSERT OR REPLACE INTO slots (key, value, version, updated_at)
		VALUES (?, ?, ?, ?)`, key, value, version, now)
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}

	return tx.Commit()
}

// UpdatedAt returns when key was last written; zero if never.
func (s *Store) UpdatedAt(key string) (time.Time, error) {
	var ts string
	err := s.db.QueryRow("SELECT updated_at FROM slots WHERE key = ?", key).Scan(&ts)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	t, _ := time.Parse(time.RFC3339Nano, ts)
	return t, nil
}

// Backups lists the newest backups of key first, at most limit of them.
// Values are not loaded.
func (s *Store) Backups(key string, limit int) ([]Backup, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`SELECT id, key, version, reason, created_at
		FROM backups WHERE key = ? ORDER BY id DESC LIMIT ?`, key, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Backup
	for rows.Next() {
		var b Backup
		var created string
		if err := rows.Scan(&b.ID, &b.Key, &b.Version, &b.Reason, &created); err != nil {
			return nil, err
		}
		b.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, b)
	}
	return out, rows.Err()
}

// Backup loads one backup with its value.
func (s *Store) Backup(id int64) (Backup, error) {
	var b Backup
	var created string
	err := s.db.QueryRow(`SELECT id, key, value, version, reason, created_at
		FROM backups WHERE id = ?`, id).Scan(&b.ID, &b.Key, &b.Value, &b.Version, &b.Reason, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Backup{}, fmt.Errorf("backup %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Backup{}, err
	}
	b.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return b, nil
}

// Prune keeps the newest keep backups of key and deletes the rest.
func (s *Store) Prune(key string, keep int) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM backups WHERE key = ? AND id NOT IN
		(SELECT id FROM backups WHERE key = ? ORDER BY id DESC LIMIT ?)`, key, key, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning backups: %w", err)
	}
	return res.RowsAffected()
}

// DefaultPath returns the ledger database path under dataDir, or under the
// XDG data home when dataDir is empty.
func DefaultPath(dataDir string) string {
	if dataDir == "" {
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			dataDir = filepath.Join(xdg, "butce")
		} else {
			home, _ := os.UserHomeDir()
			dataDir = filepath.Join(home, ".local", "share", "butce")
		}
	}
	return filepath.Join(dataDir, "ledger.db")
}
