package store

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	_ "modernc.org/sqlite" // CGO-free SQLite driver

	"github.com/scan-io-git/issue-tracker/pkg/tracking"
)

const sqliteFileName = "tracker.db"

// SQLiteStore keeps the JSON documents in a single SQLite table.
type SQLiteStore struct {
	conn   *sql.DB
	logger hclog.Logger
}

// NewSQLiteStore opens (and creates if missing) tracker.db inside dir.
func NewSQLiteStore(dir string, logger hclog.Logger) (*SQLiteStore, error) {
	return OpenSQLite(filepath.Join(dir, sqliteFileName), logger)
}

// OpenSQLite opens the database at path and ensures the schema exists.
func OpenSQLite(path string, logger hclog.Logger) (*SQLiteStore, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", path, err)
	}
	s := &SQLiteStore{conn: conn, logger: logger}
	if err := s.createSchema(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) createSchema() error {
	_, err := s.conn.Exec(`
CREATE TABLE IF NOT EXISTS tracked_issues (
  file_key   TEXT PRIMARY KEY,
  issues     TEXT NOT NULL,
  issue_count INTEGER NOT NULL
);`)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Save upserts the document of key.
func (s *SQLiteStore) Save(key string, trackables []*tracking.Trackable) error {
	data, err := encode(key, trackables)
	if err != nil {
		return fmt.Errorf("failed to encode tracked issues of %q: %w", key, err)
	}
	_, err = s.conn.Exec(
		`INSERT OR REPLACE INTO tracked_issues (file_key, issues, issue_count) VALUES (?, ?, ?)`,
		key, string(data), len(trackables),
	)
	if err != nil {
		return fmt.Errorf("failed to save tracked issues of %q: %w", key, err)
	}
	s.logger.Trace("tracked issues saved", "key", key, "count", len(trackables))
	return nil
}

// Read loads the document of key, ErrNotFound when it was never saved.
func (s *SQLiteStore) Read(key string) ([]*tracking.Trackable, error) {
	var data string
	err := s.conn.QueryRow(`SELECT issues FROM tracked_issues WHERE file_key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read tracked issues of %q: %w", key, err)
	}
	_, trackables, err := decode([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("tracked issues of %q: %w", key, err)
	}
	return trackables, nil
}

// Contains reports whether a row exists for key.
func (s *SQLiteStore) Contains(key string) bool {
	var one int
	err := s.conn.QueryRow(`SELECT 1 FROM tracked_issues WHERE file_key = ?`, key).Scan(&one)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		s.logger.Warn("failed to look up tracked issues", "key", key, "error", err)
	}
	return err == nil
}

// Clear deletes every row.
func (s *SQLiteStore) Clear() error {
	if _, err := s.conn.Exec(`DELETE FROM tracked_issues`); err != nil {
		return fmt.Errorf("failed to clear tracked issues: %w", err)
	}
	s.logger.Debug("sqlite store cleared")
	return nil
}

// Keys lists the stored keys in lexical order.
func (s *SQLiteStore) Keys() ([]string, error) {
	rows, err := s.conn.Query(`SELECT file_key FROM tracked_issues ORDER BY file_key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (s *SQLiteStore) Close() error { return s.conn.Close() }
