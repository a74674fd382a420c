// Package history keeps a local log of executed IR commands.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Entry is one recorded command execution.
type Entry struct {
	ID         int64     `json:"id"`
	DeviceID   string    `json:"device_id"`
	Key        string    `json:"key"`
	Backend    string    `json:"backend"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
	ExecutedAt time.Time `json:"executed_at"`
}

// Stats summarizes the stored history.
type Stats struct {
	Total   int64 `json:"total"`
	Failed  int64 `json:"failed"`
	Devices int64 `json:"devices"`
}

// Store is a SQLite-backed execution log.
type Store struct {
	conn *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", path)
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS command_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			device_id TEXT NOT NULL,
			key TEXT NOT NULL,
			backend TEXT NOT NULL,
			success INTEGER NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			executed_at TIMESTAMP NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_command_history_device
			ON command_history(device_id, executed_at);
	`
	if _, err := s.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Record appends one execution to the log and sets the entry's ID.
func (s *Store) Record(entry *Entry) error {
	if entry.ExecutedAt.IsZero() {
		entry.ExecutedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO command_history (device_id, key, backend, success, error, executed_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	result, err := s.conn.Exec(query,
		entry.DeviceID,
		entry.Key,
		entry.Backend,
		entry.Success,
		entry.Error,
		entry.ExecutedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	entry.ID = id
	return nil
}

// Recent returns the newest entries, most recent first. A deviceID of ""
// returns entries for all devices.
func (s *Store) Recent(deviceID string, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, device_id, key, backend, success, error, executed_at
		FROM command_history
	`
	args := []interface{}{}
	if deviceID != "" {
		query += " WHERE device_id = ?"
		args = append(args, deviceID)
	}
	query += " ORDER BY executed_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry := &Entry{}
		if err := rows.Scan(
			&entry.ID,
			&entry.DeviceID,
			&entry.Key,
			&entry.Backend,
			&entry.Success,
			&entry.Error,
			&entry.ExecutedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// GetStats summarizes the stored history.
func (s *Store) GetStats() (*Stats, error) {
	stats := &Stats{}
	row := s.conn.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END), 0),
		       COUNT(DISTINCT device_id)
		FROM command_history
	`)
	if err := row.Scan(&stats.Total, &stats.Failed, &stats.Devices); err != nil {
		return nil, fmt.Errorf("failed to query history stats: %w", err)
	}
	return stats, nil
}
