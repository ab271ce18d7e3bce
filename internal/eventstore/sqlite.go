package eventstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS build_events (
	seq      INTEGER PRIMARY KEY AUTOINCREMENT,
	build_id TEXT    NOT NULL,
	type     TEXT    NOT NULL,
	at_ms    INTEGER NOT NULL,
	payload  BLOB    NOT NULL,
	metadata TEXT
);
CREATE INDEX IF NOT EXISTS idx_build_events_build ON build_events(build_id, seq);
`

// defaultRecent bounds RecentBuildIDs when the caller passes no limit.
const defaultRecent = 20

// SQLiteStore is the Store used by the CLI and the daemon.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens (and creates) the history database at dbPath.
// ":memory:" gives a private in-memory database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, storeError(opOpen, err).Build()
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, storeError(opOpen, err).Build()
	}
	// An in-memory database exists per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, storeError(opSchema, err).Build()
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Append(ctx context.Context, e Event) error {
	var metadata []byte
	if len(e.Metadata) > 0 {
		var err error
		if metadata, err = json.Marshal(e.Metadata); err != nil {
			return storeError(opAppend, err).Build()
		}
	}
	at := e.At
	if at.IsZero() {
		at = time.Now()
	}
	payload := []byte(e.Payload)
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO build_events (build_id, type, at_ms, payload, metadata) VALUES (?, ?, ?, ?, ?)",
		e.BuildID, e.Type, at.UnixMilli(), payload, metadata,
	)
	if err != nil {
		return storeError(opAppend, err).Build()
	}
	return nil
}

func (s *SQLiteStore) Events(ctx context.Context, buildID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT seq, build_id, type, at_ms, payload, metadata FROM build_events WHERE build_id = ? ORDER BY seq",
		buildID,
	)
	if err != nil {
		return nil, storeError(opQuery, err).Build()
	}
	defer func() { _ = rows.Close() }()

	var events []Event
	for rows.Next() {
		var (
			e        Event
			atMillis int64
			payload  []byte
			metadata sql.NullString
		)
		if err := rows.Scan(&e.Seq, &e.BuildID, &e.Type, &atMillis, &payload, &metadata); err != nil {
			return nil, storeError(opScan, err).Build()
		}
		e.At = time.UnixMilli(atMillis)
		e.Payload = payload
		if metadata.Valid && metadata.String != "" {
			if err := json.Unmarshal([]byte(metadata.String), &e.Metadata); err != nil {
				return nil, storeError(opScan, err).Build()
			}
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(opScan, err).Build()
	}
	return events, nil
}

// RecentBuildIDs orders builds by their first event.
func (s *SQLiteStore) RecentBuildIDs(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = defaultRecent
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx,
		"SELECT build_id FROM build_events GROUP BY build_id ORDER BY MIN(seq) DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, storeError(opQuery, err).Build()
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, storeError(opScan, err).Build()
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(opScan, err).Build()
	}
	return ids, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
