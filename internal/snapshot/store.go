// Package snapshot persists the last successfully fetched payload of each
// dashboard view per user, so a view whose fetch fails can still render a
// stale value after a restart.
package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	db *sql.DB
}

func NewStore(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		path = "labelboard.db"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	store := &Store{db: db}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS view_snapshots (
			user_id TEXT NOT NULL,
			view TEXT NOT NULL,
			payload_json TEXT NOT NULL,
			updated_at_unix INTEGER NOT NULL,
			PRIMARY KEY (user_id, view)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_view_snapshots_updated_at ON view_snapshots(updated_at_unix DESC);`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveView stores the payload for (userID, view), replacing any previous
// snapshot for the same key.
func (s *Store) SaveView(userID, view string, payload []byte) error {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(view) == "" {
		return errors.New("user id and view are required")
	}

	_, err := s.db.Exec(
		`INSERT INTO view_snapshots (user_id, view, payload_json, updated_at_unix)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, view) DO UPDATE SET
			payload_json = excluded.payload_json,
			updated_at_unix = excluded.updated_at_unix`,
		userID,
		view,
		string(payload),
		time.Now().UTC().UnixNano(),
	)
	return err
}

// LoadView returns the stored payload for (userID, view); ok is false when
// no snapshot exists.
func (s *Store) LoadView(userID, view string) ([]byte, bool, error) {
	var payload string
	err := s.db.QueryRow(
		`SELECT payload_json FROM view_snapshots WHERE user_id = ? AND view = ?`,
		userID,
		view,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(payload), true, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
