// Package library persists imported trajectory files so the round/episode
// picker has something to offer across launches. Annotation sessions never
// touch it; markers and intervals live only in memory until exported.
package library

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// Entry is one imported trajectory file.
type Entry struct {
	ID         uuid.UUID `json:"id"`
	FileName   string    `json:"fileName"`
	Round      string    `json:"round"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	FrameCount int       `json:"frameCount"`
	ImportedAt time.Time `json:"importedAt"`
	Notes      string    `json:"notes"`
}

// Store is the sqlite-backed episode library.
type Store struct {
	db *sql.DB
}

// New opens/creates the library database at dbPath and runs migrations.
// Tests point it at a throwaway file; cache=shared makes ":memory:" a
// single process-wide database, which is not what a test wants.
func New(dbPath string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&cache=shared", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // SQLite is not concurrent for writes
	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS episodes (
			id TEXT PRIMARY KEY,
			file_name TEXT NOT NULL,
			round TEXT NOT NULL DEFAULT '',
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			frame_count INTEGER NOT NULL,
			imported_at TIMESTAMP NOT NULL,
			notes TEXT DEFAULT '',
			payload BLOB NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_episodes_round ON episodes(round, imported_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_episodes_imported ON episodes(imported_at DESC);`,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, q := range stmts {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Import stores a trajectory file's raw payload plus the metadata the
// picker lists. The caller has already adapted the payload once to
// validate it and learn its dimensions.
func (s *Store) Import(ctx context.Context, fileName, round string, width, height, frameCount int, payload []byte) (Entry, error) {
	e := Entry{
		ID:         uuid.New(),
		FileName:   fileName,
		Round:      strings.TrimSpace(round),
		Width:      width,
		Height:     height,
		FrameCount: frameCount,
		ImportedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO episodes(id, file_name, round, width, height, frame_count, imported_at, notes, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, '', ?)`,
		e.ID.String(), e.FileName, e.Round, e.Width, e.Height, e.FrameCount, e.ImportedAt, payload)
	if err != nil {
		return Entry{}, fmt.Errorf("import %s: %w", fileName, err)
	}
	return e, nil
}

// List returns entries for one round, or every entry when round is empty,
// newest first.
func (s *Store) List(ctx context.Context, round string) ([]Entry, error) {
	query := `
		SELECT id, file_name, round, width, height, frame_count, imported_at, notes
		FROM episodes`
	args := []any{}
	if round != "" {
		query += ` WHERE round=?`
		args = append(args, round)
	}
	query += ` ORDER BY imported_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var id string
		if err := rows.Scan(&id, &e.FileName, &e.Round, &e.Width, &e.Height, &e.FrameCount, &e.ImportedAt, &e.Notes); err != nil {
			return nil, err
		}
		e.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("corrupt episode id %q: %w", id, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Rounds returns the distinct round labels present in the library.
func (s *Store) Rounds(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT round FROM episodes WHERE round != '' ORDER BY round`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var r string
		if err := rows.Scan(&r); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Payload returns the stored raw trajectory for re-adaptation on load.
func (s *Store) Payload(ctx context.Context, id uuid.UUID) (string, []byte, error) {
	var fileName string
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT file_name, payload FROM episodes WHERE id=?`, id.String()).
		Scan(&fileName, &payload)
	if err != nil {
		return "", nil, fmt.Errorf("load episode %s: %w", id, err)
	}
	return fileName, payload, nil
}

// UpdateNotes sets or clears notes on an entry.
func (s *Store) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE episodes SET notes=? WHERE id=?`, notes, id.String())
	return err
}

// Delete removes an entry and its payload.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM episodes WHERE id=?`, id.String())
	return err
}
