// Package sqlite implements a SQLite-backed storage.Repository using
// database/sql. SQLite has no bulk-load API like Postgres COPY, so the fact
// load is a prepared INSERT executed once per row inside the file's
// transaction; it is still issued as one CopyFacts call with one commit.
// The backend exists for local runs and for exercising the full pipeline in
// tests without a database server (the driver is pure Go).
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	// SQLite driver; replace with your preferred driver if desired.
	_ "modernc.org/sqlite" // alternative: github.com/mattn/go-sqlite3

	"songplays/internal/schema"
)

// Config holds SQLite repository configuration.
type Config struct {
	// DSN is passed directly to database/sql; for example:
	//
	//	"file:songplays.db?cache=shared"
	//	"songplays.db"
	DSN string
}

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	db *sql.DB
}

// NewRepository opens a SQLite connection using the provided DSN and returns
// a Repository plus a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: open: %w", err)
	}

	// The pipeline holds one transaction at a time; a single connection also
	// keeps PRAGMA settings and in-memory DSNs coherent across sessions.
	db.SetMaxOpenConns(1)

	// Apply a basic ping with context to fail fast on invalid DSNs.
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	// Enable foreign keys by default; ignore error if driver doesn't support it.
	_, _ = db.ExecContext(ctx, "PRAGMA foreign_keys = ON;")

	closeFn := func() { db.Close() }
	return &Repository{db: db}, closeFn, nil
}

// Exec executes an arbitrary SQL statement (typically DDL).
func (r *Repository) Exec(ctx context.Context, sqlText string) error {
	if strings.TrimSpace(sqlText) == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, sqlText); err != nil {
		return fmt.Errorf("sqlite: exec: %w", err)
	}
	return nil
}

// Begin opens the per-file transaction.
func (r *Repository) Begin(ctx context.Context) (*Session, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: begin tx: %w", err)
	}
	return &Session{tx: tx}, nil
}

// Session is one per-file transaction against SQLite.
type Session struct {
	tx   *sql.Tx
	done bool
}

const upsertSongSQL = `
INSERT INTO songs (song_id, title, artist_id, year, duration)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (song_id) DO UPDATE SET
    title = excluded.title,
    artist_id = excluded.artist_id,
    year = excluded.year,
    duration = excluded.duration`

const upsertArtistSQL = `
INSERT INTO artists (artist_id, name, location, latitude, longitude)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (artist_id) DO UPDATE SET
    name = excluded.name,
    location = excluded.location,
    latitude = excluded.latitude,
    longitude = excluded.longitude`

const upsertTimeSQL = `
INSERT INTO "time" (start_time, hour, day, week, month, year, weekday)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (start_time) DO NOTHING`

const upsertUserSQL = `
INSERT INTO users (user_id, first_name, last_name, gender, level)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (user_id) DO UPDATE SET
    level = excluded.level`

const lookupSongArtistSQL = `
SELECT s.song_id, a.artist_id
FROM songs s
JOIN artists a ON s.artist_id = a.artist_id
WHERE s.title = ? AND a.name = ? AND s.duration = ?`

func (s *Session) UpsertSong(ctx context.Context, row schema.SongRow) error {
	if _, err := s.tx.ExecContext(ctx, upsertSongSQL,
		row.SongID, row.Title, row.ArtistID, row.Year, row.Duration); err != nil {
		return fmt.Errorf("sqlite: upsert song: %w", err)
	}
	return nil
}

func (s *Session) UpsertArtist(ctx context.Context, row schema.ArtistRow) error {
	if _, err := s.tx.ExecContext(ctx, upsertArtistSQL,
		row.ArtistID, row.Name, row.Location, row.Latitude, row.Longitude); err != nil {
		return fmt.Errorf("sqlite: upsert artist: %w", err)
	}
	return nil
}

func (s *Session) UpsertTime(ctx context.Context, row schema.TimeRow) error {
	if _, err := s.tx.ExecContext(ctx, upsertTimeSQL,
		row.StartTime, row.Hour, row.Day, row.Week, row.Month, row.Year, row.Weekday); err != nil {
		return fmt.Errorf("sqlite: upsert time: %w", err)
	}
	return nil
}

func (s *Session) UpsertUser(ctx context.Context, row schema.UserRow) error {
	if _, err := s.tx.ExecContext(ctx, upsertUserSQL,
		row.UserID, row.FirstName, row.LastName, row.Gender, row.Level); err != nil {
		return fmt.Errorf("sqlite: upsert user: %w", err)
	}
	return nil
}

func (s *Session) LookupSongArtist(ctx context.Context, title, artistName string, length float64) (*string, *string, error) {
	var songID, artistID string
	err := s.tx.QueryRowContext(ctx, lookupSongArtistSQL, title, artistName, length).Scan(&songID, &artistID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: lookup song/artist: %w", err)
	}
	return &songID, &artistID, nil
}

// CopyFacts inserts the fact rows with a single prepared statement executed
// per row. All rows land in the file's transaction, so the load is atomic
// with the dimension upserts.
func (s *Session) CopyFacts(ctx context.Context, rows []schema.FactRow) (int64, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(schema.FactColumns)), ", ")
	stmtSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		schema.FactTable,
		strings.Join(schema.FactColumns, ", "),
		placeholders,
	)

	stmt, err := s.tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		return 0, fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row.Values()...); err != nil {
			return inserted, fmt.Errorf("sqlite: insert songplay: %w", err)
		}
		inserted++
	}
	return inserted, nil
}

// Commit commits the file's transaction.
func (s *Session) Commit(ctx context.Context) error {
	if s.done {
		return nil
	}
	s.done = true
	if err := s.tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

// Rollback aborts the file's transaction. Safe to call after Commit.
func (s *Session) Rollback(ctx context.Context) error {
	if s.done {
		return nil
	}
	s.done = true
	if err := s.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("sqlite: rollback: %w", err)
	}
	return nil
}
