// Package mysql implements a MySQL-backed storage.Repository using
// database/sql and go-sql-driver. Dimension upserts use
// INSERT ... ON DUPLICATE KEY UPDATE; the fact load is a multi-row VALUES
// insert built for the whole file (chunked only to stay under the server's
// placeholder limit).
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"songplays/internal/schema"
)

// maxRowsPerInsert keeps one statement's placeholder count well below the
// 65535 protocol limit (8 columns per fact row).
const maxRowsPerInsert = 1000

// Config holds MySQL repository configuration.
type Config struct {
	// DSN in go-sql-driver form, e.g. "user:pass@tcp(localhost:3306)/sparkifydb".
	DSN string
}

// Repository is a MySQL-backed implementation of storage.Repository.
type Repository struct {
	db *sql.DB
}

// NewRepository opens a MySQL connection pool and returns a Repository plus a
// Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("mysql: DSN must not be empty")
	}
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("mysql: open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("mysql: ping: %w", err)
	}

	closeFn := func() { db.Close() }
	return &Repository{db: db}, closeFn, nil
}

// Exec executes an arbitrary SQL statement (typically DDL).
func (r *Repository) Exec(ctx context.Context, sqlText string) error {
	if _, err := r.db.ExecContext(ctx, sqlText); err != nil {
		return fmt.Errorf("mysql: exec: %w", err)
	}
	return nil
}

// Begin opens the per-file transaction.
func (r *Repository) Begin(ctx context.Context) (*Session, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("mysql: begin tx: %w", err)
	}
	return &Session{tx: tx}, nil
}

// Session is one per-file transaction against MySQL.
type Session struct {
	tx   *sql.Tx
	done bool
}

const upsertSongSQL = `
INSERT INTO songs (song_id, title, artist_id, year, duration)
VALUES (?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
    title = VALUES(title),
    artist_id = VALUES(artist_id),
    year = VALUES(year),
    duration = VALUES(duration)`

const upsertArtistSQL = `
INSERT INTO artists (artist_id, name, location, latitude, longitude)
VALUES (?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
    name = VALUES(name),
    location = VALUES(location),
    latitude = VALUES(latitude),
    longitude = VALUES(longitude)`

const upsertTimeSQL = "INSERT IGNORE INTO `time` (start_time, hour, day, week, month, year, weekday) VALUES (?, ?, ?, ?, ?, ?, ?)"

const upsertUserSQL = `
INSERT INTO users (user_id, first_name, last_name, gender, level)
VALUES (?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
    level = VALUES(level)`

const lookupSongArtistSQL = `
SELECT s.song_id, a.artist_id
FROM songs s
JOIN artists a ON s.artist_id = a.artist_id
WHERE s.title = ? AND a.name = ? AND s.duration = ?`

func (s *Session) UpsertSong(ctx context.Context, row schema.SongRow) error {
	if _, err := s.tx.ExecContext(ctx, upsertSongSQL,
		row.SongID, row.Title, row.ArtistID, row.Year, row.Duration); err != nil {
		return fmt.Errorf("mysql: upsert song: %w", err)
	}
	return nil
}

func (s *Session) UpsertArtist(ctx context.Context, row schema.ArtistRow) error {
	if _, err := s.tx.ExecContext(ctx, upsertArtistSQL,
		row.ArtistID, row.Name, row.Location, row.Latitude, row.Longitude); err != nil {
		return fmt.Errorf("mysql: upsert artist: %w", err)
	}
	return nil
}

func (s *Session) UpsertTime(ctx context.Context, row schema.TimeRow) error {
	if _, err := s.tx.ExecContext(ctx, upsertTimeSQL,
		row.StartTime, row.Hour, row.Day, row.Week, row.Month, row.Year, row.Weekday); err != nil {
		return fmt.Errorf("mysql: upsert time: %w", err)
	}
	return nil
}

func (s *Session) UpsertUser(ctx context.Context, row schema.UserRow) error {
	if _, err := s.tx.ExecContext(ctx, upsertUserSQL,
		row.UserID, row.FirstName, row.LastName, row.Gender, row.Level); err != nil {
		return fmt.Errorf("mysql: upsert user: %w", err)
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
		return nil, nil, fmt.Errorf("mysql: lookup song/artist: %w", err)
	}
	return &songID, &artistID, nil
}

// CopyFacts bulk-loads the fact rows as multi-row VALUES inserts inside the
// file's transaction.
func (s *Session) CopyFacts(ctx context.Context, rows []schema.FactRow) (int64, error) {
	var inserted int64
	for start := 0; start < len(rows); start += maxRowsPerInsert {
		end := start + maxRowsPerInsert
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[start:end]

		stmtSQL, args := buildFactInsert(chunk)
		res, err := s.tx.ExecContext(ctx, stmtSQL, args...)
		if err != nil {
			return inserted, fmt.Errorf("mysql: insert songplays: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += n
		} else {
			inserted += int64(len(chunk))
		}
	}
	return inserted, nil
}

// buildFactInsert renders one multi-row INSERT for the chunk and flattens the
// row values into driver arguments.
func buildFactInsert(chunk []schema.FactRow) (string, []any) {
	rowPlaceholder := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(schema.FactColumns)), ", ") + ")"

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(schema.FactTable)
	b.WriteString(" (")
	b.WriteString(strings.Join(schema.FactColumns, ", "))
	b.WriteString(") VALUES ")

	args := make([]any, 0, len(chunk)*len(schema.FactColumns))
	for i, row := range chunk {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(rowPlaceholder)
		args = append(args, row.Values()...)
	}
	return b.String(), args
}

// Commit commits the file's transaction.
func (s *Session) Commit(ctx context.Context) error {
	if s.done {
		return nil
	}
	s.done = true
	if err := s.tx.Commit(); err != nil {
		return fmt.Errorf("mysql: commit: %w", err)
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
		return fmt.Errorf("mysql: rollback: %w", err)
	}
	return nil
}
