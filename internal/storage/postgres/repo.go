// Package postgres implements the Postgres repository using pgx v5.
// Dimension rows are upserted per-row with INSERT ... ON CONFLICT; the
// songplays bulk load uses COPY via the transaction's CopyFrom. The
// asymmetry is deliberate: facts dominate row volume, dimensions do not.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"songplays/internal/schema"
)

// Config holds Postgres repository configuration.
type Config struct {
	// DSN is the connection string for pgxpool.
	DSN string
}

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository and returns a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	closeFn := func() { pool.Close() }
	return &Repository{pool: pool}, closeFn, nil
}

// Exec executes an arbitrary statement (typically DDL) outside any session.
func (r *Repository) Exec(ctx context.Context, sql string) error {
	_, err := r.pool.Exec(ctx, sql)
	return err
}

// Begin acquires a connection from the pool and opens the per-file
// transaction. The returned Session must be finished with Commit or Rollback;
// both release the connection.
func (r *Repository) Begin(ctx context.Context) (*Session, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire: %w", err)
	}
	tx, err := conn.Begin(ctx)
	if err != nil {
		conn.Release()
		return nil, fmt.Errorf("begin: %w", err)
	}
	return &Session{conn: conn, tx: tx}, nil
}

// Session is one per-file transaction against Postgres.
type Session struct {
	conn *pgxpool.Conn
	tx   pgx.Tx
	done bool
}

const upsertSongSQL = `
INSERT INTO songs (song_id, title, artist_id, year, duration)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (song_id) DO UPDATE SET
    title = EXCLUDED.title,
    artist_id = EXCLUDED.artist_id,
    year = EXCLUDED.year,
    duration = EXCLUDED.duration`

const upsertArtistSQL = `
INSERT INTO artists (artist_id, name, location, latitude, longitude)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (artist_id) DO UPDATE SET
    name = EXCLUDED.name,
    location = EXCLUDED.location,
    latitude = EXCLUDED.latitude,
    longitude = EXCLUDED.longitude`

const upsertTimeSQL = `
INSERT INTO "time" (start_time, hour, day, week, month, year, weekday)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (start_time) DO NOTHING`

const upsertUserSQL = `
INSERT INTO users (user_id, first_name, last_name, gender, level)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_id) DO UPDATE SET
    level = EXCLUDED.level`

const lookupSongArtistSQL = `
SELECT s.song_id, a.artist_id
FROM songs s
JOIN artists a ON s.artist_id = a.artist_id
WHERE s.title = $1 AND a.name = $2 AND s.duration = $3`

func (s *Session) UpsertSong(ctx context.Context, row schema.SongRow) error {
	_, err := s.tx.Exec(ctx, upsertSongSQL,
		row.SongID, row.Title, row.ArtistID, row.Year, row.Duration)
	if err != nil {
		return fmt.Errorf("upsert song: %w", err)
	}
	return nil
}

func (s *Session) UpsertArtist(ctx context.Context, row schema.ArtistRow) error {
	_, err := s.tx.Exec(ctx, upsertArtistSQL,
		row.ArtistID, row.Name, row.Location, row.Latitude, row.Longitude)
	if err != nil {
		return fmt.Errorf("upsert artist: %w", err)
	}
	return nil
}

func (s *Session) UpsertTime(ctx context.Context, row schema.TimeRow) error {
	_, err := s.tx.Exec(ctx, upsertTimeSQL,
		row.StartTime, row.Hour, row.Day, row.Week, row.Month, row.Year, row.Weekday)
	if err != nil {
		return fmt.Errorf("upsert time: %w", err)
	}
	return nil
}

func (s *Session) UpsertUser(ctx context.Context, row schema.UserRow) error {
	_, err := s.tx.Exec(ctx, upsertUserSQL,
		row.UserID, row.FirstName, row.LastName, row.Gender, row.Level)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// LookupSongArtist resolves the (song_id, artist_id) pair by exact equality on
// title, artist name, and duration. Duration compares with the store's native
// float equality; a value logged with different rounding than the catalog's
// will not match and resolves to (nil, nil).
func (s *Session) LookupSongArtist(ctx context.Context, title, artistName string, length float64) (*string, *string, error) {
	var songID, artistID string
	err := s.tx.QueryRow(ctx, lookupSongArtistSQL, title, artistName, length).Scan(&songID, &artistID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("lookup song/artist: %w", err)
	}
	return &songID, &artistID, nil
}

// CopyFacts bulk-loads the fact rows through COPY in a single operation.
func (s *Session) CopyFacts(ctx context.Context, rows []schema.FactRow) (int64, error) {
	vals := make([][]any, len(rows))
	for i, f := range rows {
		vals[i] = f.Values()
	}
	n, err := s.tx.CopyFrom(ctx,
		pgx.Identifier{schema.FactTable}, schema.FactColumns, pgx.CopyFromRows(vals))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Detail != "" {
			return n, fmt.Errorf("copy songplays: %s (%s)", pgErr.Detail, pgErr.SQLState())
		}
		return n, fmt.Errorf("copy songplays: %w", err)
	}
	return n, nil
}

// Commit commits the file's transaction and releases the connection.
func (s *Session) Commit(ctx context.Context) error {
	if s.done {
		return nil
	}
	s.done = true
	err := s.tx.Commit(ctx)
	s.conn.Release()
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Rollback aborts the file's transaction and releases the connection. It is
// safe to call after Commit; the later call is a no-op.
func (s *Session) Rollback(ctx context.Context) error {
	if s.done {
		return nil
	}
	s.done = true
	err := s.tx.Rollback(ctx)
	s.conn.Release()
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}
