// Package mssql implements a SQL Server-backed storage.Repository using the
// go-mssqldb driver. Dimension upserts are MERGE statements and the fact load
// uses the driver's bulk copy API inside the file's transaction.
package mssql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"

	"songplays/internal/schema"
)

// Config holds SQL Server repository configuration.
type Config struct {
	DSN string
}

// Repository is a SQL Server-backed implementation of storage.Repository.
type Repository struct {
	db *sql.DB
}

// NewRepository constructs a Repository and returns a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	// Validate DSN early to fail fast on obvious mistakes.
	if _, err := msdsn.Parse(cfg.DSN); err != nil {
		return nil, nil, fmt.Errorf("mssql dsn: %w", err)
	}
	db, err := sql.Open("sqlserver", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}
	closeFn := func() { _ = db.Close() }
	return &Repository{db: db}, closeFn, nil
}

// Exec executes a SQL statement against the pool.
func (r *Repository) Exec(ctx context.Context, sqlText string) error {
	_, err := r.db.ExecContext(ctx, sqlText)
	return err
}

// Begin opens the per-file transaction.
func (r *Repository) Begin(ctx context.Context) (*Session, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	return &Session{tx: tx}, nil
}

// Session is one per-file transaction against SQL Server.
type Session struct {
	tx   *sql.Tx
	done bool
}

const upsertSongSQL = `
MERGE songs WITH (HOLDLOCK) AS t
USING (SELECT @p1 AS song_id) AS s ON t.song_id = s.song_id
WHEN MATCHED THEN
    UPDATE SET title = @p2, artist_id = @p3, [year] = @p4, duration = @p5
WHEN NOT MATCHED THEN
    INSERT (song_id, title, artist_id, [year], duration)
    VALUES (@p1, @p2, @p3, @p4, @p5);`

const upsertArtistSQL = `
MERGE artists WITH (HOLDLOCK) AS t
USING (SELECT @p1 AS artist_id) AS s ON t.artist_id = s.artist_id
WHEN MATCHED THEN
    UPDATE SET name = @p2, location = @p3, latitude = @p4, longitude = @p5
WHEN NOT MATCHED THEN
    INSERT (artist_id, name, location, latitude, longitude)
    VALUES (@p1, @p2, @p3, @p4, @p5);`

const upsertTimeSQL = `
MERGE [time] WITH (HOLDLOCK) AS t
USING (SELECT @p1 AS start_time) AS s ON t.start_time = s.start_time
WHEN NOT MATCHED THEN
    INSERT (start_time, [hour], [day], week, [month], [year], weekday)
    VALUES (@p1, @p2, @p3, @p4, @p5, @p6, @p7);`

const upsertUserSQL = `
MERGE users WITH (HOLDLOCK) AS t
USING (SELECT @p1 AS user_id) AS s ON t.user_id = s.user_id
WHEN MATCHED THEN
    UPDATE SET [level] = @p5
WHEN NOT MATCHED THEN
    INSERT (user_id, first_name, last_name, gender, [level])
    VALUES (@p1, @p2, @p3, @p4, @p5);`

const lookupSongArtistSQL = `
SELECT s.song_id, a.artist_id
FROM songs s
JOIN artists a ON s.artist_id = a.artist_id
WHERE s.title = @p1 AND a.name = @p2 AND s.duration = @p3`

func (s *Session) UpsertSong(ctx context.Context, row schema.SongRow) error {
	if _, err := s.tx.ExecContext(ctx, upsertSongSQL,
		row.SongID, row.Title, row.ArtistID, row.Year, row.Duration); err != nil {
		return fmt.Errorf("mssql: upsert song: %w", err)
	}
	return nil
}

func (s *Session) UpsertArtist(ctx context.Context, row schema.ArtistRow) error {
	if _, err := s.tx.ExecContext(ctx, upsertArtistSQL,
		row.ArtistID, row.Name, row.Location, row.Latitude, row.Longitude); err != nil {
		return fmt.Errorf("mssql: upsert artist: %w", err)
	}
	return nil
}

func (s *Session) UpsertTime(ctx context.Context, row schema.TimeRow) error {
	if _, err := s.tx.ExecContext(ctx, upsertTimeSQL,
		row.StartTime, row.Hour, row.Day, row.Week, row.Month, row.Year, row.Weekday); err != nil {
		return fmt.Errorf("mssql: upsert time: %w", err)
	}
	return nil
}

func (s *Session) UpsertUser(ctx context.Context, row schema.UserRow) error {
	if _, err := s.tx.ExecContext(ctx, upsertUserSQL,
		row.UserID, row.FirstName, row.LastName, row.Gender, row.Level); err != nil {
		return fmt.Errorf("mssql: upsert user: %w", err)
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
		return nil, nil, fmt.Errorf("mssql: lookup song/artist: %w", err)
	}
	return &songID, &artistID, nil
}

// CopyFacts performs a bulk insert into songplays via the driver's CopyIn
// statement, streamed row by row and flushed with a final empty Exec.
func (s *Session) CopyFacts(ctx context.Context, rows []schema.FactRow) (int64, error) {
	stmt, err := s.tx.PrepareContext(ctx, mssql.CopyIn(schema.FactTable, mssql.BulkOptions{}, schema.FactColumns...))
	if err != nil {
		return 0, fmt.Errorf("prepare bulk: %w", err)
	}
	for i := range rows {
		if _, err := stmt.ExecContext(ctx, rows[i].Values()...); err != nil {
			_ = stmt.Close()
			return 0, fmt.Errorf("bulk row %d: %w", i, err)
		}
	}
	res, err := stmt.ExecContext(ctx)
	if cerr := stmt.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("bulk finalize: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// Commit commits the file's transaction.
func (s *Session) Commit(ctx context.Context) error {
	if s.done {
		return nil
	}
	s.done = true
	if err := s.tx.Commit(); err != nil {
		return fmt.Errorf("mssql: commit: %w", err)
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
		return fmt.Errorf("mssql: rollback: %w", err)
	}
	return nil
}
