// Package ddl holds the authored Postgres schema for the songplays warehouse:
// four dimension tables and the songplays fact table. The statements are
// idempotent (IF NOT EXISTS) so a bootstrap against an existing database is
// harmless.
package ddl

import (
	"context"
	"fmt"

	"songplays/internal/storage"
)

// Statements creates the warehouse tables in dependency order: artists before
// songs (artist foreign key), dimensions before the fact table.
var Statements = []string{
	`CREATE TABLE IF NOT EXISTS artists (
		artist_id TEXT PRIMARY KEY,
		name      TEXT NOT NULL,
		location  TEXT,
		latitude  DOUBLE PRECISION,
		longitude DOUBLE PRECISION
	)`,
	`CREATE TABLE IF NOT EXISTS songs (
		song_id   TEXT PRIMARY KEY,
		title     TEXT NOT NULL,
		artist_id TEXT REFERENCES artists (artist_id),
		year      INT,
		duration  DOUBLE PRECISION
	)`,
	`CREATE TABLE IF NOT EXISTS "time" (
		start_time TIMESTAMP PRIMARY KEY,
		hour       INT NOT NULL,
		day        INT NOT NULL,
		week       INT NOT NULL,
		month      INT NOT NULL,
		year       INT NOT NULL,
		weekday    INT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		user_id    TEXT PRIMARY KEY,
		first_name TEXT,
		last_name  TEXT,
		gender     TEXT,
		level      TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS songplays (
		songplay_id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		start_time  TIMESTAMP NOT NULL REFERENCES "time" (start_time),
		user_id     TEXT NOT NULL REFERENCES users (user_id),
		level       TEXT,
		song_id     TEXT REFERENCES songs (song_id),
		artist_id   TEXT REFERENCES artists (artist_id),
		session_id  BIGINT,
		location    TEXT,
		user_agent  TEXT
	)`,
}

// EnsureSchema applies every statement through repo.Exec.
func EnsureSchema(ctx context.Context, repo storage.Repository) error {
	for _, stmt := range Statements {
		if err := repo.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply DDL: %w", err)
		}
	}
	return nil
}
