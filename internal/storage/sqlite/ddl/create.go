// Package ddl holds the authored SQLite schema for the songplays warehouse.
// SQLite stores timestamps as text; equality on start_time still holds
// because the driver formats identical time values identically.
package ddl

import (
	"context"
	"fmt"

	"songplays/internal/storage"
)

// Statements creates the warehouse tables in dependency order.
var Statements = []string{
	`CREATE TABLE IF NOT EXISTS artists (
		artist_id TEXT PRIMARY KEY,
		name      TEXT NOT NULL,
		location  TEXT,
		latitude  REAL,
		longitude REAL
	)`,
	`CREATE TABLE IF NOT EXISTS songs (
		song_id   TEXT PRIMARY KEY,
		title     TEXT NOT NULL,
		artist_id TEXT REFERENCES artists (artist_id),
		year      INTEGER,
		duration  REAL
	)`,
	`CREATE TABLE IF NOT EXISTS "time" (
		start_time TEXT PRIMARY KEY,
		hour       INTEGER NOT NULL,
		day        INTEGER NOT NULL,
		week       INTEGER NOT NULL,
		month      INTEGER NOT NULL,
		year       INTEGER NOT NULL,
		weekday    INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		user_id    TEXT PRIMARY KEY,
		first_name TEXT,
		last_name  TEXT,
		gender     TEXT,
		level      TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS songplays (
		songplay_id INTEGER PRIMARY KEY AUTOINCREMENT,
		start_time  TEXT NOT NULL REFERENCES "time" (start_time),
		user_id     TEXT NOT NULL REFERENCES users (user_id),
		level       TEXT,
		song_id     TEXT REFERENCES songs (song_id),
		artist_id   TEXT REFERENCES artists (artist_id),
		session_id  INTEGER,
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
