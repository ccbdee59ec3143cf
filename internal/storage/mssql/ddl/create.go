// Package ddl holds the authored SQL Server schema for the songplays
// warehouse. Reserved identifiers ([time], [year], [level]) are bracketed,
// and each CREATE is guarded by an OBJECT_ID existence check.
package ddl

import (
	"context"
	"fmt"

	"songplays/internal/storage"
)

// Statements creates the warehouse tables in dependency order: artists before
// songs (artist foreign key), dimensions before the fact table.
var Statements = []string{
	`IF OBJECT_ID('artists', 'U') IS NULL
	CREATE TABLE artists (
		artist_id NVARCHAR(64) PRIMARY KEY,
		name      NVARCHAR(512) NOT NULL,
		location  NVARCHAR(512),
		latitude  FLOAT,
		longitude FLOAT
	)`,
	`IF OBJECT_ID('songs', 'U') IS NULL
	CREATE TABLE songs (
		song_id   NVARCHAR(64) PRIMARY KEY,
		title     NVARCHAR(512) NOT NULL,
		artist_id NVARCHAR(64) REFERENCES artists (artist_id),
		[year]    INT,
		duration  FLOAT
	)`,
	`IF OBJECT_ID('time', 'U') IS NULL
	CREATE TABLE [time] (
		start_time DATETIME2(3) PRIMARY KEY,
		[hour]     INT NOT NULL,
		[day]      INT NOT NULL,
		week       INT NOT NULL,
		[month]    INT NOT NULL,
		[year]     INT NOT NULL,
		weekday    INT NOT NULL
	)`,
	`IF OBJECT_ID('users', 'U') IS NULL
	CREATE TABLE users (
		user_id    NVARCHAR(64) PRIMARY KEY,
		first_name NVARCHAR(256),
		last_name  NVARCHAR(256),
		gender     NVARCHAR(8),
		[level]    NVARCHAR(16)
	)`,
	`IF OBJECT_ID('songplays', 'U') IS NULL
	CREATE TABLE songplays (
		songplay_id BIGINT IDENTITY(1,1) PRIMARY KEY,
		start_time  DATETIME2(3) NOT NULL REFERENCES [time] (start_time),
		user_id     NVARCHAR(64) NOT NULL REFERENCES users (user_id),
		[level]     NVARCHAR(16),
		song_id     NVARCHAR(64) REFERENCES songs (song_id),
		artist_id   NVARCHAR(64) REFERENCES artists (artist_id),
		session_id  BIGINT,
		location    NVARCHAR(512),
		user_agent  NVARCHAR(1024)
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
