// Package ddl holds the authored MySQL schema for the songplays warehouse.
// Identifiers that collide with reserved words (`time`) are backtick-quoted,
// and TEXT-keyed columns use VARCHAR because MySQL cannot index bare TEXT.
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
		artist_id VARCHAR(64) PRIMARY KEY,
		name      VARCHAR(512) NOT NULL,
		location  VARCHAR(512),
		latitude  DOUBLE,
		longitude DOUBLE
	)`,
	`CREATE TABLE IF NOT EXISTS songs (
		song_id   VARCHAR(64) PRIMARY KEY,
		title     VARCHAR(512) NOT NULL,
		artist_id VARCHAR(64),
		year      INT,
		duration  DOUBLE,
		FOREIGN KEY (artist_id) REFERENCES artists (artist_id)
	)`,
	"CREATE TABLE IF NOT EXISTS `time` (" + `
		start_time DATETIME(3) PRIMARY KEY,
		hour       INT NOT NULL,
		day        INT NOT NULL,
		week       INT NOT NULL,
		month      INT NOT NULL,
		year       INT NOT NULL,
		weekday    INT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		user_id    VARCHAR(64) PRIMARY KEY,
		first_name VARCHAR(256),
		last_name  VARCHAR(256),
		gender     VARCHAR(8),
		level      VARCHAR(16)
	)`,
	`CREATE TABLE IF NOT EXISTS songplays (
		songplay_id BIGINT AUTO_INCREMENT PRIMARY KEY,
		start_time  DATETIME(3) NOT NULL,
		user_id     VARCHAR(64) NOT NULL,
		level       VARCHAR(16),
		song_id     VARCHAR(64),
		artist_id   VARCHAR(64),
		session_id  BIGINT,
		location    VARCHAR(512),
		user_agent  VARCHAR(1024),
		FOREIGN KEY (start_time) REFERENCES ` + "`time`" + ` (start_time),
		FOREIGN KEY (user_id) REFERENCES users (user_id),
		FOREIGN KEY (song_id) REFERENCES songs (song_id),
		FOREIGN KEY (artist_id) REFERENCES artists (artist_id)
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
