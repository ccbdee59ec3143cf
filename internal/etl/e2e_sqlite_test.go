package etl

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"songplays/internal/config"
	"songplays/internal/storage"
	_ "songplays/internal/storage/all"
)

// TestRunSQLiteEndToEnd drives the whole pipeline against a real SQLite file:
// schema bootstrap, one song-metadata file, one activity-log file, and then
// verifies the warehouse contents directly.
func TestRunSQLiteEndToEnd(t *testing.T) {
	songDir := t.TempDir()
	logDir := t.TempDir()
	dbPath := filepath.Join(t.TempDir(), "songplays.db")

	writeFile(t, songDir, "SOSF1.json",
		`{"song_id":"SOSF1","title":"Setanta matins","artist_id":"ART1","artist_name":"Elena",
		  "artist_location":"Dublin","artist_latitude":53.34,"artist_longitude":-6.26,
		  "year":0,"duration":269.58}`)

	writeFile(t, logDir, "2018-11-15-events.json",
		`{"page":"NextSong","ts":1542241826796,"userId":"10","firstName":"Sylvie","lastName":"Cruz","gender":"F","level":"free","song":"Setanta matins","artist":"Elena","length":269.58,"sessionId":101,"location":"San Francisco","userAgent":"Mozilla/5.0"}
{"page":"Home","ts":1542241830000,"userId":"10","firstName":"Sylvie","lastName":"Cruz","gender":"F","level":"free","sessionId":101,"location":"San Francisco","userAgent":"Mozilla/5.0"}
{"page":"NextSong","ts":1542242090796,"userId":"10","firstName":"Sylvie","lastName":"Cruz","gender":"F","level":"paid","song":"Unknown Tune","artist":"Nobody","length":12.34,"sessionId":101,"location":"San Francisco","userAgent":"Mozilla/5.0"}`)

	cfg := config.Pipeline{
		Job:    "e2e",
		Source: config.Source{SongData: songDir, LogData: logDir},
		Storage: config.Storage{
			Kind: "sqlite",
			DB:   config.DBConfig{DSN: dbPath, AutoCreateSchema: true},
		},
	}

	ctx := context.Background()
	repo, err := storage.New(ctx, storage.Config{Kind: cfg.Storage.Kind, DSN: cfg.Storage.DB.DSN})
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	if err := Run(ctx, cfg, repo); err != nil {
		repo.Close()
		t.Fatalf("Run: %v", err)
	}
	repo.Close()

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	var songs, artists, times, users, facts int
	for _, q := range []struct {
		sql  string
		dest *int
	}{
		{`SELECT COUNT(*) FROM songs`, &songs},
		{`SELECT COUNT(*) FROM artists`, &artists},
		{`SELECT COUNT(*) FROM "time"`, &times},
		{`SELECT COUNT(*) FROM users`, &users},
		{`SELECT COUNT(*) FROM songplays`, &facts},
	} {
		if err := db.QueryRow(q.sql).Scan(q.dest); err != nil {
			t.Fatalf("%s: %v", q.sql, err)
		}
	}
	if got, want := songs, 1; got != want {
		t.Errorf("songs = %d, want %d", got, want)
	}
	if got, want := artists, 1; got != want {
		t.Errorf("artists = %d, want %d", got, want)
	}
	if got, want := times, 2; got != want {
		t.Errorf("time rows = %d, want %d", got, want)
	}
	if got, want := users, 1; got != want {
		t.Errorf("users = %d, want %d", got, want)
	}
	if got, want := facts, 2; got != want {
		t.Errorf("songplays = %d, want %d", got, want)
	}

	// The later event carried level=paid; last write wins.
	var level string
	if err := db.QueryRow(`SELECT level FROM users WHERE user_id = '10'`).Scan(&level); err != nil {
		t.Fatalf("user level: %v", err)
	}
	if got, want := level, "paid"; got != want {
		t.Errorf("user 10 level = %q, want %q", got, want)
	}

	// The catalog match resolves; the unknown tune loads with null references.
	var resolved, unresolved int
	if err := db.QueryRow(
		`SELECT COUNT(*) FROM songplays WHERE song_id = 'SOSF1' AND artist_id = 'ART1'`,
	).Scan(&resolved); err != nil {
		t.Fatalf("resolved facts: %v", err)
	}
	if err := db.QueryRow(
		`SELECT COUNT(*) FROM songplays WHERE song_id IS NULL AND artist_id IS NULL`,
	).Scan(&unresolved); err != nil {
		t.Fatalf("unresolved facts: %v", err)
	}
	if got, want := resolved, 1; got != want {
		t.Errorf("resolved facts = %d, want %d", got, want)
	}
	if got, want := unresolved, 1; got != want {
		t.Errorf("null-reference facts = %d, want %d", got, want)
	}
}
