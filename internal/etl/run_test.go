package etl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"songplays/internal/config"
	"songplays/internal/storage"
)

// fakeRepo hands out one fakeSession per Begin so tests can inspect each
// file's transaction separately.
type fakeRepo struct {
	sessions []*fakeSession
	execs    []string
}

var _ storage.Repository = (*fakeRepo)(nil)

func (r *fakeRepo) Begin(ctx context.Context) (storage.Session, error) {
	s := newFakeSession()
	r.sessions = append(r.sessions, s)
	return s, nil
}

func (r *fakeRepo) Exec(ctx context.Context, sql string) error {
	r.execs = append(r.execs, sql)
	return nil
}

func (r *fakeRepo) Close() {}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func testConfig(songDir, logDir string) config.Pipeline {
	return config.Pipeline{
		Job: "test",
		Source: config.Source{
			SongData: songDir,
			LogData:  logDir,
		},
		Storage: config.Storage{Kind: "fake"},
	}
}

func TestRunCommitsEachFile(t *testing.T) {
	songDir := t.TempDir()
	logDir := t.TempDir()
	writeFile(t, songDir, "song1.json",
		`{"song_id":"SOA1","title":"One","artist_id":"AR1","artist_name":"Ann","year":1999,"duration":100.5}`)
	writeFile(t, songDir, "song2.json",
		`{"song_id":"SOA2","title":"Two","artist_id":"AR2","artist_name":"Ben","year":2001,"duration":200.25}`)
	writeFile(t, logDir, "events.json",
		`{"page":"NextSong","ts":1542241826796,"userId":"10","level":"free","song":"One","artist":"Ann","length":100.5,"sessionId":7,"location":"SF","userAgent":"ua"}`)

	repo := &fakeRepo{}
	if err := Run(context.Background(), testConfig(songDir, logDir), repo); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got, want := len(repo.sessions), 3; got != want {
		t.Fatalf("sessions = %d, want %d (one per file)", got, want)
	}
	for i, s := range repo.sessions {
		if !s.committed {
			t.Errorf("session %d not committed", i)
		}
		if s.rolledBack {
			t.Errorf("session %d rolled back", i)
		}
	}
	// Song files precede log files in the run order.
	if got, want := len(repo.sessions[0].songs), 1; got != want {
		t.Errorf("first session songs = %d, want %d", got, want)
	}
	if got, want := len(repo.sessions[2].facts), 1; got != want {
		t.Errorf("log session facts = %d, want %d", got, want)
	}
}

func TestRunRollsBackFailedFileAndAborts(t *testing.T) {
	songDir := t.TempDir()
	logDir := t.TempDir()
	writeFile(t, songDir, "a.json",
		`{"song_id":"SOA1","title":"One","artist_id":"AR1","artist_name":"Ann","year":1999,"duration":100.5}`)
	// Missing song_id makes the second file fail after the first committed.
	writeFile(t, songDir, "b.json",
		`{"song_id":"","title":"Broken","artist_id":"AR2","artist_name":"Ben","year":0,"duration":1}`)
	writeFile(t, songDir, "c.json",
		`{"song_id":"SOA3","title":"Three","artist_id":"AR3","artist_name":"Cat","year":0,"duration":1}`)

	repo := &fakeRepo{}
	err := Run(context.Background(), testConfig(songDir, logDir), repo)
	if err == nil {
		t.Fatal("expected run to fail on the malformed file")
	}

	if got, want := len(repo.sessions), 2; got != want {
		t.Fatalf("sessions = %d, want %d (run aborts at failure)", got, want)
	}
	if !repo.sessions[0].committed {
		t.Error("first file's session should have committed")
	}
	if !repo.sessions[1].rolledBack {
		t.Error("failed file's session should have rolled back")
	}
	if repo.sessions[1].committed {
		t.Error("failed file's session must not commit")
	}
}

func TestRunSkipsSchemaBootstrapByDefault(t *testing.T) {
	songDir := t.TempDir()
	logDir := t.TempDir()

	repo := &fakeRepo{}
	if err := Run(context.Background(), testConfig(songDir, logDir), repo); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got, want := len(repo.execs), 0; got != want {
		t.Errorf("DDL statements = %d, want %d", got, want)
	}
}
