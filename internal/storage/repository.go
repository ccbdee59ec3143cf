// Package storage contains the storage-agnostic contracts for the songplays
// warehouse: a Repository that opens per-file Sessions, the Session operations
// the pipeline issues (dimension upserts, the song/artist lookup, and the fact
// bulk load), and a factory through which backends register themselves at init
// time.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"songplays/internal/schema"
)

// Repository is a handle to the target store. Begin opens a Session bound to
// one transaction; the batch driver commits or rolls back exactly once per
// processed file, so a mid-file failure leaves no partial writes behind.
type Repository interface {
	Begin(ctx context.Context) (Session, error)

	// Exec executes an arbitrary statement outside any Session, typically DDL.
	Exec(ctx context.Context, sql string) error

	Close()
}

// Session is the per-file store capability handed to the pipeline. It is an
// explicit dependency passed in at call time, never a package-level handle.
// All writes issued through a Session become visible atomically at Commit.
type Session interface {
	// UpsertSong inserts or updates one songs row by song_id.
	UpsertSong(ctx context.Context, s schema.SongRow) error

	// UpsertArtist inserts or updates one artists row by artist_id.
	UpsertArtist(ctx context.Context, a schema.ArtistRow) error

	// UpsertTime inserts the derived calendar row for one event. Duplicate
	// start_time values are absorbed by the store's conflict handling; the
	// derived attributes are pure functions of the key, so no update is needed.
	UpsertTime(ctx context.Context, t schema.TimeRow) error

	// UpsertUser inserts or updates one users row by user_id. On conflict the
	// stored level is overwritten, so the last upsert issued for a user_id
	// within a Session determines the stored subscription tier.
	UpsertUser(ctx context.Context, u schema.UserRow) error

	// LookupSongArtist resolves a song/artist pair whose title, artist name,
	// and duration are all exactly equal to the arguments. No match returns
	// (nil, nil, nil): an unresolved reference is an expected outcome, not an
	// error.
	LookupSongArtist(ctx context.Context, title, artistName string, length float64) (songID, artistID *string, err error)

	// CopyFacts bulk-loads the accumulated fact rows in a single operation
	// and returns the number of rows written. Callers must not invoke it with
	// an empty slice; the pipeline skips the load entirely when no events
	// qualify.
	CopyFacts(ctx context.Context, rows []schema.FactRow) (int64, error)

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Config carries backend-agnostic connection settings for the factory.
type Config struct {
	// Kind selects the registered backend, e.g. "postgres".
	Kind string

	// DSN is passed through to the backend's driver unchanged.
	DSN string
}

// Factory constructs a Repository for one backend kind.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the Factory for the given storage kind.
// It is typically called from backend packages' init() functions; importing
// storage/all registers every built-in backend.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens a Repository for cfg.Kind. Callers remain backend-agnostic: they
// pass the kind from the pipeline config and never import a backend package
// directly.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unknown kind %q (registered: %v)", cfg.Kind, Kinds())
	}
	return f(ctx, cfg)
}

// Kinds returns the registered backend kinds in sorted order.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
