// This adapter wires the Postgres backend into the storage-agnostic factory by
// registering a constructor at init time. The CLI (cmd/etl) and other callers
// can then obtain a Repository via storage.New(...) without importing this
// package directly.
//
// The adapter also reconciles method signatures between the storage.Repository
// interface and the concrete *postgres.Repository type, and registers a DDL
// bootstrapper so that callers can apply backend-specific DDL based only on
// the storage kind, without branching on the backend themselves.
package postgres

import (
	"context"

	"songplays/internal/storage"
	"songplays/internal/storage/postgres/ddl"
)

// newRepository is a test hook that points to NewRepository by default.
// Tests may replace this variable to avoid real DB connections.
var newRepository = NewRepository

// wrappedRepo implements storage.Repository by delegating to the concrete
// *postgres.Repository while providing a Close method that calls the close
// function returned by NewRepository.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

// Ensure wrappedRepo satisfies storage.Repository at compile time.
var _ storage.Repository = (*wrappedRepo)(nil)

// Begin adapts the concrete *Session to the storage.Session interface.
func (w *wrappedRepo) Begin(ctx context.Context) (storage.Session, error) {
	return w.Repository.Begin(ctx)
}

// Close implements storage.Repository.Close.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

// init registers the "postgres" backend with the storage factory and also
// registers its DDL bootstrapper. This keeps the wiring in one place and
// allows callers to remain backend-agnostic.
func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{DSN: cfg.DSN})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})

	storage.RegisterDDL("postgres", ddl.EnsureSchema)
}
