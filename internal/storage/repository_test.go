package storage

import (
	"context"
	"testing"
)

// fakeRepo is a minimal Repository used to exercise the factory.
type fakeRepo struct{ dsn string }

func (f *fakeRepo) Begin(ctx context.Context) (Session, error) { return nil, nil }
func (f *fakeRepo) Exec(ctx context.Context, sql string) error { return nil }
func (f *fakeRepo) Close()                                     {}

func TestNew_unknownKind(t *testing.T) {
	_, err := New(context.Background(), Config{Kind: "definitely-not-registered"})
	if err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestRegisterAndNew(t *testing.T) {
	Register("fake-test-kind", func(ctx context.Context, cfg Config) (Repository, error) {
		return &fakeRepo{dsn: cfg.DSN}, nil
	})

	repo, err := New(context.Background(), Config{Kind: "fake-test-kind", DSN: "x"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	fr, ok := repo.(*fakeRepo)
	if !ok {
		t.Fatalf("repo type = %T, want *fakeRepo", repo)
	}
	if got, want := fr.dsn, "x"; got != want {
		t.Fatalf("dsn = %q, want %q", got, want)
	}
}

func TestEnsureSchema_noBootstrapperRegistered(t *testing.T) {
	err := EnsureSchema(context.Background(), "no-such-kind", &fakeRepo{})
	if err == nil {
		t.Fatalf("expected error when no bootstrapper is registered")
	}
}

func TestEnsureSchema_delegates(t *testing.T) {
	called := false
	RegisterDDL("fake-ddl-kind", func(ctx context.Context, repo Repository) error {
		called = true
		return nil
	})
	if err := EnsureSchema(context.Background(), "fake-ddl-kind", &fakeRepo{}); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if !called {
		t.Fatalf("bootstrapper was not invoked")
	}
}
