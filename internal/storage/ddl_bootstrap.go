package storage

import (
	"context"
	"fmt"
	"sync"
)

// DDLBootstrapper applies a backend's authored DDL for the five warehouse
// tables via repo.Exec. Backends register their implementation for a given
// storage kind (e.g., "postgres") at init time, alongside their factory.
type DDLBootstrapper func(ctx context.Context, repo Repository) error

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBootstrapper{}
)

// RegisterDDL registers (or replaces) a DDLBootstrapper for the given storage
// kind. It is typically called from backend packages' init() functions.
func RegisterDDL(kind string, fn DDLBootstrapper) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// EnsureSchema locates the DDLBootstrapper for kind and invokes it. Callers
// do not need to know which backend they are using; they pass the kind from
// the pipeline config and the already-open Repository.
func EnsureSchema(ctx context.Context, kind string, repo Repository) error {
	ddlMu.RLock()
	fn, ok := ddlFns[kind]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("no DDL bootstrapper registered for storage.kind=%q", kind)
	}
	return fn(ctx, repo)
}
