// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) causes the init functions of each concrete storage backend to run,
// which in turn register their factories and DDL bootstrappers with the
// storage package.
//
// In other words, importing this package makes the following storage kinds
// available at runtime:
//
//   - "postgres" (songplays/internal/storage/postgres)
//   - "sqlite"   (songplays/internal/storage/sqlite)
//   - "mysql"    (songplays/internal/storage/mysql)
//   - "mssql"    (songplays/internal/storage/mssql)
//
// Typical usage (in cmd/etl/main.go or a similar wiring layer):
//
//	import _ "songplays/internal/storage/all" // enable all built-in backends
//
//	repo, err := storage.New(ctx, storage.Config{Kind: spec.Storage.Kind, DSN: spec.Storage.DB.DSN})
//	defer repo.Close()
package all

import (
	_ "songplays/internal/storage/mssql"
	_ "songplays/internal/storage/mysql"
	_ "songplays/internal/storage/postgres"
	_ "songplays/internal/storage/sqlite"
)
