// Package config defines the canonical, JSON-serializable configuration model
// for the songplays ETL. It is intentionally small, explicit, and dependency-
// free so that pipelines can be loaded from disk (or other sources) and passed
// through the program without additional glue code.
//
// Design goals:
//
//  1. Stability: Changes to this package should be additive and backwards-
//     compatible whenever possible.
//  2. Clarity: Field names in Go mirror the JSON structure used in pipeline
//     files under configs/pipelines/*.json.
//  3. Minimalism: No third-party config libraries; decoding is performed by
//     the standard library.
//
// Example:
//
//	{
//	  "job":     "sparkify",
//	  "source":  { "song_data": "data/song_data", "log_data": "data/log_data" },
//	  "storage": { "kind": "postgres", "db": { "dsn": "postgresql://...", "auto_create_schema": true } }
//	}
package config

// Pipeline describes one full batch run in JSON. It is the top-level object
// decoded from a pipeline file (e.g., configs/pipelines/*.json).
type Pipeline struct {
	// Job identifies the run for metrics labeling and log lines.
	Job string `json:"job"`

	// Source locates the two input file trees.
	Source Source `json:"source"`

	// Storage describes the target relational store.
	Storage Storage `json:"storage"`
}

// Source locates the input data. Both trees are walked recursively for .json
// files; song_data is processed in full before log_data so that the song and
// artist dimensions exist when the log pipeline resolves fact references.
type Source struct {
	// SongData is the root of the song-metadata tree (one record per file).
	SongData string `json:"song_data"`

	// LogData is the root of the user-activity log tree (NDJSON per file).
	LogData string `json:"log_data"`
}

// Storage selects the sink used to persist dimension and fact rows.
type Storage struct {
	// Kind selects the storage backend: "postgres", "sqlite", "mysql", "mssql".
	Kind string `json:"kind"`

	// DB carries backend-agnostic connection options.
	DB DBConfig `json:"db"`
}

// DBConfig configures the database sink.
type DBConfig struct {
	// DSN is the connection string, in whatever form the selected backend's
	// driver expects (e.g., postgresql://... for pgx, a file path for sqlite).
	DSN string `json:"dsn"`

	// AutoCreateSchema applies the backend's authored DDL for the five
	// warehouse tables before processing begins. Existing tables are left
	// alone (CREATE TABLE IF NOT EXISTS semantics).
	AutoCreateSchema bool `json:"auto_create_schema"`
}
