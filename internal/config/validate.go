// This file adds a lightweight linter/validator for Pipeline values. It
// performs static checks over a decoded Pipeline and returns a list of issues
// (errors and warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// knownStorageKinds lists the backends compiled into the binary via
// internal/storage/all.
var knownStorageKinds = map[string]bool{
	"postgres": true,
	"sqlite":   true,
	"mysql":    true,
	"mssql":    true,
}

// Issue describes a single validation/lint finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "storage.kind",
// "source.log_data"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// ValidatePipeline performs static validation / linting of a Pipeline.
//
// It does not mutate the pipeline. Instead it returns a slice of Issue values.
// Callers may decide whether to treat warnings as fatal or not.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it is used for metrics labeling and identifying runs",
		})
	}
	issues = append(issues, validateSource(p.Source)...)
	issues = append(issues, validateStorage(p.Storage)...)

	return issues
}

// validateSource validates the input tree locations.
func validateSource(s Source) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.SongData) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.song_data",
			Message:  "song_data must point at the song-metadata tree",
		})
	}
	if strings.TrimSpace(s.LogData) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.log_data",
			Message:  "log_data must point at the activity-log tree",
		})
	}
	return issues
}

// validateStorage validates the storage selection and connection options.
func validateStorage(s Storage) []Issue {
	var issues []Issue

	kind := strings.TrimSpace(s.Kind)
	switch {
	case kind == "":
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  "storage.kind must be set (postgres, sqlite, mysql, mssql)",
		})
	case !knownStorageKinds[kind]:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q", kind),
		})
	}

	if strings.TrimSpace(s.DB.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.dsn",
			Message:  "dsn must not be empty",
		})
	}

	if kind == "sqlite" && !s.DB.AutoCreateSchema {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.db.auto_create_schema",
			Message:  "sqlite targets are usually throwaway files; consider auto_create_schema=true",
		})
	}

	return issues
}
