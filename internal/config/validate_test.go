package config

import "testing"

func validPipeline() Pipeline {
	return Pipeline{
		Job: "sparkify",
		Source: Source{
			SongData: "data/song_data",
			LogData:  "data/log_data",
		},
		Storage: Storage{
			Kind: "postgres",
			DB:   DBConfig{DSN: "postgresql://localhost/sparkifydb"},
		},
	}
}

func countSeverity(issues []Issue, sev IssueSeverity) int {
	n := 0
	for _, iss := range issues {
		if iss.Severity == sev {
			n++
		}
	}
	return n
}

func TestValidatePipeline_validConfigHasNoErrors(t *testing.T) {
	issues := ValidatePipeline(validPipeline())
	if got := countSeverity(issues, SeverityError); got != 0 {
		t.Fatalf("errors = %d, want 0; issues: %v", got, issues)
	}
}

func TestValidatePipeline_missingFieldsAreErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Pipeline)
		path   string
	}{
		{"empty job", func(p *Pipeline) { p.Job = "" }, "job"},
		{"empty song_data", func(p *Pipeline) { p.Source.SongData = "" }, "source.song_data"},
		{"empty log_data", func(p *Pipeline) { p.Source.LogData = "" }, "source.log_data"},
		{"empty kind", func(p *Pipeline) { p.Storage.Kind = "" }, "storage.kind"},
		{"unknown kind", func(p *Pipeline) { p.Storage.Kind = "oracle" }, "storage.kind"},
		{"empty dsn", func(p *Pipeline) { p.Storage.DB.DSN = "" }, "storage.db.dsn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPipeline()
			tt.mutate(&p)
			issues := ValidatePipeline(p)
			found := false
			for _, iss := range issues {
				if iss.Severity == SeverityError && iss.Path == tt.path {
					found = true
				}
			}
			if !found {
				t.Fatalf("no error issue at %q; issues: %v", tt.path, issues)
			}
		})
	}
}

func TestValidatePipeline_sqliteWithoutAutoCreateWarns(t *testing.T) {
	p := validPipeline()
	p.Storage.Kind = "sqlite"
	p.Storage.DB.DSN = "sparkify.db"
	issues := ValidatePipeline(p)
	if got := countSeverity(issues, SeverityWarning); got != 1 {
		t.Fatalf("warnings = %d, want 1; issues: %v", got, issues)
	}
	if got := countSeverity(issues, SeverityError); got != 0 {
		t.Fatalf("errors = %d, want 0; issues: %v", got, issues)
	}
}

func TestIssue_ErrorString(t *testing.T) {
	iss := Issue{Severity: SeverityError, Path: "storage.kind", Message: "boom"}
	if got, want := iss.Error(), "error at storage.kind: boom"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}
