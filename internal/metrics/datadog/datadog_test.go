package datadog

import (
	"reflect"
	"testing"

	"songplays/internal/metrics"
)

func TestTranslateCounter(t *testing.T) {
	tests := []struct {
		name     string
		labels   metrics.Labels
		wantName string
		wantTags []string
		wantOK   bool
	}{
		{
			name:     "songplays_step_total",
			labels:   metrics.Labels{"job": "sparkify", "step": "logs", "status": "success"},
			wantName: "step.total",
			wantTags: []string{"step:logs", "status:success"},
			wantOK:   true,
		},
		{
			name:     "songplays_records_total",
			labels:   metrics.Labels{"job": "sparkify", "kind": "facts"},
			wantName: "records.total",
			wantTags: []string{"kind:facts"},
			wantOK:   true,
		},
		{
			name:     "songplays_files_total",
			labels:   metrics.Labels{"job": "sparkify"},
			wantName: "files.total",
			wantTags: nil,
			wantOK:   true,
		},
		{
			name:   "some_other_metric",
			labels: metrics.Labels{"step": "logs"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		gotName, gotTags, ok := translateCounter(tt.name, tt.labels)
		if ok != tt.wantOK {
			t.Errorf("%s: ok = %v, want %v", tt.name, ok, tt.wantOK)
			continue
		}
		if !ok {
			continue
		}
		if gotName != tt.wantName {
			t.Errorf("%s: name = %q, want %q", tt.name, gotName, tt.wantName)
		}
		if !reflect.DeepEqual(gotTags, tt.wantTags) {
			t.Errorf("%s: tags = %v, want %v", tt.name, gotTags, tt.wantTags)
		}
	}
}

func TestTranslateHistogram(t *testing.T) {
	name, tags, ok := translateHistogram("songplays_step_duration_seconds",
		metrics.Labels{"step": "songs", "status": "failure"})
	if !ok {
		t.Fatal("expected the duration family to translate")
	}
	if got, want := name, "step.duration.seconds"; got != want {
		t.Errorf("name = %q, want %q", got, want)
	}
	if got, want := tags, []string{"step:songs", "status:failure"}; !reflect.DeepEqual(got, want) {
		t.Errorf("tags = %v, want %v", got, want)
	}

	if _, _, ok := translateHistogram("songplays_records_total", nil); ok {
		t.Error("counter family must not translate as a histogram")
	}
}

func TestTagListSkipsAbsentKeys(t *testing.T) {
	got := tagList(metrics.Labels{"step": "logs", "status": ""}, "step", "status", "kind")
	if want := []string{"step:logs"}; !reflect.DeepEqual(got, want) {
		t.Errorf("tags = %v, want %v", got, want)
	}
}

func TestNewBackendRequiresAddr(t *testing.T) {
	if _, err := NewBackend(Config{}); err == nil {
		t.Fatal("expected an error for empty Addr")
	}
}
