package schema

import (
	"testing"
	"time"
)

func TestFactRow_ValuesAlignWithFactColumns(t *testing.T) {
	sid := "SOSF1"
	aid := "ART1"
	row := FactRow{
		StartTime: time.Date(2018, 11, 15, 0, 30, 26, 0, time.UTC),
		UserID:    "10",
		Level:     "paid",
		SongID:    &sid,
		ArtistID:  &aid,
		SessionID: 583,
		Location:  "Chicago-Naperville-Elgin, IL-IN-WI",
		UserAgent: "Mozilla/5.0",
	}

	vals := row.Values()
	if got, want := len(vals), len(FactColumns); got != want {
		t.Fatalf("len(Values()) = %d, want %d (FactColumns)", got, want)
	}
	if got, want := vals[0], row.StartTime; got != want {
		t.Fatalf("vals[0] = %v, want start_time %v", got, want)
	}
	if got, want := vals[3], "SOSF1"; got != want {
		t.Fatalf("vals[3] = %v, want song_id %q", got, want)
	}
	if got, want := vals[5], int64(583); got != want {
		t.Fatalf("vals[5] = %v, want session_id %d", got, want)
	}
}

func TestFactRow_ValuesNullReferences(t *testing.T) {
	row := FactRow{UserID: "10"}
	vals := row.Values()
	if vals[3] != nil {
		t.Fatalf("song_id value = %v, want nil", vals[3])
	}
	if vals[4] != nil {
		t.Fatalf("artist_id value = %v, want nil", vals[4])
	}
}
