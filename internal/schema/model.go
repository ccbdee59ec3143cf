// Package schema defines the star-schema row model shared by the pipeline and
// the storage backends: four dimension tables (songs, artists, time, users)
// and the songplays fact table.
package schema

import "time"

// Table names in the target store.
const (
	SongTable   = "songs"
	ArtistTable = "artists"
	TimeTable   = "time"
	UserTable   = "users"
	FactTable   = "songplays"
)

// FactColumns is the ordered column list for the songplays bulk load. Every
// backend's fact table must declare these columns in this order (plus its own
// auto-generated surrogate key); CopyFacts sends values aligned to it.
var FactColumns = []string{
	"start_time",
	"user_id",
	"level",
	"song_id",
	"artist_id",
	"session_id",
	"location",
	"user_agent",
}

// SongRow is one row of the songs dimension, keyed by song_id.
type SongRow struct {
	SongID   string
	Title    string
	ArtistID string
	Year     int
	Duration float64
}

// ArtistRow is one row of the artists dimension, keyed by artist_id.
type ArtistRow struct {
	ArtistID  string
	Name      string
	Location  string
	Latitude  float64
	Longitude float64
}

// TimeRow is one row of the time dimension. Every attribute besides StartTime
// is a pure function of it; the row is safe to re-derive and re-upsert.
// Weekday uses Monday=0 .. Sunday=6 numbering.
type TimeRow struct {
	StartTime time.Time
	Hour      int
	Day       int
	Week      int
	Month     int
	Year      int
	Weekday   int
}

// UserRow is one row of the users dimension, keyed by user_id. Level is the
// subscription tier and may change across a user's history; the store applies
// last-write-wins on conflict.
type UserRow struct {
	UserID    string
	FirstName string
	LastName  string
	Gender    string
	Level     string
}

// FactRow is one songplay fact. SongID and ArtistID are nil when the event's
// song/artist/length triple did not resolve against the dimension catalog;
// the fact row is still written with null references.
type FactRow struct {
	StartTime time.Time
	UserID    string
	Level     string
	SongID    *string
	ArtistID  *string
	SessionID int64
	Location  string
	UserAgent string
}

// Values returns the row's values aligned to FactColumns.
func (f FactRow) Values() []any {
	return []any{
		f.StartTime,
		f.UserID,
		f.Level,
		nullable(f.SongID),
		nullable(f.ArtistID),
		f.SessionID,
		f.Location,
		f.UserAgent,
	}
}

func nullable(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
