// Package songmeta parses song-metadata files: exactly one flat JSON object
// per file describing a song and the artist who performed it.
//
// The same record feeds two dimension rows. A file missing its song_id or
// artist_id is structurally malformed and fails the decode; every other field
// falls back to its zero value per the record-source contract.
package songmeta

import (
	"encoding/json"
	"fmt"
	"io"

	"songplays/internal/schema"
	"songplays/pkg/records"
)

// Decode reads the single song-metadata record from r and splits it into its
// song and artist dimension rows.
func Decode(r io.Reader) (schema.SongRow, schema.ArtistRow, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return schema.SongRow{}, schema.ArtistRow{}, fmt.Errorf("songmeta: decode: %w", err)
	}
	rec := records.Record(raw)

	song := schema.SongRow{
		SongID:   rec.String("song_id"),
		Title:    rec.String("title"),
		ArtistID: rec.String("artist_id"),
		Year:     int(rec.Int64("year")),
		Duration: rec.Float64("duration"),
	}
	artist := schema.ArtistRow{
		ArtistID:  rec.String("artist_id"),
		Name:      rec.String("artist_name"),
		Location:  rec.String("artist_location"),
		Latitude:  rec.Float64("artist_latitude"),
		Longitude: rec.Float64("artist_longitude"),
	}

	if song.SongID == "" {
		return schema.SongRow{}, schema.ArtistRow{}, fmt.Errorf("songmeta: record has no song_id")
	}
	if song.ArtistID == "" {
		return schema.SongRow{}, schema.ArtistRow{}, fmt.Errorf("songmeta: record has no artist_id")
	}
	return song, artist, nil
}
