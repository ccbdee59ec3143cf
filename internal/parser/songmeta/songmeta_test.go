package songmeta

import (
	"strings"
	"testing"
)

const sampleSong = `{
  "song_id": "SOSF1", "title": "Test", "artist_id": "ART1",
  "year": 2000, "duration": 200.5,
  "artist_name": "A", "artist_location": "L",
  "artist_latitude": 1.0, "artist_longitude": 2.0
}`

func TestDecode_splitsSongAndArtist(t *testing.T) {
	song, artist, err := Decode(strings.NewReader(sampleSong))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got, want := song.SongID, "SOSF1"; got != want {
		t.Fatalf("SongID = %q, want %q", got, want)
	}
	if got, want := song.Title, "Test"; got != want {
		t.Fatalf("Title = %q, want %q", got, want)
	}
	if got, want := song.Year, 2000; got != want {
		t.Fatalf("Year = %d, want %d", got, want)
	}
	if got, want := song.Duration, 200.5; got != want {
		t.Fatalf("Duration = %v, want %v", got, want)
	}

	if got, want := artist.ArtistID, "ART1"; got != want {
		t.Fatalf("ArtistID = %q, want %q", got, want)
	}
	if got, want := artist.Name, "A"; got != want {
		t.Fatalf("Name = %q, want %q", got, want)
	}
	if got, want := artist.Latitude, 1.0; got != want {
		t.Fatalf("Latitude = %v, want %v", got, want)
	}
	if got, want := artist.Longitude, 2.0; got != want {
		t.Fatalf("Longitude = %v, want %v", got, want)
	}
}

func TestDecode_missingOptionalFieldsZeroValue(t *testing.T) {
	song, artist, err := Decode(strings.NewReader(`{"song_id":"S1","artist_id":"A1"}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if song.Year != 0 || song.Duration != 0 {
		t.Fatalf("song numerics not zero: %+v", song)
	}
	if artist.Name != "" || artist.Latitude != 0 {
		t.Fatalf("artist fields not zero: %+v", artist)
	}
}

func TestDecode_missingStructuralFieldsFail(t *testing.T) {
	cases := map[string]string{
		"no song_id":   `{"artist_id":"A1","title":"x"}`,
		"no artist_id": `{"song_id":"S1","title":"x"}`,
		"not json":     `]`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, _, err := Decode(strings.NewReader(in)); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}
