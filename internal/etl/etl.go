// Package etl implements the song-play pipeline: song-metadata files feed the
// songs and artists dimensions; user-activity log files feed the time and
// users dimensions and the songplays fact table. All writes for one source
// file happen inside one storage session supplied by the caller.
package etl

import (
	"context"
	"fmt"
	"io"

	"songplays/internal/parser/eventlog"
	"songplays/internal/parser/songmeta"
	"songplays/internal/schema"
	"songplays/internal/storage"
)

// pageNextSong marks the playback events; every other page kind is excluded
// from loading.
const pageNextSong = "NextSong"

// LogSummary reports what one activity-log file contributed.
type LogSummary struct {
	// Events is the number of events decoded from the file.
	Events int64
	// Excluded counts events that produced no fact row: non-playback pages
	// plus playback events without a user id.
	Excluded int64
	// Unresolved counts loaded facts whose song/artist references are null.
	Unresolved int64
	// Facts is the number of fact rows bulk-loaded.
	Facts int64
	// Users is the number of user upserts issued (one per qualifying event).
	Users int64
}

// FilterNextSong returns the playback events in file order, leaving the input
// slice intact. The page predicate is the only batch-level filter; an event
// lacking a user id still carries a playable timestamp and is dropped later,
// at user projection and fact build.
func FilterNextSong(events []eventlog.Event) []eventlog.Event {
	out := make([]eventlog.Event, 0, len(events))
	for _, ev := range events {
		if ev.Page != pageNextSong {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// UserRowFromEvent projects the user attributes out of a playback event.
func UserRowFromEvent(ev eventlog.Event) schema.UserRow {
	return schema.UserRow{
		UserID:    ev.UserID,
		FirstName: ev.FirstName,
		LastName:  ev.LastName,
		Gender:    ev.Gender,
		Level:     ev.Level,
	}
}

// BuildFact assembles a fact row from a playback event and the resolved
// dimension references. songID and artistID may be nil.
func BuildFact(ev eventlog.Event, songID, artistID *string) (schema.FactRow, error) {
	tr, err := TimeRowFromMillis(ev.TS)
	if err != nil {
		return schema.FactRow{}, err
	}
	return schema.FactRow{
		StartTime: tr.StartTime,
		UserID:    ev.UserID,
		Level:     ev.Level,
		SongID:    songID,
		ArtistID:  artistID,
		SessionID: ev.SessionID,
		Location:  ev.Location,
		UserAgent: ev.UserAgent,
	}, nil
}

// ProcessSongFile loads one song-metadata file into the songs and artists
// dimensions. The artist row goes in first so the song's foreign key resolves.
func ProcessSongFile(ctx context.Context, sess storage.Session, r io.Reader) error {
	song, artist, err := songmeta.Decode(r)
	if err != nil {
		return err
	}
	if err := sess.UpsertArtist(ctx, artist); err != nil {
		return err
	}
	if err := sess.UpsertSong(ctx, song); err != nil {
		return err
	}
	return nil
}

// ProcessLogFile loads one activity-log file: time rows for every playback
// event, user rows in file order (latest level wins), then one bulk fact load
// for the whole file. User and fact rows additionally require a non-empty
// user id; time rows do not. The bulk load is skipped when no events qualify.
func ProcessLogFile(ctx context.Context, sess storage.Session, r io.Reader) (LogSummary, error) {
	events, err := eventlog.DecodeAll(r)
	if err != nil {
		return LogSummary{}, err
	}
	sum := LogSummary{Events: int64(len(events))}

	plays := FilterNextSong(events)
	sum.Excluded = sum.Events - int64(len(plays))
	if len(plays) == 0 {
		return sum, nil
	}

	for _, ev := range plays {
		tr, err := TimeRowFromMillis(ev.TS)
		if err != nil {
			return sum, fmt.Errorf("event at session %d: %w", ev.SessionID, err)
		}
		if err := sess.UpsertTime(ctx, tr); err != nil {
			return sum, err
		}
	}

	// File order matters here: a user appearing twice must end up with the
	// level from the later event.
	for _, ev := range plays {
		if ev.UserID == "" {
			sum.Excluded++
			continue
		}
		if err := sess.UpsertUser(ctx, UserRowFromEvent(ev)); err != nil {
			return sum, err
		}
		sum.Users++
	}

	facts := make([]schema.FactRow, 0, len(plays))
	for _, ev := range plays {
		if ev.UserID == "" {
			continue
		}
		songID, artistID, err := sess.LookupSongArtist(ctx, ev.Song, ev.Artist, ev.Length)
		if err != nil {
			return sum, err
		}
		if songID == nil {
			sum.Unresolved++
		}
		fact, err := BuildFact(ev, songID, artistID)
		if err != nil {
			return sum, fmt.Errorf("event at session %d: %w", ev.SessionID, err)
		}
		facts = append(facts, fact)
	}
	if len(facts) == 0 {
		return sum, nil
	}

	n, err := sess.CopyFacts(ctx, facts)
	if err != nil {
		return sum, err
	}
	sum.Facts = n
	return sum, nil
}
