// Package eventlog parses user-activity log files and projects each entry
// onto a typed Event.
//
// Log files are newline-delimited JSON objects, one event per line:
//
//	{"page":"NextSong","ts":1542241826796,"userId":"10",...}
//	{"page":"Home","ts":1542241830796,"userId":"10",...}
//
// The decoder preserves file order: events come out exactly as they appear in
// the input, which the pipeline relies on for its last-write-wins upsert
// semantics. Non-object top-level values are skipped rather than failing the
// file; an object that fails to decode is an error (malformed input is fatal
// for the containing file).
package eventlog

import (
	"encoding/json"
	"fmt"
	"io"

	"songplays/pkg/records"
)

// Event is one user-activity record. Missing scalar fields read as the
// type's zero value, per the record-source contract.
type Event struct {
	Page      string
	TS        int64 // epoch milliseconds
	UserID    string
	FirstName string
	LastName  string
	Gender    string
	Level     string
	Song      string
	Artist    string
	Length    float64
	SessionID int64
	Location  string
	UserAgent string
}

// Decoder wraps encoding/json.Decoder to provide an event-oriented API.
type Decoder struct {
	dec *json.Decoder
}

// NewDecoder constructs a Decoder reading NDJSON events from r.
func NewDecoder(r io.Reader) *Decoder {
	d := json.NewDecoder(r)
	// UseNumber so numeric identifiers survive as their literal form instead
	// of being forced through float64.
	d.UseNumber()
	return &Decoder{dec: d}
}

// Next reads the next event object. EOF is returned when the stream is
// exhausted. Top-level values that are not objects are skipped.
func (d *Decoder) Next() (Event, error) {
	for {
		var raw any
		if err := d.dec.Decode(&raw); err != nil {
			if err == io.EOF {
				return Event{}, io.EOF
			}
			return Event{}, fmt.Errorf("eventlog: decode: %w", err)
		}
		m, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		return fromRecord(records.Record(m)), nil
	}
}

// DecodeAll reads every event from r, preserving input order.
func DecodeAll(r io.Reader) ([]Event, error) {
	dec := NewDecoder(r)
	var out []Event
	for {
		ev, err := dec.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
}

// fromRecord projects the raw record onto the typed Event.
func fromRecord(rec records.Record) Event {
	return Event{
		Page:      rec.String("page"),
		TS:        rec.Int64("ts"),
		UserID:    rec.String("userId"),
		FirstName: rec.String("firstName"),
		LastName:  rec.String("lastName"),
		Gender:    rec.String("gender"),
		Level:     rec.String("level"),
		Song:      rec.String("song"),
		Artist:    rec.String("artist"),
		Length:    rec.Float64("length"),
		SessionID: rec.Int64("sessionId"),
		Location:  rec.String("location"),
		UserAgent: rec.String("userAgent"),
	}
}
