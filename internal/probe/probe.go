// Package probe profiles the two input file trees before a run: how many
// files and events they hold, which pages occur, and per-field fill rates and
// distinct-value counts. The output helps size a run and spot malformed data
// without touching the warehouse.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/zeebo/xxh3"
	"golang.org/x/text/unicode/norm"

	"songplays/internal/datasource/file"
	"songplays/pkg/records"
)

// Options configures a profile pass.
type Options struct {
	// SongData is the root of the song-metadata tree. Empty skips it.
	SongData string
	// LogData is the root of the activity-log tree. Empty skips it.
	LogData string
}

// FieldStats summarizes one field across every record in a tree.
type FieldStats struct {
	// Present counts records where the field is non-null and non-empty.
	Present int64 `json:"present"`
	// Distinct is the number of distinct values seen (hash-set based, so a
	// collision can undercount by one in pathological inputs).
	Distinct int64 `json:"distinct"`
	// NonNFC counts string values that are not in Unicode NFC form.
	NonNFC int64 `json:"non_nfc,omitempty"`

	seen map[uint64]struct{}
}

// TreeProfile summarizes one file tree.
type TreeProfile struct {
	Files   int64                  `json:"files"`
	Records int64                  `json:"records"`
	Fields  map[string]*FieldStats `json:"fields"`
}

// Profile is the full output of a probe pass.
type Profile struct {
	Songs *TreeProfile     `json:"songs,omitempty"`
	Logs  *TreeProfile     `json:"logs,omitempty"`
	Pages map[string]int64 `json:"pages,omitempty"`
}

// Trees profiles the configured song and log trees.
func Trees(ctx context.Context, opts Options) (*Profile, error) {
	p := &Profile{}
	if opts.SongData != "" {
		tp, _, err := profileTree(ctx, opts.SongData, nil)
		if err != nil {
			return nil, fmt.Errorf("songs: %w", err)
		}
		p.Songs = tp
	}
	if opts.LogData != "" {
		pages := map[string]int64{}
		tp, pages, err := profileTree(ctx, opts.LogData, pages)
		if err != nil {
			return nil, fmt.Errorf("logs: %w", err)
		}
		p.Logs = tp
		p.Pages = pages
	}
	return p, nil
}

// profileTree walks one tree and folds every JSON object into the running
// stats. When pages is non-nil the "page" field is additionally tallied as a
// distribution.
func profileTree(ctx context.Context, root string, pages map[string]int64) (*TreeProfile, map[string]int64, error) {
	paths, err := file.DiscoverJSON(root)
	if err != nil {
		return nil, nil, err
	}

	tp := &TreeProfile{Fields: map[string]*FieldStats{}}
	for _, path := range paths {
		r, err := file.NewLocal(path).Open(ctx)
		if err != nil {
			return nil, nil, err
		}
		err = scanObjects(r, func(rec records.Record) {
			tp.Records++
			foldRecord(tp.Fields, rec)
			if pages != nil {
				if page := rec.String("page"); page != "" {
					pages[page]++
				}
			}
		})
		r.Close()
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		tp.Files++
	}
	return tp, pages, nil
}

// scanObjects streams every top-level JSON object from r. Works for both the
// single-object song files and the NDJSON log files; non-object values are
// skipped.
func scanObjects(r io.Reader, fn func(records.Record)) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	for {
		var raw any
		if err := dec.Decode(&raw); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if m, ok := raw.(map[string]any); ok {
			fn(records.Record(m))
		}
	}
}

func foldRecord(fields map[string]*FieldStats, rec records.Record) {
	for key, val := range rec {
		fs := fields[key]
		if fs == nil {
			fs = &FieldStats{seen: map[uint64]struct{}{}}
			fields[key] = fs
		}
		if val == nil {
			continue
		}
		s := valueString(val)
		if s == "" {
			continue
		}
		fs.Present++
		if str, ok := val.(string); ok && !norm.NFC.IsNormalString(str) {
			fs.NonNFC++
		}
		h := xxh3.HashString(s)
		if _, dup := fs.seen[h]; !dup {
			fs.seen[h] = struct{}{}
			fs.Distinct++
		}
	}
}

// valueString renders a scalar for hashing. json.Number keeps its literal
// form so integer identifiers are not forced through float64.
func valueString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", t)
	}
}

// FieldNames returns the profiled field names in sorted order.
func (t *TreeProfile) FieldNames() []string {
	out := make([]string, 0, len(t.Fields))
	for k := range t.Fields {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
