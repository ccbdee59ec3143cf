package records

import (
	"encoding/json"
	"strings"
	"testing"
)

// decode is a test helper that decodes one JSON object the way the parsers
// do: with UseNumber enabled.
func decode(t *testing.T, s string) Record {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		t.Fatalf("decode %q: %v", s, err)
	}
	return Record(m)
}

func TestString_numericValuesReadAsStrings(t *testing.T) {
	rec := decode(t, `{"userId": 10, "name": "Sylvie", "empty": "", "null": null}`)

	if got, want := rec.String("userId"), "10"; got != want {
		t.Fatalf("String(userId) = %q, want %q", got, want)
	}
	if got, want := rec.String("name"), "Sylvie"; got != want {
		t.Fatalf("String(name) = %q, want %q", got, want)
	}
	if got := rec.String("empty"); got != "" {
		t.Fatalf("String(empty) = %q, want empty", got)
	}
	if got := rec.String("null"); got != "" {
		t.Fatalf("String(null) = %q, want empty", got)
	}
	if got := rec.String("absent"); got != "" {
		t.Fatalf("String(absent) = %q, want empty", got)
	}
}

func TestInt64_truncatesFractionalAndZeroesMissing(t *testing.T) {
	rec := decode(t, `{"ts": 1542241826796, "session": 583.0, "bad": "x"}`)

	if got, want := rec.Int64("ts"), int64(1542241826796); got != want {
		t.Fatalf("Int64(ts) = %d, want %d", got, want)
	}
	if got, want := rec.Int64("session"), int64(583); got != want {
		t.Fatalf("Int64(session) = %d, want %d", got, want)
	}
	if got := rec.Int64("bad"); got != 0 {
		t.Fatalf("Int64(bad) = %d, want 0", got)
	}
	if got := rec.Int64("absent"); got != 0 {
		t.Fatalf("Int64(absent) = %d, want 0", got)
	}
}

func TestFloat64_missingReadsAsZero(t *testing.T) {
	rec := decode(t, `{"length": 200.5}`)

	if got, want := rec.Float64("length"), 200.5; got != want {
		t.Fatalf("Float64(length) = %v, want %v", got, want)
	}
	if got := rec.Float64("absent"); got != 0 {
		t.Fatalf("Float64(absent) = %v, want 0", got)
	}
}

func TestHas(t *testing.T) {
	rec := decode(t, `{"a": 1, "b": null}`)
	if !rec.Has("a") {
		t.Fatalf("Has(a) = false, want true")
	}
	if rec.Has("b") {
		t.Fatalf("Has(b) = true, want false (null value)")
	}
	if rec.Has("c") {
		t.Fatalf("Has(c) = true, want false (absent)")
	}
}
