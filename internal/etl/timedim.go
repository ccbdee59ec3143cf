package etl

import (
	"fmt"
	"time"

	"songplays/internal/schema"
)

// TimeRowFromMillis derives every time-dimension attribute from an epoch
// millisecond timestamp. The derivation is deterministic in UTC; weekday uses
// Monday=0 .. Sunday=6 numbering and week is the ISO 8601 week number.
func TimeRowFromMillis(ms int64) (schema.TimeRow, error) {
	if ms <= 0 {
		return schema.TimeRow{}, fmt.Errorf("timestamp %d is not a positive epoch millisecond value", ms)
	}
	t := time.UnixMilli(ms).UTC()
	_, week := t.ISOWeek()
	return schema.TimeRow{
		StartTime: t,
		Hour:      t.Hour(),
		Day:       t.Day(),
		Week:      week,
		Month:     int(t.Month()),
		Year:      t.Year(),
		Weekday:   (int(t.Weekday()) + 6) % 7,
	}, nil
}
