// Package bucket implements the fixed time buckets rows are keyed on:
// calendar day identifiers for retention and one-minute windows for rate
// limiting and activity counters.
package bucket

import "time"

// DayID returns the YYYYMMDD integer for t in t's location. Ingestion and
// purge both pass server wall clock, so row buckets and cutoffs agree
func DayID(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// DayIDAgo returns the DayID of now minus days. Day arithmetic goes through
// time.AddDate, never integer subtraction on the YYYYMMDD form
func DayIDAgo(now time.Time, days int) int {
	return DayID(now.AddDate(0, 0, -days))
}

// Minute returns the UTC minute bucket for t (unix seconds / 60)
func Minute(t time.Time) int64 { return t.Unix() / 60 }

// NextMinuteStart returns the unix second at which the window after t opens
func NextMinuteStart(t time.Time) int64 { return (Minute(t) + 1) * 60 }
