// Package datekey converts between calendar dates and the canonical
// YYYY-MM-DD string keys used throughout the store.
//
// Keys are derived from local calendar fields, never UTC, so a task added
// late in the evening lands on the day the user actually saw. Lexicographic
// ordering of keys coincides with chronological ordering.
package datekey

import (
	"fmt"
	"time"
)

// Key is a canonical YYYY-MM-DD calendar-day identifier.
//
// Equality is string equality. Keys sort lexicographically in
// chronological order.
type Key string

// Layout is the time.Format layout producing a Key.
const Layout = "2006-01-02"

// Format returns the Key for the calendar day containing t, using t's
// own location.
func Format(t time.Time) Key {
	return Key(fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day()))
}

// Today returns the Key for the current local calendar day of now.
func Today(now time.Time) Key {
	return Format(now.Local())
}

// Add advances k by delta calendar days (delta may be negative) and
// returns the resulting Key.
//
// The arithmetic operates on calendar fields at local midnight, so
// month and year boundaries (including leap days) are handled by the
// time package and daylight-saving transitions cannot shift the result
// by a day. If k is not a valid Key, Add returns k unchanged.
func Add(k Key, delta int) Key {
	t, err := time.ParseInLocation(Layout, string(k), time.Local)
	if err != nil {
		return k
	}
	return Format(t.AddDate(0, 0, delta))
}

// Valid reports whether k parses as a canonical YYYY-MM-DD key.
func Valid(k Key) bool {
	t, err := time.ParseInLocation(Layout, string(k), time.Local)
	if err != nil {
		return false
	}
	// time.Parse accepts some non-canonical spellings; require an exact
	// round-trip so "2024-1-05" and similar are rejected.
	return Format(t) == k
}
