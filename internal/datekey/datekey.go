// Package datekey reduces timestamp-bearing values to calendar-day keys
// ("YYYY-MM-DD").  Keys are taken from the literal text of the value and are
// never shifted through a timezone conversion, so a ticket stored as
// "2025-06-18T23:30:00-05:00" stays on the 18th no matter where the server runs.
package datekey

import (
	"strconv"
	"strings"
	"time"
)

// Layout is the textual form of a date key.
const Layout = "2006-01-02"

// ToDateKey returns the calendar-day portion of value: everything before the
// "T" separator (or a space, as found in SQL DATETIME text).  It returns
// false when value is empty.
func ToDateKey(value string) (string, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", false
	}
	if i := strings.IndexAny(v, "T "); i >= 0 {
		v = v[:i]
	}
	if v == "" {
		return "", false
	}
	return v, true
}

// SameDay reports whether a and b carry the same non-empty date key.
func SameDay(a, b string) bool {
	ka, ok := ToDateKey(a)
	if !ok {
		return false
	}
	kb, ok := ToDateKey(b)
	return ok && ka == kb
}

// ToDisplayDate builds midnight of the keyed day in loc from the
// year/month/day triple.  A nil loc means time.Local.
func ToDisplayDate(value string, loc *time.Location) (time.Time, bool) {
	key, ok := ToDateKey(value)
	if !ok {
		return time.Time{}, false
	}
	parts := strings.Split(key, "-")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	y, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 1 || m > 12 {
		return time.Time{}, false
	}
	d, err := strconv.Atoi(parts[2])
	if err != nil || d < 1 || d > 31 {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, loc)
	if t.Day() != d {
		// 2025-02-30 and friends would otherwise roll into the next month
		return time.Time{}, false
	}
	return t, true
}

// FromTime is the key of t in its own location.
func FromTime(t time.Time) string {
	return t.Format(Layout)
}
