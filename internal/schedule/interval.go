package schedule

import (
	"fmt"
	"time"
)

// Range represents a half-open time interval [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

// IsValid reports whether the range has positive length.
func (r Range) IsValid() bool {
	return r.End.After(r.Start)
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) overlap. Intervals that only touch at a boundary
// (aEnd == bStart) do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// HasConflict reports whether the candidate range overlaps any of the
// existing ranges.
func HasConflict(candidate Range, existing []Range) bool {
	for _, r := range existing {
		if Overlaps(candidate.Start, candidate.End, r.Start, r.End) {
			return true
		}
	}
	return false
}

// NormalizeUTC converts a timestamp to UTC. Applied once at the request
// boundary so that all comparisons downstream work on absolute instants.
func NormalizeUTC(t time.Time) time.Time {
	return t.UTC()
}

// timestampLayouts are tried in order when parsing incoming timestamps.
// Layouts without a zone marker are interpreted as UTC.
var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a timestamp from a request. RFC3339 values keep
// their explicit offset (converted to UTC); values without a zone marker
// are treated as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q: expected RFC3339, YYYY-MM-DDTHH:MM:SS or YYYY-MM-DD", s)
}

// dateOnly truncates a timestamp to its calendar date in UTC.
func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ClippedDays clips [start, end) to the reporting window [from, to) and
// returns the number of whole days between the calendar dates of the
// clipped endpoints, clamped to a minimum of 0. Time-of-day is discarded
// before subtracting.
func ClippedDays(start, end, from, to time.Time) int {
	clippedStart := start
	if clippedStart.Before(from) {
		clippedStart = from
	}
	clippedEnd := end
	if clippedEnd.After(to) {
		clippedEnd = to
	}

	days := int(dateOnly(clippedEnd).Sub(dateOnly(clippedStart)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
