// Package dates normalises the day-first date strings found in the exports.
//
// Two shapes are recognised:
//
//	D/M/YY or D/M/YYYY      programme export (ParseProgrammeDate)
//	DD-MM-YYYY[ HH:MM]      site, PFSA and PSA exports (ParseStamp, DateOrSentinel)
package dates

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the rendering used for date-only values in reports.
const DateLayout = "2006-01-02"

// ClockLayout is the rendering used for values that carry a time of day.
const ClockLayout = "2006-01-02 15:04:05"

// Sentinel stands in for a date that is absent from the export.
var Sentinel = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// ErrMalformed is wrapped by every parse failure in this package.
var ErrMalformed = errors.New("malformed date")

// Stamp is a date that may carry a time of day, or may be empty.
type Stamp struct {
	Time     time.Time
	HasClock bool
	Valid    bool
}

// String renders an empty Stamp as "".
func (s Stamp) String() string {
	switch {
	case !s.Valid:
		return ""
	case s.HasClock:
		return s.Time.Format(ClockLayout)
	default:
		return s.Time.Format(DateLayout)
	}
}

// Before orders empty stamps ahead of every valid one.
func (s Stamp) Before(o Stamp) bool {
	if !s.Valid || !o.Valid {
		return !s.Valid && o.Valid
	}
	return s.Time.Before(o.Time)
}

// After reports whether s is strictly later than t. Empty stamps are never after anything.
func (s Stamp) After(t time.Time) bool {
	return s.Valid && s.Time.After(t)
}

// DateOf builds a date-only Stamp.
func DateOf(t time.Time) Stamp { return Stamp{Time: t, Valid: true} }

// FormatDate renders t as 2006-01-02.
func FormatDate(t time.Time) string { return t.Format(DateLayout) }

// ParseProgrammeDate parses "D/M/YY" or "D/M/YYYY". Two-digit years are
// taken to be in the 2000s; any other year token is used as written.
func ParseProgrammeDate(s string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("%w: %q: want D/M/Y", ErrMalformed, s)
	}
	year := parts[2]
	if len(year) == 2 {
		year = "20" + year
	}
	return civil(s, year, parts[1], parts[0])
}

// ParseStamp parses "DD-MM-YYYY" with an optional " HH:MM" suffix. An empty
// or all-blank string yields the zero Stamp and no error.
func ParseStamp(s string) (Stamp, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Stamp{}, nil
	}
	d, err := parseDashed(s, fields[0])
	if err != nil {
		return Stamp{}, err
	}
	if len(fields) == 1 {
		return DateOf(d), nil
	}

	hm := strings.Split(fields[1], ":")
	if len(hm) < 2 {
		return Stamp{}, fmt.Errorf("%w: %q: want HH:MM", ErrMalformed, s)
	}
	hour, err := strconv.Atoi(hm[0])
	if err != nil || hour < 0 || hour > 23 {
		return Stamp{}, fmt.Errorf("%w: %q: bad hour", ErrMalformed, s)
	}
	minute, err := strconv.Atoi(hm[1])
	if err != nil || minute < 0 || minute > 59 {
		return Stamp{}, fmt.Errorf("%w: %q: bad minute", ErrMalformed, s)
	}
	return Stamp{
		Time:     time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, time.UTC),
		HasClock: true,
		Valid:    true,
	}, nil
}

// DateOrSentinel returns Sentinel when s holds no token at all; otherwise the
// first token must be DD-MM-YYYY and any time of day is discarded.
func DateOrSentinel(s string) (time.Time, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Sentinel, nil
	}
	return parseDashed(s, fields[0])
}

// AddMonths moves t forward by n calendar months, clamping the day to the
// end of the target month (31 Jan + 1 month = 28 or 29 Feb).
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

func parseDashed(raw, tok string) (time.Time, error) {
	parts := strings.Split(tok, "-")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("%w: %q: want DD-MM-YYYY", ErrMalformed, raw)
	}
	return civil(raw, parts[2], parts[1], parts[0])
}

// civil builds a UTC midnight date and rejects out-of-range days and months
// instead of letting time.Date roll them over.
func civil(raw, ys, ms, ds string) (time.Time, error) {
	y, err := strconv.Atoi(ys)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: bad year", ErrMalformed, raw)
	}
	m, err := strconv.Atoi(ms)
	if err != nil || m < 1 || m > 12 {
		return time.Time{}, fmt.Errorf("%w: %q: bad month", ErrMalformed, raw)
	}
	d, err := strconv.Atoi(ds)
	if err != nil || d < 1 || d > daysIn(y, time.Month(m)) {
		return time.Time{}, fmt.Errorf("%w: %q: bad day", ErrMalformed, raw)
	}
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC), nil
}

func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
