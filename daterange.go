package searchconsole

import (
	"fmt"
	"strings"
	"time"
)

// dateLayout is the wire format for Search Analytics dates.
const dateLayout = "2006-01-02"

// Relative date keywords accepted wherever a date string is expected.
// They resolve against the clock when the range call is made, not when the
// query was first constructed, so long-lived base queries stay current.
const (
	Today     = "today"
	Yesterday = "yesterday"
)

// dateLayouts are the string formats accepted for literal dates, tried in
// order.
var dateLayouts = []string{
	dateLayout,
	"2006/01/02",
	time.RFC3339,
}

// DateRange is a normalised pair of calendar dates with Start <= End.
// Values are UTC midnights; only the calendar date is significant.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// IsZero returns true if the range has not been set.
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// ResolveDateRange turns heterogeneous date inputs into a DateRange.
//
// start and stop accept ISO dates ("2024-01-31"), "today" or "yesterday".
// When stop is empty it is derived from start by applying the month offset
// first and the day offset second; month overflow normalises forward, so
// Jan 31 plus one month lands on Mar 2 or Mar 3 depending on the year.
// Offsets may be negative. The output is ordered so Start <= End regardless
// of the direction the offsets point.
//
// Combining an explicit stop with a nonzero offset is a configuration
// error and returns ErrInvalidDate.
func ResolveDateRange(start, stop string, days, months int) (DateRange, error) {
	return resolveDateRange(time.Now(), start, stop, days, months)
}

func resolveDateRange(now time.Time, start, stop string, days, months int) (DateRange, error) {
	if start == "" {
		return DateRange{}, fmt.Errorf("%w: start date is required", ErrInvalidDate)
	}

	s, err := parseDate(now, start)
	if err != nil {
		return DateRange{}, err
	}

	var e time.Time
	if stop != "" {
		if days != 0 || months != 0 {
			return DateRange{}, fmt.Errorf(
				"%w: explicit stop date cannot be combined with day or month offsets", ErrInvalidDate)
		}
		e, err = parseDate(now, stop)
		if err != nil {
			return DateRange{}, err
		}
	} else {
		// Months before days. Kept as two steps so the order is explicit
		// rather than an artefact of AddDate normalisation.
		e = s.AddDate(0, months, 0).AddDate(0, 0, days)
	}

	if e.Before(s) {
		s, e = e, s
	}

	return DateRange{Start: s, End: e}, nil
}

// parseDate resolves a single date string against the given clock.
func parseDate(now time.Time, in string) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(in)) {
	case Today:
		return midnightUTC(now), nil
	case Yesterday:
		return midnightUTC(now.AddDate(0, 0, -1)), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, in); err == nil {
			return midnightUTC(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: cannot parse %q", ErrInvalidDate, in)
}

// midnightUTC truncates a time to its calendar date in UTC.
func midnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
