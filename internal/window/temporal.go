// Package window resolves temporal and spatial selection windows into the
// forms the query engine binds to table columns: half-open time intervals,
// day-count intervals and bounding polygons.
package window

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/nadc-tools/inquire/internal/catalog"
)

// ErrInvalidDateComponent is returned when a digit group of a partial date
// string is out of range. The wrapping message names the offending field.
var ErrInvalidDateComponent = errors.New("invalid date component")

// Granularity is the coarsest time unit specified by a partial date string.
type Granularity int

const (
	GranYear Granularity = iota
	GranMonth
	GranDay
	GranHour
	GranMinute
)

func (g Granularity) String() string {
	switch g {
	case GranYear:
		return "year"
	case GranMonth:
		return "month"
	case GranDay:
		return "day"
	case GranHour:
		return "hour"
	default:
		return "minute"
	}
}

// TimeWindow is a half-open interval [Start, End) where End is exactly one
// unit of the inferred granularity after Start.
type TimeWindow struct {
	Start, End  time.Time
	Granularity Granularity
}

// ResolveDate expands a partial date string of 4 to 12 decimal digits into a
// time window. Granularity is inferred from the digit count: 4 digits select
// a year, 6 a month, 8 a day, 10 an hour and 12 a minute. Hours are strictly
// 0-23; the historical tools accepted 24, which cannot carry into a day
// rollover, so it is rejected here.
func ResolveDate(date string, minYear int) (*TimeWindow, error) {
	n := len(date)
	if n < 4 {
		return nil, fmt.Errorf("%w: need at least a 4-digit year", ErrInvalidDateComponent)
	}
	if n > 12 || n%2 != 0 {
		return nil, fmt.Errorf("%w: date must be 4 to 12 digits (yyyy[MM[dd[hh[mm]]]])", ErrInvalidDateComponent)
	}

	group := func(from, to int, field string, lo, hi int) (int, error) {
		v, err := strconv.Atoi(date[from:to])
		if err != nil {
			return 0, fmt.Errorf("%w: %s %q is not numeric", ErrInvalidDateComponent, field, date[from:to])
		}
		if v < lo || v > hi {
			return 0, fmt.Errorf("%w: %s %d outside [%d,%d]", ErrInvalidDateComponent, field, v, lo, hi)
		}
		return v, nil
	}

	year, err := group(0, 4, "year", minYear, 9999)
	if err != nil {
		return nil, err
	}
	gran := GranYear
	month, day, hour, minute := 1, 1, 0, 0

	if n >= 6 {
		if month, err = group(4, 6, "month", 1, 12); err != nil {
			return nil, err
		}
		gran = GranMonth
	}
	if n >= 8 {
		if day, err = group(6, 8, "day", 1, 31); err != nil {
			return nil, err
		}
		gran = GranDay
	}
	if n >= 10 {
		if hour, err = group(8, 10, "hour", 0, 23); err != nil {
			return nil, err
		}
		gran = GranHour
	}
	if n == 12 {
		if minute, err = group(10, 12, "minute", 0, 59); err != nil {
			return nil, err
		}
		gran = GranMinute
	}

	start := time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC)
	// time.Date normalizes impossible calendar dates (February 31 becomes
	// March 3); a shifted day means the input named a day the month lacks.
	if start.Day() != day || start.Month() != time.Month(month) {
		return nil, fmt.Errorf("%w: day %d does not exist in %04d-%02d", ErrInvalidDateComponent, day, year, month)
	}

	var end time.Time
	switch gran {
	case GranYear:
		end = start.AddDate(1, 0, 0)
	case GranMonth:
		end = start.AddDate(0, 1, 0)
	case GranDay:
		end = start.AddDate(0, 0, 1)
	case GranHour:
		end = start.Add(time.Hour)
	default:
		end = start.Add(time.Minute)
	}

	return &TimeWindow{Start: start, End: end, Granularity: gran}, nil
}

// Timestamps renders the interval bounds in the archive's timestamp format.
func (w *TimeWindow) Timestamps() (string, string) {
	const layout = "2006-01-02 15:04:05"
	return w.Start.Format(layout), w.End.Format(layout)
}

// JulianBounds renders the interval as day counts since the profile epoch,
// for tables that store a continuous day-count column instead of timestamps.
func (w *TimeWindow) JulianBounds(p *catalog.Profile) (float64, float64) {
	return p.JulianDay(w.Start), p.JulianDay(w.End)
}
