package window

import (
	"errors"
	"testing"
	"time"

	"github.com/nadc-tools/inquire/internal/catalog"
)

func TestResolveDate(t *testing.T) {
	tests := []struct {
		name        string
		date        string
		start       time.Time
		end         time.Time
		granularity Granularity
		expectError bool
	}{
		{
			name:        "year",
			date:        "2013",
			start:       time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC),
			end:         time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC),
			granularity: GranYear,
		},
		{
			name:        "month",
			date:        "201211",
			start:       time.Date(2012, 11, 1, 0, 0, 0, 0, time.UTC),
			end:         time.Date(2012, 12, 1, 0, 0, 0, 0, time.UTC),
			granularity: GranMonth,
		},
		{
			name:        "december rolls into next year",
			date:        "201212",
			start:       time.Date(2012, 12, 1, 0, 0, 0, 0, time.UTC),
			end:         time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC),
			granularity: GranMonth,
		},
		{
			name:        "day",
			date:        "20121105",
			start:       time.Date(2012, 11, 5, 0, 0, 0, 0, time.UTC),
			end:         time.Date(2012, 11, 6, 0, 0, 0, 0, time.UTC),
			granularity: GranDay,
		},
		{
			name:        "hour",
			date:        "2012110523",
			start:       time.Date(2012, 11, 5, 23, 0, 0, 0, time.UTC),
			end:         time.Date(2012, 11, 6, 0, 0, 0, 0, time.UTC),
			granularity: GranHour,
		},
		{
			name:        "minute window is one minute wide",
			date:        "201211052359",
			start:       time.Date(2012, 11, 5, 23, 59, 0, 0, time.UTC),
			end:         time.Date(2012, 11, 6, 0, 0, 0, 0, time.UTC),
			granularity: GranMinute,
		},
		{
			name:        "hour 24 rejected",
			date:        "2012110524",
			expectError: true,
		},
		{
			name:        "february 31 rejected",
			date:        "20130231",
			expectError: true,
		},
		{
			name:        "february 29 rejected outside leap years",
			date:        "20130229",
			expectError: true,
		},
		{
			name:        "february 29 accepted in leap years",
			date:        "20120229",
			start:       time.Date(2012, 2, 29, 0, 0, 0, 0, time.UTC),
			end:         time.Date(2012, 3, 1, 0, 0, 0, 0, time.UTC),
			granularity: GranDay,
		},
		{
			name:        "month 13 rejected",
			date:        "201213",
			expectError: true,
		},
		{
			name:        "minute 60 rejected",
			date:        "201211051260",
			expectError: true,
		},
		{
			name:        "year before archive start",
			date:        "1999",
			expectError: true,
		},
		{
			name:        "too short",
			date:        "99",
			expectError: true,
		},
		{
			name:        "odd digit count",
			date:        "2012110",
			expectError: true,
		},
		{
			name:        "too long",
			date:        "20121105235959",
			expectError: true,
		},
		{
			name:        "non-numeric group",
			date:        "2012xx",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw, err := ResolveDate(tt.date, 2002)
			if tt.expectError {
				if !errors.Is(err, ErrInvalidDateComponent) {
					t.Fatalf("expected ErrInvalidDateComponent, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tw.Start.Equal(tt.start) {
				t.Errorf("start: expected %v, got %v", tt.start, tw.Start)
			}
			if !tw.End.Equal(tt.end) {
				t.Errorf("end: expected %v, got %v", tt.end, tw.End)
			}
			if tw.Granularity != tt.granularity {
				t.Errorf("granularity: expected %v, got %v", tt.granularity, tw.Granularity)
			}
		})
	}
}

func TestResolveDate_MinYearPerInstrument(t *testing.T) {
	// 1995 is valid for GOME but predates the SCIAMACHY archive.
	if _, err := ResolveDate("1995", 1995); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := ResolveDate("1995", 2002); !errors.Is(err, ErrInvalidDateComponent) {
		t.Errorf("expected ErrInvalidDateComponent, got %v", err)
	}
}

func TestTimestamps(t *testing.T) {
	tw, err := ResolveDate("2013", 2002)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	start, end := tw.Timestamps()
	if start != "2013-01-01 00:00:00" {
		t.Errorf("start: got %q", start)
	}
	if end != "2014-01-01 00:00:00" {
		t.Errorf("end: got %q", end)
	}
}

func TestJulianBounds(t *testing.T) {
	tw, err := ResolveDate("20020101", 2002)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lo, hi := tw.JulianBounds(catalog.SCIAMACHY())
	// 2002-01-01 is 731 days past the 2000-01-01 epoch (2000 is a leap year).
	if lo != 731 || hi != 732 {
		t.Errorf("expected [731,732], got [%g,%g]", lo, hi)
	}
}
