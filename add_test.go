package tempo

import (
	"errors"
	"fmt"
	"testing"
)

// internalOf parses an ISO 8601 duration into its calendar and clock parts.
func internalOf(s string) InternalDuration {
	d, err := MustParseDuration(s).Internal()
	if err != nil {
		panic(fmt.Sprintf("MustParseDuration(%q).Internal() failed: %v", s, err))
	}
	return d
}

func TestAddInstant(t *testing.T) {
	e := utcAt(2024, 3, 10, 7, 0)
	got, err := AddInstant(e, MustNewTimeDuration(-1, 0, 0, 0, 0, 0))
	if err != nil {
		t.Fatalf("AddInstant(%v) failed: %v", e, err)
	}
	if want := utcAt(2024, 3, 10, 6, 0); got != want {
		t.Errorf("AddInstant(%v, -1h) = %v, want %v", e, got, want)
	}
	if _, err := AddInstant(MaxEpochNanoseconds, MustNewTimeDuration(0, 0, 0, 0, 0, 1)); !errors.Is(err, ErrRange) {
		t.Errorf("AddInstant(max, 1ns) = %v, want %v", err, ErrRange)
	}
}

func TestAddDateTime(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []struct {
			dt, d    string
			overflow Overflow
			want     string
		}{
			{"2024-01-31", "P1M", Constrain, "2024-02-29T00:00:00"},
			{"2024-01-01T23:00", "PT2H", Constrain, "2024-01-02T01:00:00"},
			{"2024-03-01T00:30", "-PT1H", Constrain, "2024-02-29T23:30:00"},
			{"2024-01-31T12:00", "P1M1DT12H", Constrain, "2024-03-02T00:00:00"},
			{"2024-02-29", "P1Y", Constrain, "2025-02-28T00:00:00"},
			{"2024-02-29", "P4Y", RejectOverflow, "2028-02-29T00:00:00"},
			{"2024-01-01T00:00:00.999999999", "PT0.000000001S", RejectOverflow, "2024-01-01T00:00:01"},
			{"2024-05-05T05:05", "P0D", Constrain, "2024-05-05T05:05:00"},
		}
		for _, tt := range tests {
			dt := MustParseISODateTime(tt.dt)
			got, err := AddDateTime(dt, ISO8601, internalOf(tt.d), tt.overflow)
			if err != nil {
				t.Errorf("AddDateTime(%v, %v) failed: %v", tt.dt, tt.d, err)
				continue
			}
			if got.String() != tt.want {
				t.Errorf("AddDateTime(%v, %v) = %v, want %v", tt.dt, tt.d, got, tt.want)
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := map[string]struct {
			dt, d    string
			cal      Calendar
			overflow Overflow
			want     error
		}{
			"reject":   {"2024-01-31", "P1M", ISO8601, RejectOverflow, ErrRange},
			"max":      {"+275760-09-13", "PT24H", ISO8601, Constrain, ErrRange},
			"min":      {"-271821-04-20", "-P2D", ISO8601, Constrain, ErrRange},
			"calendar": {"2024-01-01", "P1D", nil, Constrain, ErrType},
		}
		for name, tt := range tests {
			t.Run(name, func(t *testing.T) {
				dt := MustParseISODateTime(tt.dt)
				_, err := AddDateTime(dt, tt.cal, internalOf(tt.d), tt.overflow)
				if !errors.Is(err, tt.want) {
					t.Errorf("AddDateTime(%v, %v) = %v, want %v", tt.dt, tt.d, err, tt.want)
				}
			})
		}
	})
}

func TestAddZonedDateTime(t *testing.T) {
	ny := MustLoadTimeZone("America/New_York")

	t.Run("success", func(t *testing.T) {
		tests := []struct {
			e    EpochNanoseconds
			tz   TimeZone
			d    string
			want EpochNanoseconds
		}{
			// 12:00 EST plus one local day is 12:00 EDT.
			{utcAt(2024, 3, 9, 17, 0), ny, "P1D", utcAt(2024, 3, 10, 16, 0)},
			{utcAt(2024, 3, 9, 17, 0), ny, "PT24H", utcAt(2024, 3, 10, 17, 0)},
			// 02:30 does not exist on the next day.
			{utcAt(2024, 3, 9, 7, 30), ny, "P1D", utcAt(2024, 3, 10, 7, 30)},
			{utcAt(2024, 11, 2, 16, 0), ny, "P1DT1H", utcAt(2024, 11, 3, 18, 0)},
			{utcAt(2024, 1, 31, 17, 0), ny, "P1M", utcAt(2024, 2, 29, 17, 0)},
			{utcAt(2024, 1, 31, 12, 0), UTC, "-P1D", utcAt(2024, 1, 30, 12, 0)},
		}
		for _, tt := range tests {
			got, err := AddZonedDateTime(tt.e, tt.tz, ISO8601, internalOf(tt.d), Constrain)
			if err != nil {
				t.Errorf("AddZonedDateTime(%v, %v, %v) failed: %v", tt.e.Time(), tt.tz.ID(), tt.d, err)
				continue
			}
			if got != tt.want {
				t.Errorf("AddZonedDateTime(%v, %v, %v) = %v, want %v", tt.e.Time(), tt.tz.ID(), tt.d, got.Time(), tt.want.Time())
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := map[string]struct {
			e        EpochNanoseconds
			tz       TimeZone
			d        string
			overflow Overflow
			want     error
		}{
			"instant":  {MaxEpochNanoseconds, UTC, "PT0.000000001S", Constrain, ErrRange},
			"date":     {MaxEpochNanoseconds, UTC, "P1D", Constrain, ErrRange},
			"reject":   {utcAt(2024, 1, 31, 17, 0), ny, "P1M", RejectOverflow, ErrRange},
			"timezone": {EpochNanoseconds{}, nil, "P1D", Constrain, ErrType},
		}
		for name, tt := range tests {
			t.Run(name, func(t *testing.T) {
				_, err := AddZonedDateTime(tt.e, tt.tz, ISO8601, internalOf(tt.d), tt.overflow)
				if !errors.Is(err, tt.want) {
					t.Errorf("AddZonedDateTime(%v, %v) = %v, want %v", tt.e, tt.d, err, tt.want)
				}
			})
		}
	})
}
