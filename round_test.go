package tempo

import (
	"errors"
	"math"
	"testing"
)

func TestRoundRelativeDuration(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []struct {
			dt1, dt2 string
			opts     RoundingOptions
			want     DateDuration
		}{
			{"2024-01-01", "2024-12-31T18:00", RoundingOptions{Year, Day, 1, HalfExpand}, DateDuration{Years: 1}},
			{"2024-01-01", "2024-12-31T18:00", RoundingOptions{Year, Day, 1, Trunc}, DateDuration{Months: 11, Days: 30}},
			{"2024-01-01", "2024-08-01", RoundingOptions{Month, Month, 3, HalfExpand}, DateDuration{Months: 6}},
			{"2024-01-01", "2024-09-01", RoundingOptions{Month, Month, 3, HalfExpand}, DateDuration{Months: 9}},
			{"2024-08-01", "2024-01-01", RoundingOptions{Month, Month, 3, HalfExpand}, DateDuration{Months: -6}},
			{"2024-01-01", "2025-06-01", RoundingOptions{Year, Year, 1, HalfEven}, DateDuration{Years: 1}},
			{"2024-01-01", "2025-08-01", RoundingOptions{Year, Year, 1, HalfEven}, DateDuration{Years: 2}},
		}
		for _, tt := range tests {
			dt1, dt2 := MustParseISODateTime(tt.dt1), MustParseISODateTime(tt.dt2)
			d, err := DifferenceISODateTime(dt1, dt2, ISO8601, tt.opts.LargestUnit)
			if err != nil {
				t.Errorf("DifferenceISODateTime(%v, %v) failed: %v", dt1, dt2, err)
				continue
			}
			got, err := RoundRelativeDuration(d, dt2.utcEpochNanoseconds(), dt1, nil, ISO8601, tt.opts)
			if err != nil {
				t.Errorf("RoundRelativeDuration(%v, %+v) failed: %v", d, tt.opts, err)
				continue
			}
			if got.Date() != tt.want || !got.Time().IsZero() {
				t.Errorf("RoundRelativeDuration(%v, %+v) = %v, want %+v", d, tt.opts, got, tt.want)
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		dt := MustParseISODateTime("2024-01-01")
		d := InternalDuration{date: DateDuration{Days: 1}}
		tests := map[string]struct {
			cal  Calendar
			opts RoundingOptions
			want error
		}{
			"increment": {ISO8601, RoundingOptions{Day, Day, 0, HalfExpand}, ErrRange},
			"units":     {ISO8601, RoundingOptions{Day, Auto, 1, HalfExpand}, ErrType},
			"calendar":  {nil, RoundingOptions{Day, Day, 1, HalfExpand}, ErrType},
		}
		for name, tt := range tests {
			t.Run(name, func(t *testing.T) {
				_, err := RoundRelativeDuration(d, dt.utcEpochNanoseconds(), dt, nil, tt.cal, tt.opts)
				if !errors.Is(err, tt.want) {
					t.Errorf("RoundRelativeDuration(%+v) = %v, want %v", tt.opts, err, tt.want)
				}
			})
		}
	})
}

func TestTotalRelativeDuration(t *testing.T) {
	dt1, dt2 := MustParseISODateTime("2024-01-31"), MustParseISODateTime("2024-03-01")
	d, err := DifferenceISODateTime(dt1, dt2, ISO8601, Month)
	if err != nil {
		t.Fatalf("DifferenceISODateTime(%v, %v) failed: %v", dt1, dt2, err)
	}
	got, err := TotalRelativeDuration(d, dt2.utcEpochNanoseconds(), dt1, nil, ISO8601, Month)
	if err != nil {
		t.Fatalf("TotalRelativeDuration(%v) failed: %v", d, err)
	}
	if want := 32.0 / 31; math.Abs(got-want) > 1e-12 {
		t.Errorf("TotalRelativeDuration(%v) = %v, want %v", d, got, want)
	}

	if _, err := TotalRelativeDuration(d, dt2.utcEpochNanoseconds(), dt1, nil, ISO8601, Auto); !errors.Is(err, ErrType) {
		t.Errorf("TotalRelativeDuration(auto) = %v, want %v", err, ErrType)
	}
	if _, err := TotalRelativeDuration(d, dt2.utcEpochNanoseconds(), dt1, nil, nil, Month); !errors.Is(err, ErrType) {
		t.Errorf("TotalRelativeDuration(nil calendar) = %v, want %v", err, ErrType)
	}
}

func TestBubbleRelativeDuration(t *testing.T) {
	dt := MustParseISODateTime("2024-01-31")
	tests := []struct {
		d           InternalDuration
		nudged      string
		largestUnit Unit
		want        DateDuration
	}{
		// 11 months and 31 days after January 31 is the next January 31.
		{InternalDuration{date: DateDuration{Months: 11, Days: 31}}, "2025-01-31", Year, DateDuration{Years: 1}},
		{InternalDuration{date: DateDuration{Months: 11, Days: 31}}, "2025-01-31", Month, DateDuration{Months: 12}},
		{InternalDuration{date: DateDuration{Days: 29}}, "2024-02-29", Month, DateDuration{Months: 1}},
		{InternalDuration{date: DateDuration{Days: 28}}, "2024-02-28", Month, DateDuration{Days: 28}},
	}
	for _, tt := range tests {
		nudged := MustParseISODateTime(tt.nudged).utcEpochNanoseconds()
		got, err := bubbleRelativeDuration(1, tt.d, nudged, dt, nil, ISO8601, tt.largestUnit, Day)
		if err != nil {
			t.Errorf("bubbleRelativeDuration(%v, %v) failed: %v", tt.d, tt.largestUnit, err)
			continue
		}
		if got.Date() != tt.want {
			t.Errorf("bubbleRelativeDuration(%v, %v) = %v, want %+v", tt.d, tt.largestUnit, got, tt.want)
		}
	}
}
