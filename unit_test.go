package tempo

import (
	"errors"
	"testing"
)

func TestParseUnit(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []struct {
			s    string
			want Unit
		}{
			{"auto", Auto},
			{"nanosecond", Nanosecond},
			{"nanoseconds", Nanosecond},
			{"millisecond", Millisecond},
			{"hours", Hour},
			{"day", Day},
			{"days", Day},
			{"weeks", Week},
			{"month", Month},
			{"years", Year},
		}
		for _, tt := range tests {
			got, err := ParseUnit(tt.s)
			if err != nil {
				t.Errorf("ParseUnit(%q) failed: %v", tt.s, err)
				continue
			}
			if got != tt.want {
				t.Errorf("ParseUnit(%q) = %v, want %v", tt.s, got, tt.want)
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := []string{"", "Day", "fortnight", "ms"}
		for _, s := range tests {
			_, err := ParseUnit(s)
			if !errors.Is(err, ErrType) {
				t.Errorf("ParseUnit(%q) = %v, want %v", s, err, ErrType)
			}
		}
	})
}

func TestMustParseUnit(t *testing.T) {
	t.Run("panic", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("MustParseUnit(\"eon\") did not panic")
			}
		}()
		MustParseUnit("eon")
	})
}

func TestUnit_Predicates(t *testing.T) {
	tests := []struct {
		u                     Unit
		calendar, date, clock bool
	}{
		{Auto, false, false, false},
		{Nanosecond, false, false, true},
		{Second, false, false, true},
		{Hour, false, false, true},
		{Day, false, true, false},
		{Week, true, true, false},
		{Month, true, true, false},
		{Year, true, true, false},
	}
	for _, tt := range tests {
		if got := tt.u.IsCalendarUnit(); got != tt.calendar {
			t.Errorf("%v.IsCalendarUnit() = %v, want %v", tt.u, got, tt.calendar)
		}
		if got := tt.u.IsDateUnit(); got != tt.date {
			t.Errorf("%v.IsDateUnit() = %v, want %v", tt.u, got, tt.date)
		}
		if got := tt.u.IsTimeUnit(); got != tt.clock {
			t.Errorf("%v.IsTimeUnit() = %v, want %v", tt.u, got, tt.clock)
		}
	}
}

func TestUnit_Order(t *testing.T) {
	units := []Unit{Nanosecond, Microsecond, Millisecond, Second, Minute, Hour, Day, Week, Month, Year}
	for i := 1; i < len(units); i++ {
		if units[i] <= units[i-1] {
			t.Errorf("%v is not larger than %v", units[i], units[i-1])
		}
		if got := largerOfTwoUnits(units[i-1], units[i]); got != units[i] {
			t.Errorf("largerOfTwoUnits(%v, %v) = %v, want %v", units[i-1], units[i], got, units[i])
		}
	}
}

func TestRoundingOptions_Validate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []RoundingOptions{
			{LargestUnit: Day, SmallestUnit: Minute, Increment: 15},
			{LargestUnit: Year, SmallestUnit: Day, Increment: 5},
			{LargestUnit: Hour, SmallestUnit: Nanosecond, Increment: 500},
			{LargestUnit: Hour, SmallestUnit: Hour, Increment: 12, Mode: HalfEven},
			{LargestUnit: Month, SmallestUnit: Month, Increment: maxIncrement, Mode: Floor},
		}
		for _, opts := range tests {
			if err := opts.Validate(); err != nil {
				t.Errorf("%+v.Validate() failed: %v", opts, err)
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := map[string]struct {
			opts RoundingOptions
			want error
		}{
			"largest auto":       {RoundingOptions{SmallestUnit: Second, Increment: 1}, ErrType},
			"smallest auto":      {RoundingOptions{LargestUnit: Day, Increment: 1}, ErrType},
			"smallest > largest": {RoundingOptions{LargestUnit: Hour, SmallestUnit: Day, Increment: 1}, ErrRange},
			"increment zero":     {RoundingOptions{LargestUnit: Day, SmallestUnit: Day}, ErrRange},
			"increment too big":  {RoundingOptions{LargestUnit: Day, SmallestUnit: Day, Increment: maxIncrement + 1}, ErrRange},
			"hours not divisor":  {RoundingOptions{LargestUnit: Day, SmallestUnit: Hour, Increment: 5}, ErrRange},
			"hours whole day":    {RoundingOptions{LargestUnit: Day, SmallestUnit: Hour, Increment: 24}, ErrRange},
			"minutes":            {RoundingOptions{LargestUnit: Hour, SmallestUnit: Minute, Increment: 7}, ErrRange},
			"milliseconds":       {RoundingOptions{LargestUnit: Hour, SmallestUnit: Millisecond, Increment: 1000}, ErrRange},
			"mode":               {RoundingOptions{LargestUnit: Hour, SmallestUnit: Hour, Increment: 1, Mode: 42}, ErrType},
		}
		for name, tt := range tests {
			t.Run(name, func(t *testing.T) {
				err := tt.opts.Validate()
				if !errors.Is(err, tt.want) {
					t.Errorf("%+v.Validate() = %v, want %v", tt.opts, err, tt.want)
				}
			})
		}
	})
}

func TestRoundingOptions_resolve(t *testing.T) {
	tests := []struct {
		opts           RoundingOptions
		defaultLargest Unit
		want           RoundingOptions
	}{
		{RoundingOptions{}, Second, RoundingOptions{LargestUnit: Second, SmallestUnit: Nanosecond, Increment: 1}},
		{RoundingOptions{SmallestUnit: Hour}, Day, RoundingOptions{LargestUnit: Day, SmallestUnit: Hour, Increment: 1}},
		{RoundingOptions{SmallestUnit: Month}, Day, RoundingOptions{LargestUnit: Month, SmallestUnit: Month, Increment: 1}},
		{RoundingOptions{LargestUnit: Hour, Increment: 2, Mode: Ceil}, Day, RoundingOptions{LargestUnit: Hour, SmallestUnit: Nanosecond, Increment: 2, Mode: Ceil}},
	}
	for _, tt := range tests {
		got, err := tt.opts.resolve(tt.defaultLargest)
		if err != nil {
			t.Errorf("%+v.resolve(%v) failed: %v", tt.opts, tt.defaultLargest, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%+v.resolve(%v) = %+v, want %+v", tt.opts, tt.defaultLargest, got, tt.want)
		}
	}
}
