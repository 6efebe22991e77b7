package tempo

import (
	"fmt"

	"github.com/govalues/decimal"
	"github.com/rickb777/period"
)

// Period returns d as an ISO 8601 period.
// Milliseconds, microseconds and nanoseconds are added to the seconds, as
// a fraction with up to nine digits.
//
// Period returns an error if d is invalid or its seconds do not fit into
// a decimal.
func (d Duration) Period() (period.Period, error) {
	p, err := d.period()
	if err != nil {
		return period.Period{}, fmt.Errorf("converting %v to period: %w", d.fields(), err)
	}
	return p, nil
}

func (d Duration) period() (period.Period, error) {
	if err := d.Validate(); err != nil {
		return period.Period{}, err
	}
	var ymwdhm [6]decimal.Decimal
	for i, v := range [...]int64{d.Years, d.Months, d.Weeks, d.Days, d.Hours, d.Minutes} {
		f, err := decimal.New(v, 0)
		if err != nil {
			return period.Period{}, err
		}
		ymwdhm[i] = f
	}
	t, err := NewTimeDuration(0, 0, d.Seconds, d.Milliseconds, d.Microseconds, d.Nanoseconds)
	if err != nil {
		return period.Period{}, err
	}
	s, err := t.Seconds()
	if err != nil {
		return period.Period{}, err
	}
	return period.NewDecimal(ymwdhm[0], ymwdhm[1], ymwdhm[2], ymwdhm[3], ymwdhm[4], ymwdhm[5], s)
}

// DurationFromPeriod converts an ISO 8601 period to a duration.
// A fraction is allowed only in hours, minutes or seconds, and is
// balanced into the smaller clock units.
//
// DurationFromPeriod returns an error if:
//   - years, months, weeks or days have a fraction;
//   - the fraction of seconds has more than nine digits;
//   - the result is not a valid duration.
func DurationFromPeriod(p period.Period) (Duration, error) {
	d, err := durationFromPeriod(p)
	if err != nil {
		return Duration{}, fmt.Errorf("converting %v to duration: %w", p, err)
	}
	return d, nil
}

func durationFromPeriod(p period.Period) (Duration, error) {
	var r Duration
	dates := [...]struct {
		value decimal.Decimal
		field *int64
	}{
		{p.YearsDecimal(), &r.Years},
		{p.MonthsDecimal(), &r.Months},
		{p.WeeksDecimal(), &r.Weeks},
		{p.DaysDecimal(), &r.Days},
	}
	for _, f := range dates {
		if !f.value.IsInt() {
			return Duration{}, rangeError("fractional %v", f.value)
		}
		v, _, ok := f.value.Int64(0)
		if !ok {
			return Duration{}, rangeError("field %v overflows", f.value)
		}
		*f.field = v
	}

	// Whole clock fields, and the fraction of the smallest one in nanoseconds.
	var frac int64
	clock := [...]struct {
		value decimal.Decimal
		unit  int64
		field *int64
	}{
		{p.HoursDecimal(), nsPerHour, &r.Hours},
		{p.MinutesDecimal(), nsPerMinute, &r.Minutes},
		{p.SecondsDecimal(), nsPerSecond, &r.Seconds},
	}
	for _, f := range clock {
		whole := f.value.Trunc(0)
		v, _, ok := whole.Int64(0)
		if !ok {
			return Duration{}, rangeError("field %v overflows", f.value)
		}
		*f.field = v
		if f.value.IsInt() {
			continue
		}
		if f.unit == nsPerSecond && f.value.Scale() > 9 {
			return Duration{}, rangeError("fraction of %v seconds has more than 9 digits", f.value)
		}
		ns, err := fractionNanoseconds(f.value, whole, f.unit)
		if err != nil {
			return Duration{}, err
		}
		frac += ns
	}
	r.Minutes += frac / nsPerMinute
	frac %= nsPerMinute
	r.Seconds += frac / nsPerSecond
	frac %= nsPerSecond
	r.Milliseconds = frac / nsPerMillisecond
	r.Microseconds = frac / nsPerMicrosecond % 1000
	r.Nanoseconds = frac % 1000

	if err := r.Validate(); err != nil {
		return Duration{}, err
	}
	return r, nil
}

// fractionNanoseconds returns the fraction of v in nanoseconds, truncated.
func fractionNanoseconds(v, whole decimal.Decimal, unit int64) (int64, error) {
	f, err := v.Sub(whole)
	if err != nil {
		return 0, err
	}
	u, err := decimal.New(unit, 0)
	if err != nil {
		return 0, err
	}
	if f, err = f.Mul(u); err != nil {
		return 0, err
	}
	ns, _, ok := f.Trunc(0).Int64(0)
	if !ok {
		return 0, rangeError("fraction %v overflows", f)
	}
	return ns, nil
}

// ParseDuration converts an ISO 8601 duration string, for example
// "P1Y2M3DT4H5M6.5S" or "-PT90M", to a duration.
//
// ParseDuration returns an error if the string is malformed or the duration
// is invalid.
func ParseDuration(s string) (Duration, error) {
	p, err := period.Parse(s)
	if err != nil {
		return Duration{}, fmt.Errorf("parsing duration: %w: %w", ErrType, err)
	}
	d, err := durationFromPeriod(p)
	if err != nil {
		return Duration{}, fmt.Errorf("parsing duration %q: %w", s, err)
	}
	return d, nil
}

// MustParseDuration is like [ParseDuration] but panics if the string cannot
// be parsed.
// It simplifies safe initialization of global variables holding durations.
func MustParseDuration(s string) Duration {
	d, err := ParseDuration(s)
	if err != nil {
		panic(fmt.Sprintf("ParseDuration(%q) failed: %v", s, err))
	}
	return d
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
// See also function [ParseDuration].
//
// [encoding.TextUnmarshaler]: https://pkg.go.dev/encoding#TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	*d, err = ParseDuration(string(text))
	return err
}

// MarshalText implements the [encoding.TextMarshaler] interface.
// See also method [Duration.Period].
//
// [encoding.TextMarshaler]: https://pkg.go.dev/encoding#TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	p, err := d.Period()
	if err != nil {
		return nil, err
	}
	return []byte(p.String()), nil
}
