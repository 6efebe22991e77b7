package tempo

import (
	"fmt"

	"github.com/govalues/tempo/f128"
)

// maxCalendarField is the exclusive bound of the years, months and weeks
// of a duration.
const maxCalendarField = 1 << 32

// DateDuration is a span of calendar units.
// All nonzero fields share one sign.
type DateDuration struct {
	Years  int64
	Months int64
	Weeks  int64
	Days   int64
}

// Sign returns the sign of the first nonzero field.
func (d DateDuration) Sign() int {
	for _, v := range [...]int64{d.Years, d.Months, d.Weeks, d.Days} {
		if v != 0 {
			return sign(v)
		}
	}
	return 0
}

// IsZero returns true if every field is zero.
func (d DateDuration) IsZero() bool {
	return d == DateDuration{}
}

// validate returns an error if the fields have mixed signs.
func (d DateDuration) validate() error {
	s := d.Sign()
	for _, v := range [...]int64{d.Years, d.Months, d.Weeks, d.Days} {
		if v != 0 && sign(v) != s {
			return rangeError("mixed-sign date duration %+v", d)
		}
	}
	return nil
}

// withDays returns a copy of d with the days replaced.
func (d DateDuration) withDays(days int64) DateDuration {
	d.Days = days
	return d
}

// InternalDuration is a span made of a calendar part and an exact
// clock part. The two parts never have opposite nonzero signs.
// Its zero value is a zero-length span.
type InternalDuration struct {
	date DateDuration
	time TimeDuration
}

// combineDateAndTimeDuration builds an internal duration from parts that
// are known to have consistent signs.
func combineDateAndTimeDuration(date DateDuration, t TimeDuration) InternalDuration {
	ds, ts := date.Sign(), t.Sign()
	assert(ds == 0 || ts == 0 || ds == ts, "mixed-sign duration")
	return InternalDuration{date: date, time: t}
}

// NewInternalDuration combines a calendar part and a clock part.
//
// NewInternalDuration returns an error wrapping [ErrRange] if the fields of
// the calendar part have mixed signs, or the parts have opposite signs.
func NewInternalDuration(date DateDuration, t TimeDuration) (InternalDuration, error) {
	if err := date.validate(); err != nil {
		return InternalDuration{}, fmt.Errorf("combining %+v and %v: %w", date, t, err)
	}
	ds, ts := date.Sign(), t.Sign()
	if ds != 0 && ts != 0 && ds != ts {
		return InternalDuration{}, fmt.Errorf("combining %+v and %v: %w", date, t, rangeError("parts have opposite signs"))
	}
	return InternalDuration{date: date, time: t}, nil
}

// Date returns the calendar part of d.
func (d InternalDuration) Date() DateDuration {
	return d.date
}

// Time returns the clock part of d.
func (d InternalDuration) Time() TimeDuration {
	return d.time
}

// Sign returns the sign of the calendar part, or of the clock part if the
// calendar part is zero.
func (d InternalDuration) Sign() int {
	if s := d.date.Sign(); s != 0 {
		return s
	}
	return d.time.Sign()
}

// IsZero returns true if both parts are zero.
func (d InternalDuration) IsZero() bool {
	return d.date.IsZero() && d.time.IsZero()
}

// String implements the [fmt.Stringer] interface.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (d InternalDuration) String() string {
	return fmt.Sprintf("%+v %v", d.date, d.time)
}

// Duration is a span of time expressed in ten units, as people write it:
// for example, 1 year, 2 months and 3 hours.
// All nonzero fields share one sign.
// Its zero value is a zero-length duration.
type Duration struct {
	Years        int64
	Months       int64
	Weeks        int64
	Days         int64
	Hours        int64
	Minutes      int64
	Seconds      int64
	Milliseconds int64
	Microseconds int64
	Nanoseconds  int64
}

func (d Duration) fields() [10]int64 {
	return [...]int64{
		d.Years, d.Months, d.Weeks, d.Days,
		d.Hours, d.Minutes, d.Seconds,
		d.Milliseconds, d.Microseconds, d.Nanoseconds,
	}
}

// Sign returns the sign of the first nonzero field.
func (d Duration) Sign() int {
	for _, v := range d.fields() {
		if v != 0 {
			return sign(v)
		}
	}
	return 0
}

// IsZero returns true if every field is zero.
func (d Duration) IsZero() bool {
	return d == Duration{}
}

// Neg returns d with the opposite sign.
func (d Duration) Neg() Duration {
	return Duration{
		-d.Years, -d.Months, -d.Weeks, -d.Days,
		-d.Hours, -d.Minutes, -d.Seconds,
		-d.Milliseconds, -d.Microseconds, -d.Nanoseconds,
	}
}

// Validate returns an error wrapping [ErrRange] if:
//   - the fields have mixed signs;
//   - years, months or weeks are 2^32 or more in magnitude;
//   - days and clock fields add up to 2^53 seconds or more.
func (d Duration) Validate() error {
	s := d.Sign()
	for _, v := range d.fields() {
		if v != 0 && sign(v) != s {
			return rangeError("mixed-sign duration %v", d.fields())
		}
	}
	if abs(d.Years) >= maxCalendarField || abs(d.Months) >= maxCalendarField || abs(d.Weeks) >= maxCalendarField {
		return rangeError("calendar field of %v is too large", d.fields())
	}
	if _, err := d.timeTotal(d.Days); err != nil {
		return fmt.Errorf("duration %v: %w", d.fields(), err)
	}
	return nil
}

// timeTotal returns the clock fields plus the given number of 24-hour days.
func (d Duration) timeTotal(days int64) (TimeDuration, error) {
	t, err := NewTimeDuration(d.Hours, d.Minutes, d.Seconds, d.Milliseconds, d.Microseconds, d.Nanoseconds)
	if err != nil {
		return TimeDuration{}, err
	}
	return t.Add24HourDays(days)
}

// Internal returns the calendar fields of d as the calendar part and the
// clock fields as the exact clock part.
func (d Duration) Internal() (InternalDuration, error) {
	if err := d.Validate(); err != nil {
		return InternalDuration{}, err
	}
	t, err := d.timeTotal(0)
	if err != nil {
		return InternalDuration{}, err
	}
	date := DateDuration{Years: d.Years, Months: d.Months, Weeks: d.Weeks, Days: d.Days}
	return combineDateAndTimeDuration(date, t), nil
}

// internalWith24HourDays is like [Duration.Internal] but folds the days
// into the clock part as 24-hour days.
func (d Duration) internalWith24HourDays() (InternalDuration, error) {
	if err := d.Validate(); err != nil {
		return InternalDuration{}, err
	}
	t, err := d.timeTotal(d.Days)
	if err != nil {
		return InternalDuration{}, err
	}
	date := DateDuration{Years: d.Years, Months: d.Months, Weeks: d.Weeks}
	return combineDateAndTimeDuration(date, t), nil
}

// DefaultLargestUnit returns the coarsest unit with a nonzero field, or
// [Nanosecond] for a zero duration.
func (d Duration) DefaultLargestUnit() Unit {
	f := d.fields()
	for i, v := range f {
		if v != 0 {
			return Year - Unit(i)
		}
	}
	return Nanosecond
}

// DurationFromInternal balances an internal duration into ten fields.
// Days of the clock part are kept as hours unless largestUnit is a date
// unit, and every clock unit coarser than largestUnit is folded into
// largestUnit.
//
// A largestUnit of milliseconds or finer folds the whole clock part into
// one int64 field, which holds about 292 years of nanoseconds, 292,000 years
// of microseconds or 292 million years of milliseconds; longer clock parts
// must be balanced to a coarser unit.
//
// DurationFromInternal returns an error wrapping [ErrRange] if a field
// does not fit into an int64 or the result is not a valid duration.
func DurationFromInternal(d InternalDuration, largestUnit Unit) (Duration, error) {
	r, err := durationFromInternal(d, largestUnit)
	if err != nil {
		return Duration{}, fmt.Errorf("balancing to %vs: %w", largestUnit, err)
	}
	return r, nil
}

func durationFromInternal(d InternalDuration, largestUnit Unit) (Duration, error) {
	var days int64
	t := d.time
	if largestUnit.IsDateUnit() {
		days, t = t.divmodDays()
	}
	sec, subsec := t.sec, int64(t.subsec)
	ms, us, ns := subsec/nsPerMillisecond, subsec/nsPerMicrosecond%1000, subsec%1000

	r := Duration{
		Years:  d.date.Years,
		Months: d.date.Months,
		Weeks:  d.date.Weeks,
		Days:   d.date.Days + days,
	}
	switch largestUnit {
	case Year, Month, Week, Day, Hour:
		r.Hours, r.Minutes, r.Seconds = sec/3600, sec/60%60, sec%60
		r.Milliseconds, r.Microseconds, r.Nanoseconds = ms, us, ns
	case Minute:
		r.Minutes, r.Seconds = sec/60, sec%60
		r.Milliseconds, r.Microseconds, r.Nanoseconds = ms, us, ns
	case Second:
		r.Seconds = sec
		r.Milliseconds, r.Microseconds, r.Nanoseconds = ms, us, ns
	case Millisecond:
		v, ok := f128.FromInt64(sec).Mul(f128.FromInt64(1000)).Add(f128.FromInt64(ms)).Int64()
		if !ok {
			return Duration{}, rangeError("milliseconds overflow")
		}
		r.Milliseconds, r.Microseconds, r.Nanoseconds = v, us, ns
	case Microsecond:
		v, ok := f128.FromInt64(sec).Mul(f128.FromInt64(1_000_000)).Add(f128.FromInt64(subsec / nsPerMicrosecond)).Int64()
		if !ok {
			return Duration{}, rangeError("microseconds overflow")
		}
		r.Microseconds, r.Nanoseconds = v, ns
	case Nanosecond:
		v, ok := t.Total().Int64()
		if !ok {
			return Duration{}, rangeError("nanoseconds overflow")
		}
		r.Nanoseconds = v
	default:
		return Duration{}, typeError("unit must be set")
	}
	if err := r.Validate(); err != nil {
		return Duration{}, err
	}
	return r, nil
}

// String implements the [fmt.Stringer] interface and returns the duration
// in the ISO 8601 format, for example "P1Y2M3DT4H5M6.5S".
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (d Duration) String() string {
	p, err := d.Period()
	if err != nil {
		return fmt.Sprint(d.fields())
	}
	return p.String()
}
