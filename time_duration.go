package tempo

import (
	"fmt"
	"strconv"

	"github.com/govalues/decimal"
	"github.com/govalues/tempo/f128"
)

// maxTimeDuration is (2^53 - 1) * 10^9 + 999999999 nanoseconds.
var maxTimeDuration = f128.MustParse("9007199254740991999999999")

var (
	fNsPerSecond = f128.FromInt64(nsPerSecond)
	fNsPerDay    = f128.FromInt64(nsPerDay)
)

// TimeDuration is an exact signed span of nanoseconds.
// It is split into whole seconds and a sub-second part that has the
// same sign as the seconds, or zero.
// Its zero value is a zero-length span.
// TimeDuration is designed to be safe for concurrent use by multiple goroutines.
type TimeDuration struct {
	sec    int64 // |sec| < 2^53
	subsec int32 // (-10^9, 10^9)
}

// newTimeDurationUnsafe splits a nanosecond total that is known to be an
// integer within the supported bound.
func newTimeDurationUnsafe(total f128.F128) TimeDuration {
	q, ok := total.Div(fNsPerSecond).Trunc().Int64()
	assert(ok, "seconds out of range")
	r, ok := total.Sub(f128.FromInt64(q).Mul(fNsPerSecond)).Int64()
	assert(ok, "subseconds out of range")
	// Fix an off-by-one quotient from the division estimate.
	switch {
	case r >= nsPerSecond:
		q, r = q+1, r-nsPerSecond
	case r <= -nsPerSecond:
		q, r = q-1, r+nsPerSecond
	}
	switch {
	case q > 0 && r < 0:
		q, r = q-1, r+nsPerSecond
	case q < 0 && r > 0:
		q, r = q+1, r-nsPerSecond
	}
	return TimeDuration{sec: q, subsec: int32(r)}
}

// newTimeDurationSafe is like [newTimeDurationUnsafe] but checks the total
// against the supported bound.
func newTimeDurationSafe(total f128.F128) (TimeDuration, error) {
	if total.Abs().Cmp(maxTimeDuration) > 0 {
		return TimeDuration{}, rangeError("time duration of %v nanoseconds", total)
	}
	return newTimeDurationUnsafe(total), nil
}

// NewTimeDuration returns the sum of the given independently signed
// amounts of clock units.
//
// NewTimeDuration returns an error wrapping [ErrRange] if the magnitude of the
// sum exceeds (2^53 - 1) seconds and 999999999 nanoseconds.
func NewTimeDuration(hours, minutes, seconds, milliseconds, microseconds, nanoseconds int64) (TimeDuration, error) {
	total := f128.FromInt64(hours).Mul(f128.FromInt64(nsPerHour)).
		Add(f128.FromInt64(minutes).Mul(f128.FromInt64(nsPerMinute))).
		Add(f128.FromInt64(seconds).Mul(fNsPerSecond)).
		Add(f128.FromInt64(milliseconds).Mul(f128.FromInt64(nsPerMillisecond))).
		Add(f128.FromInt64(microseconds).Mul(f128.FromInt64(nsPerMicrosecond))).
		Add(f128.FromInt64(nanoseconds))
	d, err := newTimeDurationSafe(total)
	if err != nil {
		return TimeDuration{}, fmt.Errorf("computing time duration: %w", err)
	}
	return d, nil
}

// MustNewTimeDuration is like [NewTimeDuration] but panics if the time
// duration cannot be constructed.
func MustNewTimeDuration(hours, minutes, seconds, milliseconds, microseconds, nanoseconds int64) TimeDuration {
	d, err := NewTimeDuration(hours, minutes, seconds, milliseconds, microseconds, nanoseconds)
	if err != nil {
		panic(fmt.Sprintf("NewTimeDuration(%v, %v, %v, %v, %v, %v) failed: %v", hours, minutes, seconds, milliseconds, microseconds, nanoseconds, err))
	}
	return d
}

// timeDurationFromNanoseconds returns a span of ns nanoseconds.
func timeDurationFromNanoseconds(ns int64) TimeDuration {
	return TimeDuration{sec: ns / nsPerSecond, subsec: int32(ns % nsPerSecond)}
}

// TimeDurationBetween returns the exact span a - b.
// The result is not subject to the component-sum bound; both instants are
// expected to be within the supported range.
func TimeDurationBetween(a, b EpochNanoseconds) TimeDuration {
	sec := a.sec - b.sec
	nsec := int64(a.nsec) - int64(b.nsec)
	total := f128.FromInt64(sec).Mul(fNsPerSecond).Add(f128.FromInt64(nsec))
	return newTimeDurationUnsafe(total)
}

// Sec returns the whole seconds of d.
func (d TimeDuration) Sec() int64 {
	return d.sec
}

// Subsec returns the nanoseconds of d that do not make a whole second.
// The result has the same sign as [TimeDuration.Sec], or is zero.
func (d TimeDuration) Subsec() int32 {
	return d.subsec
}

// Total returns the total of d in nanoseconds.
func (d TimeDuration) Total() f128.F128 {
	return f128.FromInt64(d.sec).Mul(fNsPerSecond).Add(f128.FromInt64(int64(d.subsec)))
}

// Seconds returns d as a number of seconds with nine fractional digits.
//
// Seconds returns an error if d has a fraction and its whole seconds have
// more than ([decimal.MaxPrec] - 9) digits.
func (d TimeDuration) Seconds() (decimal.Decimal, error) {
	// Whole
	s, err := decimal.New(d.sec, 0)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("converting %v to seconds: %w", d, err)
	}
	if d.subsec == 0 {
		return s, nil
	}
	// Fraction
	f, err := decimal.New(int64(d.subsec), 9)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("converting %v to seconds: %w", d, err)
	}
	s, err = s.AddExact(f, 9)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("converting %v to seconds: %w", d, err)
	}
	return s, nil
}

// Add returns the (possibly rounded) sum d + e.
//
// Add returns an error wrapping [ErrRange] if the sum exceeds the supported bound.
func (d TimeDuration) Add(e TimeDuration) (TimeDuration, error) {
	f, err := newTimeDurationSafe(d.Total().Add(e.Total()))
	if err != nil {
		return TimeDuration{}, fmt.Errorf("computing [%v + %v]: %w", d, e, err)
	}
	return f, nil
}

// Sub returns the difference d - e.
//
// Sub returns an error wrapping [ErrRange] if the difference exceeds the
// supported bound.
func (d TimeDuration) Sub(e TimeDuration) (TimeDuration, error) {
	f, err := newTimeDurationSafe(d.Total().Sub(e.Total()))
	if err != nil {
		return TimeDuration{}, fmt.Errorf("computing [%v - %v]: %w", d, e, err)
	}
	return f, nil
}

// Add24HourDays returns d plus the given number of 24-hour days.
//
// Add24HourDays returns an error wrapping [ErrRange] if the result exceeds the
// supported bound.
func (d TimeDuration) Add24HourDays(days int64) (TimeDuration, error) {
	if days == 0 {
		return d, nil
	}
	f, err := newTimeDurationSafe(d.Total().Add(f128.FromInt64(days).Mul(fNsPerDay)))
	if err != nil {
		return TimeDuration{}, fmt.Errorf("computing [%v + %v days]: %w", d, days, err)
	}
	return f, nil
}

// divmodDays returns the number of whole 24-hour days in d, truncated
// toward zero, and the remaining span.
func (d TimeDuration) divmodDays() (int64, TimeDuration) {
	days := d.sec / secondsPerDay
	return days, TimeDuration{sec: d.sec % secondsPerDay, subsec: d.subsec}
}

// Fdiv returns the ratio of d and the given number of nanoseconds.
func (d TimeDuration) Fdiv(divisor f128.F128) float64 {
	return d.Total().Div(divisor).Float64()
}

// TotalIn returns d as a fractional number of time units.
// A [Day] is 24 hours.
func (d TimeDuration) TotalIn(unit Unit) (float64, error) {
	if unit < Nanosecond || unit > Day {
		return 0, fmt.Errorf("totaling %v in %vs: %w", d, unit, rangeError("unit has no fixed length"))
	}
	return d.Fdiv(f128.FromInt64(unit.nanoseconds())), nil
}

// Round returns d rounded to a multiple of increment units.
// A [Day] is 24 hours.
//
// Round returns an error if:
//   - the unit is not a clock unit or a day;
//   - the increment is not within [1, 1000000000];
//   - the rounded duration exceeds the supported bound.
func (d TimeDuration) Round(unit Unit, increment int64, mode RoundingMode) (TimeDuration, error) {
	if unit < Nanosecond || unit > Day {
		return TimeDuration{}, fmt.Errorf("rounding %v to %vs: %w", d, unit, rangeError("unit has no fixed length"))
	}
	if increment < 1 || increment > maxIncrement {
		return TimeDuration{}, fmt.Errorf("rounding %v: %w", d, rangeError("rounding increment %v is out of range", increment))
	}
	e, err := d.round(unit.incrementNanoseconds(increment), mode)
	if err != nil {
		return TimeDuration{}, fmt.Errorf("rounding %v to %v %vs: %w", d, increment, unit, err)
	}
	return e, nil
}

// round returns d rounded to a multiple of the given number of nanoseconds.
func (d TimeDuration) round(increment f128.F128, mode RoundingMode) (TimeDuration, error) {
	if increment.Equal(f128.One) {
		return d, nil
	}
	total := d.Total()
	q := total.Div(increment).Trunc()
	r := total.Sub(q.Mul(increment))
	// Fix an off-by-one quotient from the division estimate.
	one := f128.FromInt64(int64(total.Sign()))
	if r.Sign() != 0 && r.Sign() != total.Sign() {
		q, r = q.Sub(one), r.Add(increment.Mul(one))
	}
	if r.Abs().Cmp(increment) >= 0 {
		q, r = q.Add(one), r.Sub(increment.Mul(one))
	}

	negative := total.Sign() < 0
	r1 := q.Abs()
	r2 := r1.Add(f128.One)
	rounded := r1
	if !r.IsZero() {
		cmp := r.Add(r).Abs().Cmp(increment)
		rounded = applyUnsignedRoundingMode(r1, r2, cmp, r1.IsEven(), unsignedRoundingMode(mode, negative))
	}
	rounded = rounded.Mul(increment)
	if negative {
		rounded = rounded.Neg()
	}
	return newTimeDurationSafe(rounded)
}

// Abs returns the absolute value of d.
func (d TimeDuration) Abs() TimeDuration {
	if d.Sign() < 0 {
		return d.Neg()
	}
	return d
}

// Neg returns d with the opposite sign.
func (d TimeDuration) Neg() TimeDuration {
	return TimeDuration{sec: -d.sec, subsec: -d.subsec}
}

// Sign returns:
//
//	-1 if d < 0
//	 0 if d = 0
//	+1 if d > 0
func (d TimeDuration) Sign() int {
	if d.sec != 0 {
		return sign(d.sec)
	}
	return sign(int64(d.subsec))
}

// IsZero returns:
//
//	true  if d = 0
//	false otherwise
func (d TimeDuration) IsZero() bool {
	return d.sec == 0 && d.subsec == 0
}

// Cmp compares d and e and returns:
//
//	-1 if d < e
//	 0 if d = e
//	+1 if d > e
func (d TimeDuration) Cmp(e TimeDuration) int {
	if c := cmpInt(d.sec, e.sec); c != 0 {
		return c
	}
	return cmpInt(int64(d.subsec), int64(e.subsec))
}

// String implements the [fmt.Stringer] interface and returns the span in
// seconds, for example "-1.5s" or "86400s".
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (d TimeDuration) String() string {
	buf := make([]byte, 0, 32)
	if d.Sign() < 0 {
		buf = append(buf, '-')
	}
	buf = strconv.AppendInt(buf, abs(d.sec), 10)
	if d.subsec != 0 {
		frac := strconv.FormatInt(abs(int64(d.subsec))+nsPerSecond, 10)[1:]
		for len(frac) > 0 && frac[len(frac)-1] == '0' {
			frac = frac[:len(frac)-1]
		}
		buf = append(buf, '.')
		buf = append(buf, frac...)
	}
	buf = append(buf, 's')
	return string(buf)
}
