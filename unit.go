package tempo

import (
	"fmt"

	"github.com/govalues/tempo/f128"
)

// Unit is a calendar or clock unit.
// Units are ordered from the finest to the coarsest, so a greater Unit
// is a larger unit.
// The zero value is [Auto], which stands for a unit that has to be inferred
// from the context.
type Unit uint8

const (
	Auto Unit = iota
	Nanosecond
	Microsecond
	Millisecond
	Second
	Minute
	Hour
	Day
	Week
	Month
	Year
)

const (
	nsPerMicrosecond = 1_000
	nsPerMillisecond = 1_000_000
	nsPerSecond      = 1_000_000_000
	nsPerMinute      = 60 * nsPerSecond
	nsPerHour        = 60 * nsPerMinute
	nsPerDay         = 24 * nsPerHour
	secondsPerDay    = 86_400
)

// maxIncrement is the largest rounding increment accepted for any unit.
const maxIncrement = 1_000_000_000

var unitNames = [...]struct{ singular, plural string }{
	Auto:        {"auto", "auto"},
	Nanosecond:  {"nanosecond", "nanoseconds"},
	Microsecond: {"microsecond", "microseconds"},
	Millisecond: {"millisecond", "milliseconds"},
	Second:      {"second", "seconds"},
	Minute:      {"minute", "minutes"},
	Hour:        {"hour", "hours"},
	Day:         {"day", "days"},
	Week:        {"week", "weeks"},
	Month:       {"month", "months"},
	Year:        {"year", "years"},
}

var unitNanoseconds = [...]int64{
	Nanosecond:  1,
	Microsecond: nsPerMicrosecond,
	Millisecond: nsPerMillisecond,
	Second:      nsPerSecond,
	Minute:      nsPerMinute,
	Hour:        nsPerHour,
	Day:         nsPerDay,
}

// ParseUnit converts a string to a unit.
// Both singular and plural names are accepted, for example "day" and "days".
// ParseUnit returns an error wrapping [ErrType] if the name is unknown.
func ParseUnit(s string) (Unit, error) {
	for u, n := range unitNames {
		if n.singular == s || n.plural == s {
			return Unit(u), nil
		}
	}
	return Auto, typeError("unknown unit %q", s)
}

// MustParseUnit is like [ParseUnit] but panics if the string cannot be parsed.
func MustParseUnit(s string) Unit {
	u, err := ParseUnit(s)
	if err != nil {
		panic(fmt.Sprintf("ParseUnit(%q) failed: %v", s, err))
	}
	return u
}

// String implements the [fmt.Stringer] interface and returns the singular
// name of the unit.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (u Unit) String() string {
	if int(u) < len(unitNames) {
		return unitNames[u].singular
	}
	return fmt.Sprintf("Unit(%d)", uint8(u))
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
//
// [encoding.TextUnmarshaler]: https://pkg.go.dev/encoding#TextUnmarshaler
func (u *Unit) UnmarshalText(text []byte) error {
	var err error
	*u, err = ParseUnit(string(text))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", Auto, err)
	}
	return nil
}

// MarshalText implements the [encoding.TextMarshaler] interface.
//
// [encoding.TextMarshaler]: https://pkg.go.dev/encoding#TextMarshaler
func (u Unit) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// IsCalendarUnit returns true for units of variable length
// that are not derived from days: weeks, months and years.
func (u Unit) IsCalendarUnit() bool {
	return u == Week || u == Month || u == Year
}

// IsDateUnit returns true for days and coarser units.
func (u Unit) IsDateUnit() bool {
	return u >= Day
}

// IsTimeUnit returns true for hours and finer units.
func (u Unit) IsTimeUnit() bool {
	return u >= Nanosecond && u <= Hour
}

func (u Unit) valid() bool {
	return u >= Nanosecond && u <= Year
}

// nanoseconds returns the length of a time unit or a 24-hour day.
func (u Unit) nanoseconds() int64 {
	assert(u >= Nanosecond && u <= Day, "unit has no fixed length")
	return unitNanoseconds[u]
}

// incrementNanoseconds returns increment multiples of a fixed-length unit.
// The product may exceed the range of int64.
func (u Unit) incrementNanoseconds(increment int64) f128.F128 {
	return f128.FromInt64(u.nanoseconds()).Mul(f128.FromInt64(increment))
}

// maximumIncrement returns the exclusive upper bound of the rounding
// increment for the unit, if it has one.
func (u Unit) maximumIncrement() (int64, bool) {
	switch u {
	case Hour:
		return 24, true
	case Minute, Second:
		return 60, true
	case Millisecond, Microsecond, Nanosecond:
		return 1000, true
	}
	return 0, false
}

func largerOfTwoUnits(u, v Unit) Unit {
	if u > v {
		return u
	}
	return v
}

// RoundingOptions controls how a duration is balanced and rounded.
// The zero value rounds to whole nanoseconds with [HalfExpand] and infers the
// largest unit.
type RoundingOptions struct {
	// LargestUnit is the coarsest unit allowed in the result.
	LargestUnit Unit
	// SmallestUnit is the finest unit kept in the result.
	SmallestUnit Unit
	// Increment is the rounding step in SmallestUnit. Zero means 1.
	Increment int64
	// Mode is the tie-break policy.
	Mode RoundingMode
}

// resolve returns a copy of the options with [Auto] units and a zero
// increment replaced by their defaults, and validates the result.
// An automatic largest unit becomes the larger of defaultLargest and the
// smallest unit.
func (o RoundingOptions) resolve(defaultLargest Unit) (RoundingOptions, error) {
	if o.SmallestUnit == Auto {
		o.SmallestUnit = Nanosecond
	}
	if o.LargestUnit == Auto {
		o.LargestUnit = largerOfTwoUnits(defaultLargest, o.SmallestUnit)
	}
	if o.Increment == 0 {
		o.Increment = 1
	}
	if err := o.Validate(); err != nil {
		return RoundingOptions{}, err
	}
	return o, nil
}

// Validate checks that:
//   - both units are set and LargestUnit is not smaller than SmallestUnit;
//   - Increment is within [1, 1000000000];
//   - for clock units, Increment evenly divides and is less than the number
//     of SmallestUnit in the next larger unit;
//   - Mode is a known rounding mode.
func (o RoundingOptions) Validate() error {
	if !o.LargestUnit.valid() || !o.SmallestUnit.valid() {
		return typeError("units must be set")
	}
	if o.SmallestUnit > o.LargestUnit {
		return rangeError("smallest unit %v is larger than largest unit %v", o.SmallestUnit, o.LargestUnit)
	}
	if o.Increment < 1 || o.Increment > maxIncrement {
		return rangeError("rounding increment %v is out of range", o.Increment)
	}
	if m, ok := o.SmallestUnit.maximumIncrement(); ok {
		if o.Increment >= m || m%o.Increment != 0 {
			return rangeError("rounding increment %v does not divide %v %vs", o.Increment, m, o.SmallestUnit)
		}
	}
	if int(o.Mode) >= len(roundingModeNames) {
		return typeError("unknown rounding mode %v", o.Mode)
	}
	return nil
}

// isTrivial reports whether rounding with the options has no effect on
// a balanced duration.
func (o RoundingOptions) isTrivial() bool {
	return o.SmallestUnit == Nanosecond && o.Increment == 1
}
