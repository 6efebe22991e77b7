package tempo

import (
	"fmt"
)

// Origin is the point from which the length of calendar units and of days
// is measured when rounding or totaling a [Duration].
// The zero value is no origin: days are 24 hours and calendar units are
// not allowed.
type Origin struct {
	cal   Calendar
	tz    TimeZone
	date  ISODate
	ns    EpochNanoseconds
	zoned bool
}

// PlainOrigin returns an origin at the start of a date, with days of
// 24 hours.
// A nil calendar means [ISO8601].
func PlainOrigin(cal Calendar, date ISODate) Origin {
	if cal == nil {
		cal = ISO8601
	}
	return Origin{cal: cal, date: date}
}

// ZonedOrigin returns an origin at an instant in a zone, where days are as
// long as the local days.
// A nil calendar means [ISO8601] and a nil zone means [UTC].
func ZonedOrigin(cal Calendar, tz TimeZone, ns EpochNanoseconds) Origin {
	if cal == nil {
		cal = ISO8601
	}
	if tz == nil {
		tz = UTC
	}
	return Origin{cal: cal, tz: tz, ns: ns, zoned: true}
}

// IsZero returns true if o is no origin.
func (o Origin) IsZero() bool {
	return o.cal == nil
}

// String implements the [fmt.Stringer] interface.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (o Origin) String() string {
	switch {
	case o.IsZero():
		return "none"
	case o.zoned:
		return fmt.Sprintf("%v[%v]", ISODateTimeFor(o.tz, o.ns), o.tz.ID())
	}
	return o.date.String()
}

// Round returns d rounded and balanced with the options.
// Automatic units default to the coarsest nonzero unit of d and
// to nanoseconds, but at least one of them must be set.
// With a zoned origin, the clock part of the result is balanced to hours
// at most.
//
// Round returns an error if:
//   - d or the options are invalid;
//   - d has calendar units, or the options name them, and o is zero;
//   - the increment is more than 1 for a date unit that is not also the
//     largest unit;
//   - the result is outside of the supported range.
func (d Duration) Round(opts RoundingOptions, o Origin) (Duration, error) {
	r, err := d.round(opts, o)
	if err != nil {
		return Duration{}, fmt.Errorf("rounding %v relative to %v: %w", d, o, err)
	}
	return r, nil
}

func (d Duration) round(opts RoundingOptions, o Origin) (Duration, error) {
	if err := d.Validate(); err != nil {
		return Duration{}, err
	}
	if opts.LargestUnit == Auto && opts.SmallestUnit == Auto {
		return Duration{}, rangeError("at least one of largest and smallest unit is required")
	}
	existingLargestUnit := d.DefaultLargestUnit()
	smallestUnit := opts.SmallestUnit
	if smallestUnit == Auto {
		smallestUnit = Nanosecond
	}
	opts, err := opts.resolve(largerOfTwoUnits(existingLargestUnit, smallestUnit))
	if err != nil {
		return Duration{}, err
	}
	if opts.Increment > 1 && opts.SmallestUnit.IsDateUnit() && opts.LargestUnit != opts.SmallestUnit {
		return Duration{}, rangeError("rounding increment %v requires the largest unit to be %v", opts.Increment, opts.SmallestUnit)
	}

	switch {
	case o.zoned:
		internal, err := d.Internal()
		if err != nil {
			return Duration{}, err
		}
		target, err := addZonedDateTime(o.ns, o.tz, o.cal, internal, Constrain)
		if err != nil {
			return Duration{}, err
		}
		internal, err = differenceZonedDateTimeWithRounding(o.ns, target, o.tz, o.cal, opts)
		if err != nil {
			return Duration{}, err
		}
		largestUnit := opts.LargestUnit
		if largestUnit.IsDateUnit() {
			largestUnit = Hour
		}
		return durationFromInternal(internal, largestUnit)

	case !o.IsZero():
		start, target, err := d.plainSpan(o)
		if err != nil {
			return Duration{}, err
		}
		internal, err := differencePlainDateTimeWithRounding(start, target, o.cal, opts)
		if err != nil {
			return Duration{}, err
		}
		return durationFromInternal(internal, opts.LargestUnit)
	}

	if existingLargestUnit.IsCalendarUnit() || opts.LargestUnit.IsCalendarUnit() {
		return Duration{}, rangeError("rounding calendar units requires an origin")
	}
	internal, err := d.internalWith24HourDays()
	if err != nil {
		return Duration{}, err
	}
	t, err := internal.time.round(opts.SmallestUnit.incrementNanoseconds(opts.Increment), opts.Mode)
	if err != nil {
		return Duration{}, err
	}
	if opts.SmallestUnit == Day {
		days, _ := t.divmodDays()
		return durationFromInternal(InternalDuration{date: DateDuration{Days: days}}, opts.LargestUnit)
	}
	return durationFromInternal(InternalDuration{time: t}, opts.LargestUnit)
}

// Total returns d as a fractional number of units.
//
// Total returns an error if d is invalid, or d has calendar units, or the
// unit is a calendar unit, and o is zero.
func (d Duration) Total(unit Unit, o Origin) (float64, error) {
	f, err := d.total(unit, o)
	if err != nil {
		return 0, fmt.Errorf("totaling %v in %vs relative to %v: %w", d, unit, o, err)
	}
	return f, nil
}

func (d Duration) total(unit Unit, o Origin) (float64, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}
	if !unit.valid() {
		return 0, typeError("unit must be set")
	}

	switch {
	case o.zoned:
		internal, err := d.Internal()
		if err != nil {
			return 0, err
		}
		target, err := addZonedDateTime(o.ns, o.tz, o.cal, internal, Constrain)
		if err != nil {
			return 0, err
		}
		return differenceZonedDateTimeWithTotal(o.ns, target, o.tz, o.cal, unit)

	case !o.IsZero():
		start, target, err := d.plainSpan(o)
		if err != nil {
			return 0, err
		}
		return differencePlainDateTimeWithTotal(start, target, o.cal, unit)
	}

	if d.DefaultLargestUnit().IsCalendarUnit() || unit.IsCalendarUnit() {
		return 0, rangeError("totaling calendar units requires an origin")
	}
	internal, err := d.internalWith24HourDays()
	if err != nil {
		return 0, err
	}
	return internal.time.TotalIn(unit)
}

// plainSpan returns the start of the origin date and the date-time d after
// it. The days of d are taken as 24 hours.
func (d Duration) plainSpan(o Origin) (ISODateTime, ISODateTime, error) {
	internal, err := d.internalWith24HourDays()
	if err != nil {
		return ISODateTime{}, ISODateTime{}, err
	}
	deltaDays, t := addTime(Midnight, internal.time)
	date, err := o.cal.DateAdd(o.date, internal.date.withDays(deltaDays), Constrain)
	if err != nil {
		return ISODateTime{}, ISODateTime{}, err
	}
	start := ISODateTime{Date: o.date, Time: Midnight}
	return start, ISODateTime{Date: date, Time: t}, nil
}
