package tempo

import "fmt"

// DifferenceISODateTime returns the duration from dt1 to dt2 with no unit
// coarser than largestUnit, such that [AddDateTime] of the result to dt1
// gives dt2.
// Days are folded into the clock part if largestUnit is a clock unit.
//
// DifferenceISODateTime returns an error if the calendar fails or the parts
// of the result exceed their bounds.
func DifferenceISODateTime(dt1, dt2 ISODateTime, cal Calendar, largestUnit Unit) (InternalDuration, error) {
	d, err := differenceISODateTime(dt1, dt2, cal, largestUnit)
	if err != nil {
		return InternalDuration{}, fmt.Errorf("computing [%v - %v]: %w", dt2, dt1, err)
	}
	return d, nil
}

func differenceISODateTime(dt1, dt2 ISODateTime, cal Calendar, largestUnit Unit) (InternalDuration, error) {
	if cal == nil {
		return InternalDuration{}, typeError("missing calendar")
	}
	if !largestUnit.valid() {
		return InternalDuration{}, typeError("largest unit must be set")
	}
	if err := rejectDateTimeRange(dt1, dt2); err != nil {
		return InternalDuration{}, err
	}

	t := differenceTime(dt1.Time, dt2.Time)
	timeSign := t.Sign()
	dateSign := CompareISODate(dt1.Date, dt2.Date)

	// Borrow a day from the date span so that both parts have the same sign.
	adjusted := dt2.Date
	var err error
	if timeSign != 0 && dateSign == timeSign {
		adjusted = balanceISODate(adjusted.Year, adjusted.Month, adjusted.Day+timeSign)
		if t, err = t.Add24HourDays(int64(-timeSign)); err != nil {
			return InternalDuration{}, err
		}
	}

	dateLargestUnit := largerOfTwoUnits(Day, largestUnit)
	date, err := cal.DateUntil(dt1.Date, adjusted, dateLargestUnit)
	if err != nil {
		return InternalDuration{}, err
	}
	if largestUnit != dateLargestUnit {
		if t, err = t.Add24HourDays(date.Days); err != nil {
			return InternalDuration{}, err
		}
		date.Days = 0
	}
	return combineDateAndTimeDuration(date, t), nil
}

// DifferenceZonedDateTime returns the duration from ns1 to ns2 as observed in
// a zone, with no unit coarser than largestUnit.
// The calendar part counts local days, which may be longer or shorter than
// 24 hours across an offset transition, and the clock part is exact elapsed
// time.
// A clock largestUnit gives exact elapsed time only.
//
// DifferenceZonedDateTime returns an error if the zone or the calendar fails.
func DifferenceZonedDateTime(ns1, ns2 EpochNanoseconds, tz TimeZone, cal Calendar, largestUnit Unit) (InternalDuration, error) {
	d, err := differenceZonedDateTime(ns1, ns2, tz, cal, largestUnit)
	if err != nil {
		return InternalDuration{}, fmt.Errorf("computing [%v - %v]: %w", ns2, ns1, err)
	}
	return d, nil
}

func differenceZonedDateTime(ns1, ns2 EpochNanoseconds, tz TimeZone, cal Calendar, largestUnit Unit) (InternalDuration, error) {
	if tz == nil || cal == nil {
		return InternalDuration{}, typeError("missing time zone or calendar")
	}
	if !largestUnit.valid() {
		return InternalDuration{}, typeError("largest unit must be set")
	}
	if !largestUnit.IsDateUnit() {
		return InternalDuration{time: TimeDurationBetween(ns2, ns1)}, nil
	}
	sign := ns2.Cmp(ns1)
	if sign == 0 {
		return InternalDuration{}, nil
	}

	start := ISODateTimeFor(tz, ns1)
	end := ISODateTimeFor(tz, ns2)
	if CompareISODate(start.Date, end.Date) == 0 {
		return InternalDuration{time: TimeDurationBetween(ns2, ns1)}, nil
	}

	// The local day preceding the end is pulled back until the remaining
	// exact time no longer points backward.
	dayCorrection := 0
	if differenceTime(start.Time, end.Time).Sign() == -sign {
		dayCorrection++
	}
	maxDayCorrection := 1
	if sign > 0 {
		maxDayCorrection = 2
	}
	var (
		intermediate ISODateTime
		t            TimeDuration
	)
	for ; dayCorrection <= maxDayCorrection; dayCorrection++ {
		intermediate = ISODateTime{
			Date: balanceISODate(end.Date.Year, end.Date.Month, end.Date.Day-dayCorrection*sign),
			Time: start.Time,
		}
		e, err := EpochNanosecondsFor(tz, intermediate, Compatible)
		if err != nil {
			return InternalDuration{}, err
		}
		t = TimeDurationBetween(ns2, e)
		if t.Sign() != -sign {
			break
		}
	}
	assert(dayCorrection <= maxDayCorrection, "more than the allowed day corrections")

	date, err := cal.DateUntil(start.Date, intermediate.Date, largerOfTwoUnits(largestUnit, Day))
	if err != nil {
		return InternalDuration{}, err
	}
	return combineDateAndTimeDuration(date, t), nil
}

// DifferenceInstant returns the exact elapsed time from ns1 to ns2, rounded
// to a multiple of increment clock units.
//
// DifferenceInstant returns an error wrapping [ErrRange] if the unit is not a
// clock unit or a day, or the increment is out of range.
func DifferenceInstant(ns1, ns2 EpochNanoseconds, increment int64, smallestUnit Unit, mode RoundingMode) (InternalDuration, error) {
	t, err := TimeDurationBetween(ns2, ns1).Round(smallestUnit, increment, mode)
	if err != nil {
		return InternalDuration{}, fmt.Errorf("computing [%v - %v]: %w", ns2, ns1, err)
	}
	return combineDateAndTimeDuration(DateDuration{}, t), nil
}

// DifferencePlainDateTimeWithRounding is like [DifferenceISODateTime] but
// rounds the result with the options.
// Equal date-times give a zero duration, whatever the options.
//
// DifferencePlainDateTimeWithRounding returns an error if:
//   - the options are invalid;
//   - either date-time is outside of the supported range;
//   - computing the difference fails.
func DifferencePlainDateTimeWithRounding(dt1, dt2 ISODateTime, cal Calendar, opts RoundingOptions) (InternalDuration, error) {
	d, err := differencePlainDateTimeWithRounding(dt1, dt2, cal, opts)
	if err != nil {
		return InternalDuration{}, fmt.Errorf("computing [%v - %v]: %w", dt2, dt1, err)
	}
	return d, nil
}

func differencePlainDateTimeWithRounding(dt1, dt2 ISODateTime, cal Calendar, opts RoundingOptions) (InternalDuration, error) {
	if err := opts.Validate(); err != nil {
		return InternalDuration{}, err
	}
	if CompareISODateTime(dt1, dt2) == 0 {
		return InternalDuration{}, nil
	}
	if err := rejectDateTimeRange(dt1, dt2); err != nil {
		return InternalDuration{}, err
	}
	d, err := differenceISODateTime(dt1, dt2, cal, opts.LargestUnit)
	if err != nil {
		return InternalDuration{}, err
	}
	if opts.isTrivial() {
		return d, nil
	}
	return roundRelativeDuration(d, dt2.utcEpochNanoseconds(), dt1, nil, cal, opts)
}

// DifferencePlainDateTimeWithTotal returns the duration from dt1 to dt2 as a
// fractional number of units.
//
// DifferencePlainDateTimeWithTotal returns an error if either date-time is
// outside of the supported range or computing the difference fails.
func DifferencePlainDateTimeWithTotal(dt1, dt2 ISODateTime, cal Calendar, unit Unit) (float64, error) {
	f, err := differencePlainDateTimeWithTotal(dt1, dt2, cal, unit)
	if err != nil {
		return 0, fmt.Errorf("totaling [%v - %v] in %vs: %w", dt2, dt1, unit, err)
	}
	return f, nil
}

func differencePlainDateTimeWithTotal(dt1, dt2 ISODateTime, cal Calendar, unit Unit) (float64, error) {
	if !unit.valid() {
		return 0, typeError("unit must be set")
	}
	if CompareISODateTime(dt1, dt2) == 0 {
		return 0, nil
	}
	if err := rejectDateTimeRange(dt1, dt2); err != nil {
		return 0, err
	}
	d, err := differenceISODateTime(dt1, dt2, cal, unit)
	if err != nil {
		return 0, err
	}
	if unit == Nanosecond {
		return d.time.Total().Float64(), nil
	}
	return totalRelativeDuration(d, dt2.utcEpochNanoseconds(), dt1, nil, cal, unit)
}

// DifferenceZonedDateTimeWithRounding is like [DifferenceZonedDateTime] but
// rounds the result with the options.
//
// DifferenceZonedDateTimeWithRounding returns an error if the options are
// invalid or computing the difference fails.
func DifferenceZonedDateTimeWithRounding(ns1, ns2 EpochNanoseconds, tz TimeZone, cal Calendar, opts RoundingOptions) (InternalDuration, error) {
	d, err := differenceZonedDateTimeWithRounding(ns1, ns2, tz, cal, opts)
	if err != nil {
		return InternalDuration{}, fmt.Errorf("computing [%v - %v]: %w", ns2, ns1, err)
	}
	return d, nil
}

func differenceZonedDateTimeWithRounding(ns1, ns2 EpochNanoseconds, tz TimeZone, cal Calendar, opts RoundingOptions) (InternalDuration, error) {
	if err := opts.Validate(); err != nil {
		return InternalDuration{}, err
	}
	if ns1 == ns2 {
		return InternalDuration{}, nil
	}
	if !opts.LargestUnit.IsDateUnit() {
		t, err := TimeDurationBetween(ns2, ns1).Round(opts.SmallestUnit, opts.Increment, opts.Mode)
		if err != nil {
			return InternalDuration{}, err
		}
		return InternalDuration{time: t}, nil
	}
	d, err := differenceZonedDateTime(ns1, ns2, tz, cal, opts.LargestUnit)
	if err != nil {
		return InternalDuration{}, err
	}
	if opts.isTrivial() {
		return d, nil
	}
	return roundRelativeDuration(d, ns2, ISODateTimeFor(tz, ns1), tz, cal, opts)
}

// DifferenceZonedDateTimeWithTotal returns the duration from ns1 to ns2 as
// observed in a zone, as a fractional number of units.
//
// DifferenceZonedDateTimeWithTotal returns an error if computing the
// difference fails.
func DifferenceZonedDateTimeWithTotal(ns1, ns2 EpochNanoseconds, tz TimeZone, cal Calendar, unit Unit) (float64, error) {
	f, err := differenceZonedDateTimeWithTotal(ns1, ns2, tz, cal, unit)
	if err != nil {
		return 0, fmt.Errorf("totaling [%v - %v] in %vs: %w", ns2, ns1, unit, err)
	}
	return f, nil
}

func differenceZonedDateTimeWithTotal(ns1, ns2 EpochNanoseconds, tz TimeZone, cal Calendar, unit Unit) (float64, error) {
	if !unit.valid() {
		return 0, typeError("unit must be set")
	}
	if ns1 == ns2 {
		return 0, nil
	}
	if unit.IsTimeUnit() {
		return TimeDurationBetween(ns2, ns1).TotalIn(unit)
	}
	d, err := differenceZonedDateTime(ns1, ns2, tz, cal, unit)
	if err != nil {
		return 0, err
	}
	return totalRelativeDuration(d, ns2, ISODateTimeFor(tz, ns1), tz, cal, unit)
}

// rejectDateTimeRange returns an error if a date-time has no instant in any
// zone.
func rejectDateTimeRange(dts ...ISODateTime) error {
	for _, dt := range dts {
		if !dt.withinLimits() {
			return rangeError("date-time %v is outside of the supported range", dt)
		}
	}
	return nil
}
