package tempo

import (
	"fmt"

	"github.com/govalues/tempo/f128"
)

// nudgeResult is a duration rounded in its smallest unit, before carries
// into larger units.
type nudgeResult struct {
	duration  InternalDuration
	nudged    EpochNanoseconds // end of the rounded duration applied to the origin
	didExpand bool             // the smallest unit rounded up to the next whole unit
}

// RoundRelativeDuration rounds d, which is the duration from the origin dt
// to the instant dest, with the options.
// The length of calendar units is measured from dt, in the zone tz, or in
// UTC if tz is nil.
// The options must be resolved: units and the increment are set.
//
// RoundRelativeDuration returns an error if the options are invalid or an
// intermediate date is outside of the supported range.
func RoundRelativeDuration(d InternalDuration, dest EpochNanoseconds, dt ISODateTime, tz TimeZone, cal Calendar, opts RoundingOptions) (InternalDuration, error) {
	if err := opts.Validate(); err != nil {
		return InternalDuration{}, fmt.Errorf("rounding %v: %w", d, err)
	}
	if cal == nil {
		return InternalDuration{}, fmt.Errorf("rounding %v: %w", d, typeError("missing calendar"))
	}
	r, err := roundRelativeDuration(d, dest, dt, tz, cal, opts)
	if err != nil {
		return InternalDuration{}, fmt.Errorf("rounding %v to %v %vs: %w", d, opts.Increment, opts.SmallestUnit, err)
	}
	return r, nil
}

func roundRelativeDuration(d InternalDuration, dest EpochNanoseconds, dt ISODateTime, tz TimeZone, cal Calendar, opts RoundingOptions) (InternalDuration, error) {
	irregular := opts.SmallestUnit.IsCalendarUnit() || (tz != nil && opts.SmallestUnit == Day)
	sign := 1
	if d.Sign() < 0 {
		sign = -1
	}

	var (
		nudge nudgeResult
		err   error
	)
	switch {
	case irregular:
		nudge, _, err = nudgeToCalendarUnit(sign, d, dest, dt, tz, cal, opts.Increment, opts.SmallestUnit, opts.Mode)
	case tz != nil:
		nudge, err = nudgeToZonedTime(sign, d, dt, tz, cal, opts.Increment, opts.SmallestUnit, opts.Mode)
	default:
		nudge, err = nudgeToDayOrTime(d, dest, opts.LargestUnit, opts.Increment, opts.SmallestUnit, opts.Mode)
	}
	if err != nil {
		return InternalDuration{}, err
	}

	if nudge.didExpand && opts.SmallestUnit != Week {
		start := largerOfTwoUnits(opts.SmallestUnit, Day)
		return bubbleRelativeDuration(sign, nudge.duration, nudge.nudged, dt, tz, cal, opts.LargestUnit, start)
	}
	return nudge.duration, nil
}

// TotalRelativeDuration returns d, which is the duration from the origin dt
// to the instant dest, as a fractional number of units.
// The fraction of a calendar unit is the elapsed share of the enclosing unit.
//
// TotalRelativeDuration returns an error if an intermediate date is outside
// of the supported range.
func TotalRelativeDuration(d InternalDuration, dest EpochNanoseconds, dt ISODateTime, tz TimeZone, cal Calendar, unit Unit) (float64, error) {
	if !unit.valid() {
		return 0, fmt.Errorf("totaling %v: %w", d, typeError("unit must be set"))
	}
	if cal == nil {
		return 0, fmt.Errorf("totaling %v: %w", d, typeError("missing calendar"))
	}
	f, err := totalRelativeDuration(d, dest, dt, tz, cal, unit)
	if err != nil {
		return 0, fmt.Errorf("totaling %v in %vs: %w", d, unit, err)
	}
	return f, nil
}

func totalRelativeDuration(d InternalDuration, dest EpochNanoseconds, dt ISODateTime, tz TimeZone, cal Calendar, unit Unit) (float64, error) {
	if unit.IsCalendarUnit() || (tz != nil && unit == Day) {
		sign := 1
		if d.Sign() < 0 {
			sign = -1
		}
		_, total, err := nudgeToCalendarUnit(sign, d, dest, dt, tz, cal, 1, unit, Trunc)
		return total, err
	}
	t, err := d.time.Add24HourDays(d.date.Days)
	if err != nil {
		return 0, err
	}
	return t.TotalIn(unit)
}

// anchorInstant returns the instant of a local date-time, in UTC for
// plain arithmetic.
func anchorInstant(tz TimeZone, dt ISODateTime) (EpochNanoseconds, error) {
	if tz == nil {
		return dt.utcEpochNanoseconds(), nil
	}
	return EpochNanosecondsFor(tz, dt, Compatible)
}

// nudgeToCalendarUnit rounds the duration to increment calendar units by
// locating dest between the two neighbouring multiples of the increment.
// It also returns the exact total in the unit.
func nudgeToCalendarUnit(sign int, d InternalDuration, dest EpochNanoseconds, dt ISODateTime, tz TimeZone, cal Calendar, increment int64, unit Unit, mode RoundingMode) (nudgeResult, float64, error) {
	var (
		r1, r2     int64
		start, end DateDuration
	)
	step := increment * int64(sign)
	switch unit {
	case Year:
		r1 = roundNumberToIncrement(d.date.Years, increment, Trunc)
		r2 = r1 + step
		start = DateDuration{Years: r1}
		end = DateDuration{Years: r2}
	case Month:
		r1 = roundNumberToIncrement(d.date.Months, increment, Trunc)
		r2 = r1 + step
		start = DateDuration{Years: d.date.Years, Months: r1}
		end = DateDuration{Years: d.date.Years, Months: r2}
	case Week:
		yearsMonths := DateDuration{Years: d.date.Years, Months: d.date.Months}
		weeksStart, err := cal.DateAdd(dt.Date, yearsMonths, Constrain)
		if err != nil {
			return nudgeResult{}, 0, err
		}
		weeksEnd := balanceISODate(weeksStart.Year, weeksStart.Month, weeksStart.Day+int(d.date.Days))
		until, err := cal.DateUntil(weeksStart, weeksEnd, Week)
		if err != nil {
			return nudgeResult{}, 0, err
		}
		r1 = roundNumberToIncrement(d.date.Weeks+until.Weeks, increment, Trunc)
		r2 = r1 + step
		start = DateDuration{Years: d.date.Years, Months: d.date.Months, Weeks: r1}
		end = DateDuration{Years: d.date.Years, Months: d.date.Months, Weeks: r2}
	case Day:
		r1 = roundNumberToIncrement(d.date.Days, increment, Trunc)
		r2 = r1 + step
		start = d.date.withDays(r1)
		end = d.date.withDays(r2)
	default:
		assert(false, "calendar nudge of a clock unit")
	}

	startDate, err := cal.DateAdd(dt.Date, start, Constrain)
	if err != nil {
		return nudgeResult{}, 0, err
	}
	endDate, err := cal.DateAdd(dt.Date, end, Constrain)
	if err != nil {
		return nudgeResult{}, 0, err
	}
	startNs, err := anchorInstant(tz, ISODateTime{Date: startDate, Time: dt.Time})
	if err != nil {
		return nudgeResult{}, 0, err
	}
	endNs, err := anchorInstant(tz, ISODateTime{Date: endDate, Time: dt.Time})
	if err != nil {
		return nudgeResult{}, 0, err
	}

	assert(startNs.Cmp(dest) != sign && dest.Cmp(endNs) != sign, "destination outside of the rounding window")
	assert(startNs != endNs, "empty rounding window")

	numerator := TimeDurationBetween(dest, startNs).Total()
	denominator := TimeDurationBetween(endNs, startNs).Total()
	negative := sign < 0
	abs1, abs2 := abs(r1), abs(r2)
	var rounded int64
	switch {
	case numerator.IsZero():
		rounded = abs1
	case numerator.Equal(denominator):
		rounded = abs2
	default:
		cmp := numerator.Add(numerator).Abs().Cmp(denominator.Abs())
		even := (abs1/increment)%2 == 0
		rounded = applyUnsignedRoundingMode(abs1, abs2, cmp, even, unsignedRoundingMode(mode, negative))
	}

	// r1 + numerator / denominator * increment * sign, with one division.
	total := f128.FromInt64(r1).Mul(denominator).
		Add(numerator.Mul(f128.FromInt64(step))).
		Div(denominator).
		Float64()

	nudge := nudgeResult{
		duration: InternalDuration{date: start},
		nudged:   startNs,
	}
	if rounded == abs2 {
		nudge = nudgeResult{
			duration:  InternalDuration{date: end},
			nudged:    endNs,
			didExpand: true,
		}
	}
	return nudge, total, nil
}

// nudgeToZonedTime rounds the clock part of a zoned duration, carrying into
// the days if the rounded time reaches past the length of the last local day.
func nudgeToZonedTime(sign int, d InternalDuration, dt ISODateTime, tz TimeZone, cal Calendar, increment int64, unit Unit, mode RoundingMode) (nudgeResult, error) {
	startDate, err := cal.DateAdd(dt.Date, d.date, Constrain)
	if err != nil {
		return nudgeResult{}, err
	}
	endDate := balanceISODate(startDate.Year, startDate.Month, startDate.Day+sign)
	startNs, err := EpochNanosecondsFor(tz, ISODateTime{Date: startDate, Time: dt.Time}, Compatible)
	if err != nil {
		return nudgeResult{}, err
	}
	endNs, err := EpochNanosecondsFor(tz, ISODateTime{Date: endDate, Time: dt.Time}, Compatible)
	if err != nil {
		return nudgeResult{}, err
	}
	daySpan := TimeDurationBetween(endNs, startNs)
	assert(daySpan.Sign() == sign, "local day of the wrong direction")

	inc := unit.incrementNanoseconds(increment)
	rounded, err := d.time.round(inc, mode)
	if err != nil {
		return nudgeResult{}, err
	}
	beyond, err := rounded.Sub(daySpan)
	if err != nil {
		return nudgeResult{}, err
	}

	days := d.date.Days
	nudged := startNs.add(rounded)
	didRoundBeyondDay := beyond.Sign() != -sign
	if didRoundBeyondDay {
		days += int64(sign)
		if rounded, err = beyond.round(inc, mode); err != nil {
			return nudgeResult{}, err
		}
		nudged = endNs.add(rounded)
	}
	return nudgeResult{
		duration:  combineDateAndTimeDuration(d.date.withDays(days), rounded),
		nudged:    nudged,
		didExpand: didRoundBeyondDay,
	}, nil
}

// nudgeToDayOrTime rounds a duration whose days are 24 hours long.
func nudgeToDayOrTime(d InternalDuration, dest EpochNanoseconds, largestUnit Unit, increment int64, smallestUnit Unit, mode RoundingMode) (nudgeResult, error) {
	t, err := d.time.Add24HourDays(d.date.Days)
	if err != nil {
		return nudgeResult{}, err
	}
	rounded, err := t.round(smallestUnit.incrementNanoseconds(increment), mode)
	if err != nil {
		return nudgeResult{}, err
	}
	diff, err := rounded.Sub(t)
	if err != nil {
		return nudgeResult{}, err
	}
	wholeDays, _ := t.divmodDays()
	roundedWholeDays, remainder := rounded.divmodDays()
	didExpandDays := sign(roundedWholeDays-wholeDays) == t.Sign()

	days := int64(0)
	if largestUnit.IsDateUnit() {
		days = roundedWholeDays
	} else {
		remainder = rounded
	}
	return nudgeResult{
		duration:  combineDateAndTimeDuration(d.date.withDays(days), remainder),
		nudged:    dest.add(diff),
		didExpand: didExpandDays,
	}, nil
}

// bubbleRelativeDuration carries a rounded duration into larger units
// while its end reaches the next whole unit, from the unit above
// smallestUnit up to largestUnit.
// Weeks are skipped unless largestUnit is a week.
func bubbleRelativeDuration(sign int, d InternalDuration, nudged EpochNanoseconds, dt ISODateTime, tz TimeZone, cal Calendar, largestUnit, smallestUnit Unit) (InternalDuration, error) {
	if smallestUnit == largestUnit {
		return d, nil
	}
	s := int64(sign)
	for unit := smallestUnit + 1; unit <= largestUnit; unit++ {
		if unit == Week && largestUnit != Week {
			continue
		}
		var end DateDuration
		switch unit {
		case Year:
			end = DateDuration{Years: d.date.Years + s}
		case Month:
			end = DateDuration{Years: d.date.Years, Months: d.date.Months + s}
		case Week:
			end = DateDuration{Years: d.date.Years, Months: d.date.Months, Weeks: d.date.Weeks + s}
		default:
			assert(false, "bubbling into a unit smaller than a week")
		}
		endDate, err := cal.DateAdd(dt.Date, end, Constrain)
		if err != nil {
			return InternalDuration{}, err
		}
		endNs, err := anchorInstant(tz, ISODateTime{Date: endDate, Time: dt.Time})
		if err != nil {
			return InternalDuration{}, err
		}
		if nudged.Cmp(endNs) == -sign {
			break
		}
		d = InternalDuration{date: end}
	}
	return d, nil
}
