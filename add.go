package tempo

import "fmt"

// AddInstant returns the instant d after e.
//
// AddInstant returns an error wrapping [ErrRange] if the result is outside
// of the supported range.
func AddInstant(e EpochNanoseconds, d TimeDuration) (EpochNanoseconds, error) {
	return e.Add(d)
}

// AddDateTime applies a duration to a local date-time.
// The clock part is added to the wall-clock time first, and the days it
// carries are added to the calendar part.
//
// AddDateTime returns an error wrapping [ErrRange] if the date does not exist
// under the overflow policy or the result is outside of the supported range.
func AddDateTime(dt ISODateTime, cal Calendar, d InternalDuration, overflow Overflow) (ISODateTime, error) {
	r, err := addDateTime(dt, cal, d, overflow)
	if err != nil {
		return ISODateTime{}, fmt.Errorf("computing [%v + %v]: %w", dt, d, err)
	}
	return r, nil
}

func addDateTime(dt ISODateTime, cal Calendar, d InternalDuration, overflow Overflow) (ISODateTime, error) {
	if cal == nil {
		return ISODateTime{}, typeError("missing calendar")
	}
	deltaDays, t := addTime(dt.Time, d.time)
	date, err := cal.DateAdd(dt.Date, d.date.withDays(d.date.Days+deltaDays), overflow)
	if err != nil {
		return ISODateTime{}, err
	}
	r := ISODateTime{Date: date, Time: t}
	if !r.withinLimits() {
		return ISODateTime{}, rangeError("date-time %v is outside of the supported range", r)
	}
	return r, nil
}

// AddZonedDateTime applies a duration to an instant in a zone.
// The calendar part is added to the local date, keeping the wall-clock time,
// and the result is resolved with [Compatible]; the clock part is then added
// as exact elapsed time.
// A duration without a calendar part is added as exact elapsed time only.
//
// AddZonedDateTime returns an error wrapping [ErrRange] if the date does not
// exist under the overflow policy or the result is outside of the supported
// range.
func AddZonedDateTime(e EpochNanoseconds, tz TimeZone, cal Calendar, d InternalDuration, overflow Overflow) (EpochNanoseconds, error) {
	r, err := addZonedDateTime(e, tz, cal, d, overflow)
	if err != nil {
		return EpochNanoseconds{}, fmt.Errorf("computing [%v + %v]: %w", e, d, err)
	}
	return r, nil
}

func addZonedDateTime(e EpochNanoseconds, tz TimeZone, cal Calendar, d InternalDuration, overflow Overflow) (EpochNanoseconds, error) {
	if tz == nil || cal == nil {
		return EpochNanoseconds{}, typeError("missing time zone or calendar")
	}
	if d.date.IsZero() {
		return AddInstant(e, d.time)
	}
	dt := ISODateTimeFor(tz, e)
	date, err := cal.DateAdd(dt.Date, d.date, overflow)
	if err != nil {
		return EpochNanoseconds{}, err
	}
	intermediate, err := EpochNanosecondsFor(tz, ISODateTime{Date: date, Time: dt.Time}, Compatible)
	if err != nil {
		return EpochNanoseconds{}, err
	}
	return AddInstant(intermediate, d.time)
}
