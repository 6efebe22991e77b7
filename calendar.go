package tempo

// Overflow is the policy for a date that does not exist, such as
// February 30.
// The zero value is [Constrain].
type Overflow uint8

const (
	// Constrain clamps the month and the day to the nearest valid values.
	Constrain Overflow = iota
	// RejectOverflow fails with an error wrapping [ErrRange].
	RejectOverflow
)

// String implements the [fmt.Stringer] interface.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (o Overflow) String() string {
	if o == RejectOverflow {
		return "reject"
	}
	return "constrain"
}

// ParseOverflow converts "constrain" or "reject" to a policy.
func ParseOverflow(s string) (Overflow, error) {
	switch s {
	case "constrain":
		return Constrain, nil
	case "reject":
		return RejectOverflow, nil
	}
	return Constrain, typeError("unknown overflow %q", s)
}

// Calendar is a date arithmetic system built on top of ISO dates.
// Implementations must be pure functions of their arguments, and
// DateUntil must be the inverse of DateAdd under [Constrain].
type Calendar interface {
	// ID returns the identifier of the calendar, for example "iso8601".
	ID() string
	// DateAdd returns the date that is d after date.
	DateAdd(date ISODate, d DateDuration, overflow Overflow) (ISODate, error)
	// DateUntil returns the span from one to two, with no unit coarser than
	// largestUnit. The unit is a date unit.
	DateUntil(one, two ISODate, largestUnit Unit) (DateDuration, error)
}

// ISO8601 is the proleptic Gregorian calendar.
var ISO8601 Calendar = isoCalendar{}

// ParseCalendar returns the calendar with the given identifier.
// ParseCalendar returns an error wrapping [ErrRange] for unknown identifiers.
func ParseCalendar(id string) (Calendar, error) {
	switch id {
	case "iso8601", "":
		return ISO8601, nil
	}
	return nil, rangeError("unknown calendar %q", id)
}

type isoCalendar struct{}

func (isoCalendar) ID() string {
	return "iso8601"
}

func (isoCalendar) DateAdd(date ISODate, d DateDuration, overflow Overflow) (ISODate, error) {
	y, m := balanceISOYearMonth(int64(date.Year)+d.Years, int64(date.Month)+d.Months)
	if y < -maxEpochDays || y > maxEpochDays {
		return ISODate{}, rangeError("year %v is outside of the supported range", y)
	}
	regulated, err := regulateISODate(int(y), m, date.Day, overflow)
	if err != nil {
		return ISODate{}, err
	}
	days := d.Days + 7*d.Weeks
	if abs(days) > 3*maxEpochDays {
		return ISODate{}, rangeError("%v days is outside of the supported range", days)
	}
	result := balanceISODate(regulated.Year, regulated.Month, regulated.Day+int(days))
	if !result.withinLimits() {
		return ISODate{}, rangeError("date %v is outside of the supported range", result)
	}
	return result, nil
}

func (isoCalendar) DateUntil(one, two ISODate, largestUnit Unit) (DateDuration, error) {
	sign := -CompareISODate(one, two)
	if sign == 0 {
		return DateDuration{}, nil
	}

	var years, months int64
	if largestUnit == Year || largestUnit == Month {
		// Whole years first, then whole months, without passing two.
		candidateYears := int64(two.Year - one.Year)
		if candidateYears != 0 {
			candidateYears -= int64(sign)
		}
		for !isoDateSurpasses(sign, one.Year+int(candidateYears), one.Month, one.Day, two) {
			years = candidateYears
			candidateYears += int64(sign)
		}

		candidateMonths := int64(sign)
		for {
			y, m := balanceISOYearMonth(int64(one.Year)+years, int64(one.Month)+candidateMonths)
			if isoDateSurpasses(sign, int(y), m, one.Day, two) {
				break
			}
			months = candidateMonths
			candidateMonths += int64(sign)
		}

		if largestUnit == Month {
			months += years * 12
			years = 0
		}
	}

	y, m := balanceISOYearMonth(int64(one.Year)+years, int64(one.Month)+months)
	constrained := constrainISODate(int(y), m, one.Day)

	var weeks int64
	days := two.epochDays() - constrained.epochDays()
	if largestUnit == Week {
		weeks = days / 7
		days %= 7
	}
	return DateDuration{Years: years, Months: months, Weeks: weeks, Days: days}, nil
}

// isoDateSurpasses returns true if the date (year, month, day) is past two in
// the direction of sign. An invalid day is compared before it is constrained,
// so the 31st of a short month surpasses its last day.
func isoDateSurpasses(sign, year, month, day int, two ISODate) bool {
	if year != two.Year {
		return sign*cmpIntSign(year, two.Year) > 0
	}
	if month != two.Month {
		return sign*cmpIntSign(month, two.Month) > 0
	}
	if day != two.Day {
		return sign*cmpIntSign(day, two.Day) > 0
	}
	return false
}

func cmpIntSign(a, b int) int {
	return cmpInt(int64(a), int64(b))
}
