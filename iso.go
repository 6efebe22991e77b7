package tempo

import (
	"fmt"
	"strconv"
	"time"
)

// ISODate is a date in the proleptic Gregorian calendar.
// Every calendar is built on top of it.
type ISODate struct {
	Year  int
	Month int // [1, 12]
	Day   int // [1, days in month]
}

// TimeRecord is a wall-clock time of day.
// Every field is non-negative and within its natural bound; day overflow
// is carried separately during balancing.
type TimeRecord struct {
	Hour        int // [0, 23]
	Minute      int // [0, 59]
	Second      int // [0, 59]
	Millisecond int // [0, 999]
	Microsecond int // [0, 999]
	Nanosecond  int // [0, 999]
}

// ISODateTime is a date and a wall-clock time without a time zone.
type ISODateTime struct {
	Date ISODate
	Time TimeRecord
}

// Midnight is the start of a day.
var Midnight = TimeRecord{}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// daysInMonth returns the length of a month in days.
func daysInMonth(year, month int) int {
	switch month {
	case 2:
		if isLeapYear(year) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	}
	return 31
}

// IsValid returns true if the month is within [1, 12] and the day exists
// in the month.
func (d ISODate) IsValid() bool {
	return d.Month >= 1 && d.Month <= 12 && d.Day >= 1 && d.Day <= daysInMonth(d.Year, d.Month)
}

// epochDays returns the number of days between the epoch and d.
// Out-of-range months and days are balanced.
func (d ISODate) epochDays() int64 {
	return floorDiv(time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC).Unix(), secondsPerDay)
}

// isoDateFromEpochDays returns the date that is the given number of days
// after the epoch.
func isoDateFromEpochDays(days int64) ISODate {
	y, m, d := time.Unix(days*secondsPerDay, 0).UTC().Date()
	return ISODate{Year: y, Month: int(m), Day: d}
}

// balanceISODate returns the date for fields that may overflow their natural
// bounds, such as the 32nd of a month.
func balanceISODate(year, month, day int) ISODate {
	return isoDateFromEpochDays(ISODate{Year: year, Month: month, Day: day}.epochDays())
}

// balanceISOYearMonth moves whole years out of an overflowing month.
func balanceISOYearMonth(year, month int64) (int64, int) {
	year += floorDiv(month-1, 12)
	month = floorMod(month-1, 12) + 1
	return year, int(month)
}

// constrainISODate clamps the month and the day to the nearest valid values.
func constrainISODate(year, month, day int) ISODate {
	month = min(max(month, 1), 12)
	day = min(max(day, 1), daysInMonth(year, month))
	return ISODate{Year: year, Month: month, Day: day}
}

// regulateISODate constrains or rejects an invalid date.
func regulateISODate(year, month, day int, overflow Overflow) (ISODate, error) {
	if overflow == RejectOverflow {
		d := ISODate{Year: year, Month: month, Day: day}
		if !d.IsValid() {
			return ISODate{}, rangeError("invalid date %v", d)
		}
		return d, nil
	}
	return constrainISODate(year, month, day), nil
}

// withinLimits returns true if noon of d is within the supported range.
func (d ISODate) withinLimits() bool {
	return ISODateTime{Date: d, Time: TimeRecord{Hour: 12}}.withinLimits()
}

// withinDaysRange returns true if d is at most 100,000,000 days away from
// the epoch.
func (d ISODate) withinDaysRange() bool {
	days := d.epochDays()
	return days >= -maxEpochDays && days <= maxEpochDays
}

// CompareISODate compares two dates and returns:
//
//	-1 if d < e
//	 0 if d = e
//	+1 if d > e
func CompareISODate(d, e ISODate) int {
	if c := cmpInt(int64(d.Year), int64(e.Year)); c != 0 {
		return c
	}
	if c := cmpInt(int64(d.Month), int64(e.Month)); c != 0 {
		return c
	}
	return cmpInt(int64(d.Day), int64(e.Day))
}

// String implements the [fmt.Stringer] interface and returns the date in
// the ISO 8601 format, with six-digit signed years outside of [0, 9999].
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (d ISODate) String() string {
	buf := make([]byte, 0, 16)
	switch {
	case d.Year < 0:
		buf = append(buf, '-')
		buf = appendPadded(buf, -int64(d.Year), 6)
	case d.Year > 9999:
		buf = append(buf, '+')
		buf = appendPadded(buf, int64(d.Year), 6)
	default:
		buf = appendPadded(buf, int64(d.Year), 4)
	}
	buf = append(buf, '-')
	buf = appendPadded(buf, int64(d.Month), 2)
	buf = append(buf, '-')
	buf = appendPadded(buf, int64(d.Day), 2)
	return string(buf)
}

// IsValid returns true if every field is within its natural bound.
func (t TimeRecord) IsValid() bool {
	return t.Hour >= 0 && t.Hour <= 23 &&
		t.Minute >= 0 && t.Minute <= 59 &&
		t.Second >= 0 && t.Second <= 59 &&
		t.Millisecond >= 0 && t.Millisecond <= 999 &&
		t.Microsecond >= 0 && t.Microsecond <= 999 &&
		t.Nanosecond >= 0 && t.Nanosecond <= 999
}

// nanoseconds returns the time since midnight.
func (t TimeRecord) nanoseconds() int64 {
	return int64(t.Hour)*nsPerHour + int64(t.Minute)*nsPerMinute + int64(t.Second)*nsPerSecond +
		int64(t.Millisecond)*nsPerMillisecond + int64(t.Microsecond)*nsPerMicrosecond + int64(t.Nanosecond)
}

// balanceTime normalizes overflowing clock fields and returns the number of
// whole days carried out of them.
func balanceTime(hour, minute, second, millisecond, microsecond, nanosecond int64) (int64, TimeRecord) {
	microsecond += floorDiv(nanosecond, 1000)
	nanosecond = floorMod(nanosecond, 1000)
	millisecond += floorDiv(microsecond, 1000)
	microsecond = floorMod(microsecond, 1000)
	second += floorDiv(millisecond, 1000)
	millisecond = floorMod(millisecond, 1000)
	minute += floorDiv(second, 60)
	second = floorMod(second, 60)
	hour += floorDiv(minute, 60)
	minute = floorMod(minute, 60)
	deltaDays := floorDiv(hour, 24)
	hour = floorMod(hour, 24)
	return deltaDays, TimeRecord{
		Hour:        int(hour),
		Minute:      int(minute),
		Second:      int(second),
		Millisecond: int(millisecond),
		Microsecond: int(microsecond),
		Nanosecond:  int(nanosecond),
	}
}

// addTime returns the wall-clock time d after t and the number of days
// carried.
func addTime(t TimeRecord, d TimeDuration) (int64, TimeRecord) {
	return balanceTime(
		int64(t.Hour),
		int64(t.Minute),
		int64(t.Second)+d.sec,
		int64(t.Millisecond),
		int64(t.Microsecond),
		int64(t.Nanosecond)+int64(d.subsec),
	)
}

// differenceTime returns the span from t to u, less than a day in magnitude.
func differenceTime(t, u TimeRecord) TimeDuration {
	d := timeDurationFromNanoseconds(u.nanoseconds() - t.nanoseconds())
	assert(abs(d.sec) < secondsPerDay, "time difference of a day or more")
	return d
}

// CompareTimeRecord compares two wall-clock times and returns:
//
//	-1 if t < u
//	 0 if t = u
//	+1 if t > u
func CompareTimeRecord(t, u TimeRecord) int {
	return cmpInt(t.nanoseconds(), u.nanoseconds())
}

// String implements the [fmt.Stringer] interface and returns the time in the
// ISO 8601 format, with trailing zeros of the fraction removed.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (t TimeRecord) String() string {
	buf := make([]byte, 0, 18)
	return string(t.append(buf))
}

func (t TimeRecord) append(buf []byte) []byte {
	buf = appendPadded(buf, int64(t.Hour), 2)
	buf = append(buf, ':')
	buf = appendPadded(buf, int64(t.Minute), 2)
	buf = append(buf, ':')
	buf = appendPadded(buf, int64(t.Second), 2)
	frac := int64(t.Millisecond)*nsPerMillisecond + int64(t.Microsecond)*nsPerMicrosecond + int64(t.Nanosecond)
	if frac != 0 {
		digits := 9
		for frac%10 == 0 {
			frac /= 10
			digits--
		}
		buf = append(buf, '.')
		buf = appendPadded(buf, frac, digits)
	}
	return buf
}

// NewISODateTime validates and combines a date and a time.
//
// NewISODateTime returns an error wrapping [ErrRange] if the date or the time
// is invalid, or the date-time is outside of the supported range.
func NewISODateTime(date ISODate, t TimeRecord) (ISODateTime, error) {
	dt := ISODateTime{Date: date, Time: t}
	if err := dt.validate(); err != nil {
		return ISODateTime{}, fmt.Errorf("validating %v: %w", dt, err)
	}
	return dt, nil
}

// MustNewISODateTime is like [NewISODateTime] but panics if the date-time
// is invalid.
func MustNewISODateTime(date ISODate, t TimeRecord) ISODateTime {
	dt, err := NewISODateTime(date, t)
	if err != nil {
		panic(fmt.Sprintf("NewISODateTime(%v, %v) failed: %v", date, t, err))
	}
	return dt
}

func (dt ISODateTime) validate() error {
	if !dt.Date.IsValid() {
		return rangeError("invalid date %v", dt.Date)
	}
	if !dt.Time.IsValid() {
		return rangeError("invalid time %v", dt.Time)
	}
	if !dt.withinLimits() {
		return rangeError("date-time %v is outside of the supported range", dt)
	}
	return nil
}

// ParseISODateTime converts a string in one of the following formats:
//
//	2006-01-02
//	2006-01-02T15:04
//	2006-01-02T15:04:05
//	2006-01-02T15:04:05.999999999
//	+275760-09-13T00:00
//	-000001-01-01T00:00
//
// ParseISODateTime returns an error wrapping [ErrType] if the string is
// malformed, or wrapping [ErrRange] if the date-time is invalid.
func ParseISODateTime(s string) (ISODateTime, error) {
	dt, err := parseISODateTime(s)
	if err != nil {
		return ISODateTime{}, fmt.Errorf("parsing %q: %w", s, err)
	}
	if err := dt.validate(); err != nil {
		return ISODateTime{}, fmt.Errorf("parsing %q: %w", s, err)
	}
	return dt, nil
}

// MustParseISODateTime is like [ParseISODateTime] but panics if the string
// cannot be parsed.
// It simplifies safe initialization of global variables holding date-times.
func MustParseISODateTime(s string) ISODateTime {
	dt, err := ParseISODateTime(s)
	if err != nil {
		panic(fmt.Sprintf("ParseISODateTime(%q) failed: %v", s, err))
	}
	return dt
}

func parseISODateTime(s string) (ISODateTime, error) {
	var dt ISODateTime
	pos := 0

	// Year
	yearDigits := 4
	neg := false
	if pos < len(s) && (s[pos] == '+' || s[pos] == '-') {
		neg = s[pos] == '-'
		yearDigits = 6
		pos++
	}
	year, pos, ok := parseDigits(s, pos, yearDigits)
	if !ok {
		return ISODateTime{}, typeError("malformed year")
	}
	if neg {
		if year == 0 {
			return ISODateTime{}, typeError("negative zero year")
		}
		year = -year
	}
	dt.Date.Year = year

	// Month and day
	if dt.Date.Month, pos, ok = parseField(s, pos, '-'); !ok {
		return ISODateTime{}, typeError("malformed month")
	}
	if dt.Date.Day, pos, ok = parseField(s, pos, '-'); !ok {
		return ISODateTime{}, typeError("malformed day")
	}
	if pos == len(s) {
		return dt, nil
	}

	// Hour and minute
	if pos < len(s) && (s[pos] == 'T' || s[pos] == 't' || s[pos] == ' ') {
		pos++
	} else {
		return ISODateTime{}, typeError("missing time designator")
	}
	if dt.Time.Hour, pos, ok = parseDigits(s, pos, 2); !ok {
		return ISODateTime{}, typeError("malformed hour")
	}
	if dt.Time.Minute, pos, ok = parseField(s, pos, ':'); !ok {
		return ISODateTime{}, typeError("malformed minute")
	}
	if pos == len(s) {
		return dt, nil
	}

	// Second and fraction
	if dt.Time.Second, pos, ok = parseField(s, pos, ':'); !ok {
		return ISODateTime{}, typeError("malformed second")
	}
	if pos == len(s) {
		return dt, nil
	}
	if s[pos] != '.' && s[pos] != ',' {
		return ISODateTime{}, typeError("unexpected character %q", s[pos])
	}
	pos++
	start := pos
	frac := 0
	for ; pos < len(s) && s[pos] >= '0' && s[pos] <= '9'; pos++ {
		if pos-start == 9 {
			return ISODateTime{}, typeError("too many fractional digits")
		}
		frac = frac*10 + int(s[pos]-'0')
	}
	if pos == start || pos != len(s) {
		return ISODateTime{}, typeError("malformed fraction")
	}
	for i := pos - start; i < 9; i++ {
		frac *= 10
	}
	dt.Time.Millisecond = frac / nsPerMillisecond
	dt.Time.Microsecond = frac / nsPerMicrosecond % 1000
	dt.Time.Nanosecond = frac % 1000
	return dt, nil
}

// parseField parses a separator followed by two digits.
func parseField(s string, pos int, sep byte) (int, int, bool) {
	if pos >= len(s) || s[pos] != sep {
		return 0, pos, false
	}
	return parseDigits(s, pos+1, 2)
}

// parseDigits parses exactly n decimal digits.
func parseDigits(s string, pos, n int) (int, int, bool) {
	if pos+n > len(s) {
		return 0, pos, false
	}
	v := 0
	for i := pos; i < pos+n; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, pos, false
		}
		v = v*10 + int(c-'0')
	}
	return v, pos + n, true
}

// CompareISODateTime compares two date-times and returns:
//
//	-1 if dt < du
//	 0 if dt = du
//	+1 if dt > du
func CompareISODateTime(dt, du ISODateTime) int {
	if c := CompareISODate(dt.Date, du.Date); c != 0 {
		return c
	}
	return CompareTimeRecord(dt.Time, du.Time)
}

// utcEpochNanoseconds interprets dt as a UTC date-time.
// The result is not checked against the supported range.
func (dt ISODateTime) utcEpochNanoseconds() EpochNanoseconds {
	sec := dt.Date.epochDays()*secondsPerDay +
		int64(dt.Time.Hour)*3600 + int64(dt.Time.Minute)*60 + int64(dt.Time.Second)
	nsec := int64(dt.Time.Millisecond)*nsPerMillisecond + int64(dt.Time.Microsecond)*nsPerMicrosecond + int64(dt.Time.Nanosecond)
	return epochUnsafe(sec, nsec)
}

// isoDateTimeFromEpoch returns the UTC date-time of an instant.
func isoDateTimeFromEpoch(e EpochNanoseconds) ISODateTime {
	days := floorDiv(e.sec, secondsPerDay)
	_, t := balanceTime(0, 0, floorMod(e.sec, secondsPerDay), 0, 0, int64(e.nsec))
	return ISODateTime{Date: isoDateFromEpochDays(days), Time: t}
}

// withinLimits returns true if dt is less than a day away from the
// supported instants, so that it has an instant in some time zone.
func (dt ISODateTime) withinLimits() bool {
	days := dt.Date.epochDays()
	if days < -maxEpochDays-1 || days > maxEpochDays+1 {
		return false
	}
	e := dt.utcEpochNanoseconds()
	lower := EpochNanoseconds{sec: -maxEpochSeconds - secondsPerDay}
	upper := EpochNanoseconds{sec: maxEpochSeconds + secondsPerDay}
	return e.Cmp(lower) > 0 && e.Cmp(upper) < 0
}

// String implements the [fmt.Stringer] interface.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (dt ISODateTime) String() string {
	buf := make([]byte, 0, 32)
	buf = append(buf, dt.Date.String()...)
	buf = append(buf, 'T')
	return string(dt.Time.append(buf))
}

func appendPadded(buf []byte, n int64, width int) []byte {
	s := strconv.FormatInt(n, 10)
	for i := len(s); i < width; i++ {
		buf = append(buf, '0')
	}
	return append(buf, s...)
}
