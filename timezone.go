package tempo

import (
	"fmt"
	"time"
)

// TimeZone maps instants to the offset of local time from UTC.
// The offset for a given instant never changes, and it changes between
// instants only at a finite set of transitions, each less than 24 hours.
type TimeZone interface {
	// ID returns the identifier of the zone, for example "Europe/Paris"
	// or "+05:30".
	ID() string
	// OffsetNanoseconds returns the offset of local time at the instant.
	OffsetNanoseconds(e EpochNanoseconds) int64
}

// UTC is the zone of Coordinated Universal Time.
var UTC TimeZone = fixedZone{id: "UTC"}

type fixedZone struct {
	id     string
	offset int64
}

func (z fixedZone) ID() string {
	return z.id
}

func (z fixedZone) OffsetNanoseconds(EpochNanoseconds) int64 {
	return z.offset
}

// FixedOffset returns a zone with a constant offset in nanoseconds.
//
// FixedOffset returns an error wrapping [ErrRange] if the magnitude of the
// offset is 24 hours or more.
func FixedOffset(offset int64) (TimeZone, error) {
	if abs(offset) >= nsPerDay {
		return nil, fmt.Errorf("creating fixed offset: %w", rangeError("offset %v is 24 hours or more", offset))
	}
	return fixedZone{id: OffsetString(offset), offset: offset}, nil
}

// MustFixedOffset is like [FixedOffset] but panics if the offset is invalid.
func MustFixedOffset(offset int64) TimeZone {
	z, err := FixedOffset(offset)
	if err != nil {
		panic(fmt.Sprintf("FixedOffset(%v) failed: %v", offset, err))
	}
	return z
}

type namedZone struct {
	loc *time.Location
}

func (z namedZone) ID() string {
	return z.loc.String()
}

func (z namedZone) OffsetNanoseconds(e EpochNanoseconds) int64 {
	_, off := time.Unix(e.sec, int64(e.nsec)).In(z.loc).Zone()
	return int64(off) * nsPerSecond
}

// NewTimeZone wraps a [time.Location].
func NewTimeZone(loc *time.Location) TimeZone {
	if loc == nil {
		loc = time.UTC
	}
	return namedZone{loc: loc}
}

// LoadTimeZone returns a zone from the IANA time zone database,
// or a fixed-offset zone for identifiers in the ±HH:MM format.
//
// LoadTimeZone returns an error wrapping [ErrRange] if the zone is unknown.
func LoadTimeZone(id string) (TimeZone, error) {
	if id == "UTC" {
		return UTC, nil
	}
	if len(id) > 0 && (id[0] == '+' || id[0] == '-') {
		offset, err := parseOffset(id)
		if err != nil {
			return nil, fmt.Errorf("loading time zone %q: %w", id, err)
		}
		return FixedOffset(offset)
	}
	loc, err := time.LoadLocation(id)
	if err != nil {
		return nil, fmt.Errorf("loading time zone %q: %w: %w", id, ErrRange, err)
	}
	return namedZone{loc: loc}, nil
}

// MustLoadTimeZone is like [LoadTimeZone] but panics if the zone cannot be
// loaded.
// It simplifies safe initialization of global variables holding time zones.
func MustLoadTimeZone(id string) TimeZone {
	z, err := LoadTimeZone(id)
	if err != nil {
		panic(fmt.Sprintf("LoadTimeZone(%q) failed: %v", id, err))
	}
	return z
}

// parseOffset parses ±HH, ±HHMM, ±HH:MM or ±HH:MM:SS.
func parseOffset(s string) (int64, error) {
	sign := int64(1)
	if s[0] == '-' {
		sign = -1
	}
	pos := 1
	h, pos, ok := parseDigits(s, pos, 2)
	if !ok {
		return 0, typeError("malformed offset hours")
	}
	var m, sec int
	if pos < len(s) {
		if s[pos] == ':' {
			pos++
		}
		if m, pos, ok = parseDigits(s, pos, 2); !ok {
			return 0, typeError("malformed offset minutes")
		}
	}
	if pos < len(s) {
		if sec, pos, ok = parseField(s, pos, ':'); !ok {
			return 0, typeError("malformed offset seconds")
		}
	}
	if pos != len(s) {
		return 0, typeError("malformed offset")
	}
	if h > 23 || m > 59 || sec > 59 {
		return 0, rangeError("offset out of range")
	}
	return sign * (int64(h)*nsPerHour + int64(m)*nsPerMinute + int64(sec)*nsPerSecond), nil
}

// OffsetString formats an offset in nanoseconds as ±HH:MM, adding seconds
// and a fraction only when they are nonzero.
func OffsetString(offset int64) string {
	buf := make([]byte, 0, 19)
	if offset < 0 {
		buf = append(buf, '-')
		offset = -offset
	} else {
		buf = append(buf, '+')
	}
	buf = appendPadded(buf, offset/nsPerHour, 2)
	buf = append(buf, ':')
	buf = appendPadded(buf, offset/nsPerMinute%60, 2)
	sec, frac := offset/nsPerSecond%60, offset%nsPerSecond
	if sec != 0 || frac != 0 {
		buf = append(buf, ':')
		buf = appendPadded(buf, sec, 2)
	}
	if frac != 0 {
		digits := 9
		for frac%10 == 0 {
			frac /= 10
			digits--
		}
		buf = append(buf, '.')
		buf = appendPadded(buf, frac, digits)
	}
	return string(buf)
}
