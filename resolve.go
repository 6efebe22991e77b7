package tempo

import (
	"fmt"
	"time"
)

// Disambiguation is the policy for a local date-time that has no instant
// in a zone, because the clock skipped it, or several instants, because the
// clock repeated it.
// The zero value is [Compatible].
type Disambiguation uint8

const (
	// Compatible picks the earlier of repeated instants, and for a skipped
	// local time the instant obtained by moving forward by the length of
	// the gap.
	Compatible Disambiguation = iota
	// Earlier picks the earlier instant, moving backward across a gap.
	Earlier
	// Later picks the later instant, moving forward across a gap.
	Later
	// Reject fails with [ErrAmbiguous].
	Reject
)

var disambiguationNames = [...]string{
	Compatible: "compatible",
	Earlier:    "earlier",
	Later:      "later",
	Reject:     "reject",
}

// String implements the [fmt.Stringer] interface.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (d Disambiguation) String() string {
	if int(d) < len(disambiguationNames) {
		return disambiguationNames[d]
	}
	return fmt.Sprintf("Disambiguation(%d)", uint8(d))
}

// ParseDisambiguation converts one of "compatible", "earlier", "later" and
// "reject" to a policy.
func ParseDisambiguation(s string) (Disambiguation, error) {
	for d, name := range disambiguationNames {
		if name == s {
			return Disambiguation(d), nil
		}
	}
	return Compatible, typeError("unknown disambiguation %q", s)
}

// Bounds of the transition search.
var (
	// Offsets before this instant are taken as local mean time.
	beforeFirstDST = utcInstant(1847, 1, 1)
	// Transitions are announced a few years ahead, so the search may stop
	// a few years past this instant or the search start, whichever is later.
	transitionHorizon = utcInstant(2040, 1, 1)
	// Rules of these zones are not cyclic; their precomputed transitions
	// end at this instant.
	irregularZoneCutoff = utcInstant(2088, 1, 1)
)

const (
	transitionLookahead = 3 * 366 * nsPerDay
	maxTransitionStep   = 14 * nsPerDay
)

var irregularZones = map[string]bool{
	"Africa/Casablanca": true,
	"Africa/El_Aaiun":   true,
}

func utcInstant(year int, month time.Month, day int) EpochNanoseconds {
	return EpochNanoseconds{sec: time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Unix()}
}

// ISODateTimeFor returns the local date-time of an instant in a zone.
func ISODateTimeFor(tz TimeZone, e EpochNanoseconds) ISODateTime {
	return isoDateTimeFromEpoch(e.addNanoseconds(tz.OffsetNanoseconds(e)))
}

// PossibleInstants returns the instants whose local date-time in the zone is
// dt, in ascending order.
// The result has one element for most date-times, two for a repeated
// local time and none for a skipped one.
//
// PossibleInstants returns an error wrapping [ErrRange] if a matching
// instant is outside of the supported range.
func PossibleInstants(tz TimeZone, dt ISODateTime) ([]EpochNanoseconds, error) {
	utc := dt.utcEpochNanoseconds()
	if z, ok := tz.(fixedZone); ok {
		if !dt.Date.withinDaysRange() {
			return nil, rangeError("date %v is outside of the supported range", dt.Date)
		}
		e := utc.addNanoseconds(-z.offset)
		if err := e.validate(); err != nil {
			return nil, err
		}
		return []EpochNanoseconds{e}, nil
	}

	if !dt.Date.withinDaysRange() {
		return nil, rangeError("date %v is outside of the supported range", dt.Date)
	}
	earlier := utc.addNanoseconds(-nsPerDay)
	if earlier.Cmp(MinEpochNanoseconds) < 0 {
		earlier = utc
	}
	later := utc.addNanoseconds(nsPerDay)
	if later.Cmp(MaxEpochNanoseconds) > 0 {
		later = utc
	}
	offsets := []int64{tz.OffsetNanoseconds(earlier)}
	if o := tz.OffsetNanoseconds(later); o != offsets[0] {
		offsets = append(offsets, o)
	}

	var candidates []EpochNanoseconds
	for _, offset := range offsets {
		e := utc.addNanoseconds(-offset)
		if CompareISODateTime(ISODateTimeFor(tz, e), dt) != 0 {
			continue
		}
		if err := e.validate(); err != nil {
			return nil, err
		}
		candidates = append(candidates, e)
	}
	if len(candidates) == 2 && candidates[0].Cmp(candidates[1]) > 0 {
		candidates[0], candidates[1] = candidates[1], candidates[0]
	}
	return candidates, nil
}

// Disambiguate picks one instant from the candidates of [PossibleInstants]
// according to the policy.
//
// Disambiguate returns an error if:
//   - the policy is [Reject] and the number of candidates is not one
//     ([ErrAmbiguous]);
//   - the local time is skipped and the day around it is outside of the
//     supported range ([ErrRange]).
func Disambiguate(candidates []EpochNanoseconds, tz TimeZone, dt ISODateTime, policy Disambiguation) (EpochNanoseconds, error) {
	switch n := len(candidates); {
	case n == 1:
		return candidates[0], nil
	case n > 1:
		switch policy {
		case Earlier, Compatible:
			return candidates[0], nil
		case Later:
			return candidates[n-1], nil
		}
		return EpochNanoseconds{}, fmt.Errorf("resolving %v in %v: %w: repeated local time", dt, tz.ID(), ErrAmbiguous)
	}

	if policy == Reject {
		return EpochNanoseconds{}, fmt.Errorf("resolving %v in %v: %w: skipped local time", dt, tz.ID(), ErrAmbiguous)
	}

	utc := dt.utcEpochNanoseconds()
	dayBefore := utc.addNanoseconds(-nsPerDay)
	if err := dayBefore.validate(); err != nil {
		return EpochNanoseconds{}, fmt.Errorf("resolving %v in %v: %w", dt, tz.ID(), err)
	}
	dayAfter := utc.addNanoseconds(nsPerDay)
	if err := dayAfter.validate(); err != nil {
		return EpochNanoseconds{}, fmt.Errorf("resolving %v in %v: %w", dt, tz.ID(), err)
	}
	gap := tz.OffsetNanoseconds(dayAfter) - tz.OffsetNanoseconds(dayBefore)
	assert(abs(gap) <= nsPerDay, "offset jump of more than a day")

	shift := gap
	if policy == Earlier {
		shift = -gap
	}
	deltaDays, t := addTime(dt.Time, timeDurationFromNanoseconds(shift))
	shifted := ISODateTime{
		Date: balanceISODate(dt.Date.Year, dt.Date.Month, dt.Date.Day+int(deltaDays)),
		Time: t,
	}
	possible, err := PossibleInstants(tz, shifted)
	if err != nil {
		return EpochNanoseconds{}, fmt.Errorf("resolving %v in %v: %w", dt, tz.ID(), err)
	}
	assert(len(possible) > 0, "no instant after moving across a gap")
	if policy == Earlier {
		return possible[0], nil
	}
	return possible[len(possible)-1], nil
}

// EpochNanosecondsFor returns the instant of a local date-time in a zone.
func EpochNanosecondsFor(tz TimeZone, dt ISODateTime, policy Disambiguation) (EpochNanoseconds, error) {
	candidates, err := PossibleInstants(tz, dt)
	if err != nil {
		return EpochNanoseconds{}, fmt.Errorf("resolving %v in %v: %w", dt, tz.ID(), err)
	}
	return Disambiguate(candidates, tz, dt, policy)
}

// StartOfDay returns the first instant of a local date in a zone.
// This is usually midnight, but some zones skip midnight on the day of a
// transition.
func StartOfDay(tz TimeZone, date ISODate) (EpochNanoseconds, error) {
	dt := ISODateTime{Date: date, Time: Midnight}
	candidates, err := PossibleInstants(tz, dt)
	if err != nil {
		return EpochNanoseconds{}, fmt.Errorf("computing start of %v in %v: %w", date, tz.ID(), err)
	}
	if len(candidates) > 0 {
		return candidates[0], nil
	}
	dayBefore := dt.utcEpochNanoseconds().addNanoseconds(-nsPerDay)
	if err := dayBefore.validate(); err != nil {
		return EpochNanoseconds{}, fmt.Errorf("computing start of %v in %v: %w", date, tz.ID(), err)
	}
	e, ok := NextTransition(tz, dayBefore)
	assert(ok, "skipped midnight without a transition")
	return e, nil
}

// NextTransition returns the first instant after e at which the offset of
// the zone changes.
// It returns false if the zone has a fixed offset or no transition is found
// before the search horizon.
// The offset is sampled at steps that grow from one day to two weeks, so a
// pair of transitions closer together than the current step, after which the
// offset is back to its earlier value, is not detected.
func NextTransition(tz TimeZone, e EpochNanoseconds) (EpochNanoseconds, bool) {
	if _, ok := tz.(fixedZone); ok {
		return EpochNanoseconds{}, false
	}
	if e.Cmp(beforeFirstDST) < 0 {
		return NextTransition(tz, beforeFirstDST)
	}
	start := e
	if start.Cmp(transitionHorizon) < 0 {
		start = transitionHorizon
	}
	upper := start.addNanoseconds(transitionLookahead)

	left := e
	leftOffset := tz.OffsetNanoseconds(left)
	step := int64(nsPerDay)
	for left.Cmp(upper) < 0 {
		right := left.addNanoseconds(step)
		if right.Cmp(MaxEpochNanoseconds) > 0 {
			return EpochNanoseconds{}, false
		}
		if rightOffset := tz.OffsetNanoseconds(right); rightOffset != leftOffset {
			return bisect(tz, left, right, leftOffset), true
		}
		left = right
		step = min(2*step, maxTransitionStep)
	}
	return EpochNanoseconds{}, false
}

// PreviousTransition returns the last instant before e at which the offset
// of the zone changes.
// It returns false if the zone has a fixed offset or no transition is found
// after the earliest searched instant.
// It samples the offset the same way as [NextTransition] and shares its
// blind spot for short-lived offset changes.
func PreviousTransition(tz TimeZone, e EpochNanoseconds) (EpochNanoseconds, bool) {
	if _, ok := tz.(fixedZone); ok {
		return EpochNanoseconds{}, false
	}
	if irregularZones[tz.ID()] && e.Cmp(irregularZoneCutoff) > 0 {
		return PreviousTransition(tz, irregularZoneCutoff)
	}

	// Past the horizon a zone either keeps a cyclic rule or never changes again.
	lookahead := transitionHorizon.addNanoseconds(transitionLookahead)
	if e.Cmp(lookahead) > 0 {
		prev, ok := PreviousTransition(tz, lookahead)
		if !ok || prev.Cmp(transitionHorizon) < 0 {
			return prev, ok
		}
	}

	right := e.addNanoseconds(-1)
	if right.Cmp(beforeFirstDST) < 0 {
		return EpochNanoseconds{}, false
	}
	rightOffset := tz.OffsetNanoseconds(right)
	step := int64(nsPerDay)
	for right.Cmp(beforeFirstDST) > 0 {
		left := right.addNanoseconds(-step)
		if left.Cmp(beforeFirstDST) < 0 {
			left = beforeFirstDST
		}
		leftOffset := tz.OffsetNanoseconds(left)
		if leftOffset != rightOffset {
			return bisect(tz, left, right, leftOffset), true
		}
		right = left
		step = min(2*step, maxTransitionStep)
	}
	return EpochNanoseconds{}, false
}

// bisect returns the first instant in (left, right] whose offset differs
// from the offset at left.
func bisect(tz TimeZone, left, right EpochNanoseconds, leftOffset int64) EpochNanoseconds {
	for TimeDurationBetween(right, left).Cmp(TimeDuration{subsec: 1}) > 0 {
		mid := midpoint(left, right)
		if tz.OffsetNanoseconds(mid) == leftOffset {
			left = mid
		} else {
			right = mid
		}
	}
	return right
}
