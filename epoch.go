package tempo

import (
	"fmt"
	"math/big"
	"time"
)

const (
	// maxEpochDays is the distance of the supported instants from the epoch.
	maxEpochDays = 100_000_000
	// maxEpochSeconds is maxEpochDays expressed in seconds.
	maxEpochSeconds = maxEpochDays * secondsPerDay
)

var (
	// MinEpochNanoseconds is the earliest supported instant,
	// 100,000,000 days before 1970-01-01T00:00:00Z.
	MinEpochNanoseconds = EpochNanoseconds{sec: -maxEpochSeconds}
	// MaxEpochNanoseconds is the latest supported instant,
	// 100,000,000 days after 1970-01-01T00:00:00Z.
	MaxEpochNanoseconds = EpochNanoseconds{sec: maxEpochSeconds}
)

// EpochNanoseconds is an exact instant, the signed number of nanoseconds
// elapsed since 1970-01-01T00:00:00Z.
// Its zero value is the epoch itself.
//
// The count is held as whole seconds and a nanosecond part in [0, 10^9),
// so the value is comparable with the == operator.
type EpochNanoseconds struct {
	sec  int64
	nsec int32
}

// epochUnsafe normalizes a (seconds, nanoseconds) pair without checking the range.
func epochUnsafe(sec, nsec int64) EpochNanoseconds {
	sec += floorDiv(nsec, nsPerSecond)
	nsec = floorMod(nsec, nsPerSecond)
	return EpochNanoseconds{sec: sec, nsec: int32(nsec)}
}

// NewEpochNanoseconds returns the instant sec seconds and nsec nanoseconds
// after the epoch. The nanoseconds may be outside of [0, 10^9).
//
// NewEpochNanoseconds returns an error wrapping [ErrRange] if the instant is
// more than 100,000,000 days away from the epoch.
func NewEpochNanoseconds(sec, nsec int64) (EpochNanoseconds, error) {
	e := epochUnsafe(sec, nsec)
	if !e.isValid() {
		return EpochNanoseconds{}, fmt.Errorf("converting %v seconds and %v nanoseconds: %w", sec, nsec, errEpochRange(e))
	}
	return e, nil
}

// MustNewEpochNanoseconds is like [NewEpochNanoseconds] but panics if the
// instant is out of range.
func MustNewEpochNanoseconds(sec, nsec int64) EpochNanoseconds {
	e, err := NewEpochNanoseconds(sec, nsec)
	if err != nil {
		panic(fmt.Sprintf("NewEpochNanoseconds(%v, %v) failed: %v", sec, nsec, err))
	}
	return e
}

// NewEpochNanosecondsFromBigInt converts a nanosecond count to an instant.
//
// NewEpochNanosecondsFromBigInt returns an error wrapping [ErrRange] if the
// instant is out of range.
func NewEpochNanosecondsFromBigInt(ns *big.Int) (EpochNanoseconds, error) {
	q, r := new(big.Int).DivMod(ns, big.NewInt(nsPerSecond), new(big.Int))
	if !q.IsInt64() || q.Int64() > maxEpochSeconds || q.Int64() < -maxEpochSeconds {
		return EpochNanoseconds{}, fmt.Errorf("converting %v nanoseconds: %w", ns, rangeError("instant outside of the supported range"))
	}
	return NewEpochNanoseconds(q.Int64(), r.Int64())
}

// NewEpochNanosecondsFromTime converts a [time.Time] to an instant.
func NewEpochNanosecondsFromTime(t time.Time) (EpochNanoseconds, error) {
	return NewEpochNanoseconds(t.Unix(), int64(t.Nanosecond()))
}

func errEpochRange(e EpochNanoseconds) error {
	return rangeError("instant %v is outside of the supported range", e)
}

// isValid returns true if e is within 100,000,000 days from the epoch.
func (e EpochNanoseconds) isValid() bool {
	return e.Cmp(MinEpochNanoseconds) >= 0 && e.Cmp(MaxEpochNanoseconds) <= 0
}

// validate returns an error wrapping [ErrRange] if e is out of range.
func (e EpochNanoseconds) validate() error {
	if !e.isValid() {
		return errEpochRange(e)
	}
	return nil
}

// Unix returns the whole seconds and the nanoseconds in [0, 10^9) since the epoch.
func (e EpochNanoseconds) Unix() (sec, nsec int64) {
	return e.sec, int64(e.nsec)
}

// BigInt returns the nanosecond count as a [big.Int].
func (e EpochNanoseconds) BigInt() *big.Int {
	b := big.NewInt(e.sec)
	b.Mul(b, big.NewInt(nsPerSecond))
	return b.Add(b, big.NewInt(int64(e.nsec)))
}

// Time returns e as a [time.Time] in UTC.
func (e EpochNanoseconds) Time() time.Time {
	return time.Unix(e.sec, int64(e.nsec)).UTC()
}

// Add returns e shifted by d.
//
// Add returns an error wrapping [ErrRange] if the result is out of range.
func (e EpochNanoseconds) Add(d TimeDuration) (EpochNanoseconds, error) {
	f := e.add(d)
	if err := f.validate(); err != nil {
		return EpochNanoseconds{}, fmt.Errorf("computing [%v + %v]: %w", e, d, err)
	}
	return f, nil
}

// add returns e shifted by d without checking the range.
func (e EpochNanoseconds) add(d TimeDuration) EpochNanoseconds {
	return epochUnsafe(e.sec+d.sec, int64(e.nsec)+int64(d.subsec))
}

// addNanoseconds returns e shifted by ns without checking the range.
func (e EpochNanoseconds) addNanoseconds(ns int64) EpochNanoseconds {
	return epochUnsafe(e.sec+ns/nsPerSecond, int64(e.nsec)+ns%nsPerSecond)
}

// Cmp compares e and f and returns:
//
//	-1 if e < f
//	 0 if e = f
//	+1 if e > f
func (e EpochNanoseconds) Cmp(f EpochNanoseconds) int {
	if c := cmpInt(e.sec, f.sec); c != 0 {
		return c
	}
	return cmpInt(int64(e.nsec), int64(f.nsec))
}

// String implements the [fmt.Stringer] interface and returns the exact
// nanosecond count.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (e EpochNanoseconds) String() string {
	return e.BigInt().String()
}

// midpoint returns the instant halfway between e and f, rounded toward e.
// The instants must be less than 292 years apart.
func midpoint(e, f EpochNanoseconds) EpochNanoseconds {
	span := (f.sec-e.sec)*nsPerSecond + int64(f.nsec) - int64(e.nsec)
	return e.addNanoseconds(span / 2)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}
