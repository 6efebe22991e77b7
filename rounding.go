package tempo

import (
	"errors"
	"fmt"
)

var errInvalidRoundingMode = errors.New("invalid rounding mode")

// RoundingMode is the tie-break policy used when a value is rounded to a
// multiple of an increment.
// The zero value is [HalfExpand].
type RoundingMode uint8

const (
	// HalfExpand rounds to the nearest multiple, with ties away from zero.
	HalfExpand RoundingMode = iota
	// Ceil rounds toward positive infinity.
	Ceil
	// Floor rounds toward negative infinity.
	Floor
	// Expand rounds away from zero.
	Expand
	// Trunc rounds toward zero.
	Trunc
	// HalfCeil rounds to the nearest multiple, with ties toward positive infinity.
	HalfCeil
	// HalfFloor rounds to the nearest multiple, with ties toward negative infinity.
	HalfFloor
	// HalfTrunc rounds to the nearest multiple, with ties toward zero.
	HalfTrunc
	// HalfEven rounds to the nearest multiple, with ties to the even multiple.
	HalfEven
)

var roundingModeNames = [...]string{
	HalfExpand: "halfExpand",
	Ceil:       "ceil",
	Floor:      "floor",
	Expand:     "expand",
	Trunc:      "trunc",
	HalfCeil:   "halfCeil",
	HalfFloor:  "halfFloor",
	HalfTrunc:  "halfTrunc",
	HalfEven:   "halfEven",
}

// ParseRoundingMode converts a string to a rounding mode.
// The input must be one of:
//
//	ceil, floor, expand, trunc,
//	halfCeil, halfFloor, halfExpand, halfTrunc, halfEven
//
// ParseRoundingMode returns an error wrapping [ErrType] if the string is not
// a known mode.
func ParseRoundingMode(s string) (RoundingMode, error) {
	for m, name := range roundingModeNames {
		if name == s {
			return RoundingMode(m), nil
		}
	}
	return HalfExpand, fmt.Errorf("parsing %q: %w: %w", s, ErrType, errInvalidRoundingMode)
}

// String implements the [fmt.Stringer] interface.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (m RoundingMode) String() string {
	if int(m) < len(roundingModeNames) {
		return roundingModeNames[m]
	}
	return fmt.Sprintf("RoundingMode(%d)", uint8(m))
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
//
// [encoding.TextUnmarshaler]: https://pkg.go.dev/encoding#TextUnmarshaler
func (m *RoundingMode) UnmarshalText(text []byte) error {
	var err error
	*m, err = ParseRoundingMode(string(text))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", HalfExpand, err)
	}
	return nil
}

// MarshalText implements the [encoding.TextMarshaler] interface.
//
// [encoding.TextMarshaler]: https://pkg.go.dev/encoding#TextMarshaler
func (m RoundingMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// unsignedRounding is a rounding policy applied to a magnitude.
type unsignedRounding uint8

const (
	roundToZero unsignedRounding = iota
	roundToInfinity
	roundHalfToZero
	roundHalfToInfinity
	roundHalfToEven
)

// unsignedRoundingMode maps a tie-break policy to the policy applied to the
// magnitude of a quantity with the given sign.
func unsignedRoundingMode(mode RoundingMode, negative bool) unsignedRounding {
	switch mode {
	case Ceil:
		if negative {
			return roundToZero
		}
		return roundToInfinity
	case Floor:
		if negative {
			return roundToInfinity
		}
		return roundToZero
	case Expand:
		return roundToInfinity
	case Trunc:
		return roundToZero
	case HalfCeil:
		if negative {
			return roundHalfToZero
		}
		return roundHalfToInfinity
	case HalfFloor:
		if negative {
			return roundHalfToInfinity
		}
		return roundHalfToZero
	case HalfTrunc:
		return roundHalfToZero
	case HalfEven:
		return roundHalfToEven
	}
	return roundHalfToInfinity
}

// applyUnsignedRoundingMode chooses between the lower candidate r1 and the
// upper candidate r2.
// cmp compares twice the distance from r1 against the distance between
// r1 and r2, and even reports whether r1 is an even multiple.
func applyUnsignedRoundingMode[T any](r1, r2 T, cmp int, even bool, mode unsignedRounding) T {
	switch mode {
	case roundToZero:
		return r1
	case roundToInfinity:
		return r2
	}
	switch {
	case cmp < 0:
		return r1
	case cmp > 0:
		return r2
	}
	switch mode {
	case roundHalfToZero:
		return r1
	case roundHalfToInfinity:
		return r2
	}
	if even {
		return r1
	}
	return r2
}

// roundNumberToIncrement rounds quantity to a multiple of increment.
// The increment must be positive.
func roundNumberToIncrement(quantity, increment int64, mode RoundingMode) int64 {
	quotient := quantity / increment
	remainder := quantity % increment
	negative := quantity < 0
	r1 := abs(quotient)
	r2 := r1 + 1
	cmp := cmpInt(abs(remainder)*2, increment)
	even := r1%2 == 0
	rounded := r1
	if remainder != 0 {
		rounded = applyUnsignedRoundingMode(r1, r2, cmp, even, unsignedRoundingMode(mode, negative))
	}
	if negative {
		rounded = -rounded
	}
	return rounded * increment
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int64) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
