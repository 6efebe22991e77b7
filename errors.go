package tempo

import (
	"errors"
	"fmt"
)

var (
	// ErrRange is returned when a value is outside of its valid range or
	// violates a cross-field rule, such as mixed-sign duration fields,
	// an invalid day of month, or an instant beyond the supported interval.
	ErrRange = errors.New("value out of range")

	// ErrType is returned when an input is structurally invalid, such as
	// a missing calendar, an unknown unit name or malformed text.
	ErrType = errors.New("invalid value type")

	// ErrAmbiguous is returned when a local date-time maps to zero or several
	// instants and the reject policy is in effect.
	// It wraps [ErrRange].
	ErrAmbiguous = fmt.Errorf("%w: ambiguous local date-time", ErrRange)

	errAssertion = errors.New("internal assertion failed")
)

// assert panics if cond is false.
// A failed assertion indicates a defect in this package, not bad input.
func assert(cond bool, msg string) {
	if !cond {
		panic(fmt.Errorf("%w: %s", errAssertion, msg))
	}
}

// rangeError returns an error wrapping [ErrRange].
func rangeError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrRange, fmt.Sprintf(format, args...))
}

// typeError returns an error wrapping [ErrType].
func typeError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrType, fmt.Sprintf(format, args...))
}
