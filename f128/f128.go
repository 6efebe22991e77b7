/*
Package f128 implements an immutable extended-precision real number built from
a pair of float64 values (double-double arithmetic).

# Representation

An [F128] holds a high limb and a low limb whose unevaluated sum is the
represented value.
The limbs are kept normalized: the high limb is the float64 nearest to the
value and the magnitude of the low limb is at most half a unit in the last
place of the high limb.
This gives roughly 106 bits of significand, so every integer with magnitude
below 2^106 has exactly one representation.

# Operations

Addition and subtraction are built from the error-free two-sum transformation.
Multiplication splits each limb into aligned halves (Dekker's algorithm) so that
every partial product is captured without error.
Division computes a float64 estimate and refines it with correction passes.

For integer operands whose exact result stays below roughly 2^100, [F128.Add],
[F128.Sub] and [F128.Mul] are exact.

# Determinism

Every product is explicitly converted back to float64 before it takes part in
a sum, which prevents the compiler from fusing it into a multiply-add and keeps
results bit-identical across platforms.
*/
package f128

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
)

var (
	errInvalidDecimal = errors.New("invalid decimal string")
	errNotInteger     = errors.New("not an integer")
	errNotFinite      = errors.New("not a finite number")
	errTooManyDigits  = errors.New("too many digits")
)

// MaxDigits is the number of decimal digits that [F128.ExactDecimalString]
// is able to render.
const MaxDigits = 35

// splitter is 2^27 + 1, used to cut a float64 into two 26-bit halves.
const splitter = 134217729.0

// F128 represents an extended-precision real number.
// Its zero value corresponds to 0.
// F128 is designed to be safe for concurrent use by multiple goroutines.
type F128 struct {
	hi float64 // nearest float64 to the value
	lo float64 // remaining error, |lo| <= ulp(hi) / 2
}

var (
	// Zero is the value 0.
	Zero = F128{}
	// One is the value 1.
	One = F128{hi: 1}
)

// New returns the normalized sum hi + lo.
func New(hi, lo float64) F128 {
	s, e := twoSum(hi, lo)
	return F128{hi: s, lo: e}
}

// FromFloat64 returns the F128 equal to f.
func FromFloat64(f float64) F128 {
	return F128{hi: f}
}

// FromInt64 returns the F128 exactly equal to n.
func FromInt64(n int64) F128 {
	// Both halves are exactly representable as float64.
	h := float64(n>>32) * (1 << 32)
	l := float64(n & 0xffffffff)
	return New(h, l)
}

// FromUint64 returns the F128 exactly equal to n.
func FromUint64(n uint64) F128 {
	h := float64(n>>32) * (1 << 32)
	l := float64(n & 0xffffffff)
	return New(h, l)
}

// Parse converts a decimal string to the nearest F128.
// The input must be in one of the following formats:
//
//	123
//	-123.456
//	+1.5e22
//	1E-3
//
// Parse returns an error if the string is not a valid decimal number.
func Parse(s string) (F128, error) {
	x, err := parse(s)
	if err != nil {
		return Zero, fmt.Errorf("parsing %q: %w", s, err)
	}
	return x, nil
}

// MustParse is like [Parse] but panics if the string cannot be parsed.
// It simplifies safe initialization of global variables holding F128 values.
func MustParse(s string) F128 {
	x, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("Parse(%q) failed: %v", s, err))
	}
	return x
}

func parse(s string) (F128, error) {
	pos := 0
	neg := false
	if pos < len(s) && (s[pos] == '+' || s[pos] == '-') {
		neg = s[pos] == '-'
		pos++
	}

	// Significand
	ten := FromFloat64(10)
	sig := Zero
	digits, fracdigs := 0, 0
	frac := false
	for ; pos < len(s); pos++ {
		c := s[pos]
		switch {
		case c >= '0' && c <= '9':
			sig = sig.Mul(ten).Add(FromFloat64(float64(c - '0')))
			digits++
			if frac {
				fracdigs++
			}
			continue
		case c == '.' && !frac:
			frac = true
			continue
		}
		break
	}
	if digits == 0 {
		return Zero, errInvalidDecimal
	}

	// Exponent
	exp := 0
	if pos < len(s) && (s[pos] == 'e' || s[pos] == 'E') {
		pos++
		start := pos
		if pos < len(s) && (s[pos] == '+' || s[pos] == '-') {
			pos++
		}
		if pos == len(s) {
			return Zero, errInvalidDecimal
		}
		e, err := strconv.Atoi(s[start:])
		if err != nil {
			return Zero, errInvalidDecimal
		}
		exp = e
		pos = len(s)
	}
	if pos != len(s) {
		return Zero, errInvalidDecimal
	}

	exp -= fracdigs
	switch {
	case exp > 0:
		sig = sig.Mul(pow10(exp))
	case exp < 0:
		sig = sig.Div(pow10(-exp))
	}
	if neg {
		sig = sig.Neg()
	}
	return sig, nil
}

// pow10 returns 10^n for n >= 0.
func pow10(n int) F128 {
	r := One
	b := FromFloat64(10)
	for n > 0 {
		if n&1 == 1 {
			r = r.Mul(b)
		}
		b = b.Mul(b)
		n >>= 1
	}
	return r
}

// twoSum returns s = fl(a + b) and the exact error e, a + b = s + e.
func twoSum(a, b float64) (s, e float64) {
	s = a + b
	bb := s - a
	e = (a - (s - bb)) + (b - bb)
	return s, e
}

// quickTwoSum is like twoSum but requires |a| >= |b|.
func quickTwoSum(a, b float64) (s, e float64) {
	s = a + b
	e = b - (s - a)
	return s, e
}

// split cuts a into two non-overlapping halves with 26 significant bits each.
func split(a float64) (hi, lo float64) {
	t := float64(splitter * a)
	hi = t - (t - a)
	lo = a - hi
	return hi, lo
}

// twoProd returns p = fl(a * b) and the exact error e, a * b = p + e.
func twoProd(a, b float64) (p, e float64) {
	p = float64(a * b)
	ah, al := split(a)
	bh, bl := split(b)
	e = ((float64(ah*bh) - p) + float64(ah*bl) + float64(al*bh)) + float64(al*bl)
	return p, e
}

// Hi returns the high limb.
func (x F128) Hi() float64 {
	return x.hi
}

// Lo returns the low limb.
func (x F128) Lo() float64 {
	return x.lo
}

// Add returns x + y.
func (x F128) Add(y F128) F128 {
	s1, s2 := twoSum(x.hi, y.hi)
	t1, t2 := twoSum(x.lo, y.lo)
	s2 += t1
	s1, s2 = quickTwoSum(s1, s2)
	s2 += t2
	s1, s2 = quickTwoSum(s1, s2)
	return F128{hi: s1, lo: s2}
}

// Sub returns x - y.
func (x F128) Sub(y F128) F128 {
	return x.Add(y.Neg())
}

// Mul returns x * y.
func (x F128) Mul(y F128) F128 {
	p1, p2 := twoProd(x.hi, y.hi)
	p2 += float64(x.hi*y.lo) + float64(x.lo*y.hi) + float64(x.lo*y.lo)
	p1, p2 = quickTwoSum(p1, p2)
	return F128{hi: p1, lo: p2}
}

// mulFloat64 returns x * f.
func (x F128) mulFloat64(f float64) F128 {
	p1, p2 := twoProd(x.hi, f)
	p2 += float64(x.lo * f)
	p1, p2 = quickTwoSum(p1, p2)
	return F128{hi: p1, lo: p2}
}

// Div returns x / y.
// The result is infinite or NaN if y is zero.
func (x F128) Div(y F128) F128 {
	q1 := x.hi / y.hi
	r := x.Sub(y.mulFloat64(q1))

	q2 := r.hi / y.hi
	r = r.Sub(y.mulFloat64(q2))

	q3 := r.hi / y.hi

	q1, q2 = quickTwoSum(q1, q2)
	return F128{hi: q1, lo: q2}.Add(FromFloat64(q3))
}

// Fdiv returns x / f.
func (x F128) Fdiv(f float64) F128 {
	return x.Div(FromFloat64(f))
}

// Neg returns -x.
func (x F128) Neg() F128 {
	return F128{hi: -x.hi, lo: -x.lo}
}

// Abs returns the absolute value of x.
func (x F128) Abs() F128 {
	if x.Sign() < 0 {
		return x.Neg()
	}
	return x
}

// Sign returns:
//
//	-1 if x < 0
//	 0 if x = 0
//	+1 if x > 0
func (x F128) Sign() int {
	switch {
	case x.hi < 0:
		return -1
	case x.hi > 0:
		return 1
	case x.lo < 0:
		return -1
	case x.lo > 0:
		return 1
	}
	return 0
}

// IsZero returns:
//
//	true  if x = 0
//	false otherwise
func (x F128) IsZero() bool {
	return x.hi == 0 && x.lo == 0
}

// IsFinite returns true if neither limb is infinite or NaN.
func (x F128) IsFinite() bool {
	return !math.IsInf(x.hi, 0) && !math.IsNaN(x.hi) &&
		!math.IsInf(x.lo, 0) && !math.IsNaN(x.lo)
}

// IsInt returns true if x is a finite integer.
func (x F128) IsInt() bool {
	return x.IsFinite() && math.Trunc(x.hi) == x.hi && math.Trunc(x.lo) == x.lo
}

// IsEven returns true if x is an even integer.
func (x F128) IsEven() bool {
	if !x.IsInt() {
		return false
	}
	return math.Mod(math.Abs(x.hi), 2) == math.Mod(math.Abs(x.lo), 2)
}

// Cmp compares x and y and returns:
//
//	-1 if x < y
//	 0 if x = y
//	+1 if x > y
func (x F128) Cmp(y F128) int {
	switch {
	case x.hi < y.hi:
		return -1
	case x.hi > y.hi:
		return 1
	case x.lo < y.lo:
		return -1
	case x.lo > y.lo:
		return 1
	}
	return 0
}

// Equal returns true if x = y.
func (x F128) Equal(y F128) bool {
	return x.Cmp(y) == 0
}

// Floor returns x rounded toward negative infinity.
func (x F128) Floor() F128 {
	hi := math.Floor(x.hi)
	if hi != x.hi {
		return F128{hi: hi}
	}
	hi, lo := quickTwoSum(hi, math.Floor(x.lo))
	return F128{hi: hi, lo: lo}
}

// Ceil returns x rounded toward positive infinity.
func (x F128) Ceil() F128 {
	hi := math.Ceil(x.hi)
	if hi != x.hi {
		return F128{hi: hi}
	}
	hi, lo := quickTwoSum(hi, math.Ceil(x.lo))
	return F128{hi: hi, lo: lo}
}

// Trunc returns x rounded toward zero.
func (x F128) Trunc() F128 {
	if x.Sign() < 0 {
		return x.Ceil()
	}
	return x.Floor()
}

// Round returns x rounded to the nearest integer, with halfway cases
// rounded away from zero.
func (x F128) Round() F128 {
	hi := math.Round(x.hi)
	if hi == x.hi {
		// The sign of the value is the sign of the high limb,
		// so a tie in the low limb is broken toward it.
		var lo float64
		switch {
		case x.hi > 0:
			lo = math.Floor(x.lo)
			if x.lo-lo >= 0.5 {
				lo++
			}
		case x.hi < 0:
			lo = math.Ceil(x.lo)
			if lo-x.lo >= 0.5 {
				lo--
			}
		default:
			lo = math.Round(x.lo)
		}
		hi, lo = quickTwoSum(hi, lo)
		return F128{hi: hi, lo: lo}
	}
	// A tie in the high limb is broken by the low limb.
	if math.Abs(hi-x.hi) == 0.5 {
		switch {
		case x.hi > 0 && x.lo < 0:
			hi--
		case x.hi < 0 && x.lo > 0:
			hi++
		}
	}
	return F128{hi: hi}
}

// Float64 returns the nearest float64 to x.
// This conversion may lose data.
func (x F128) Float64() float64 {
	return x.hi + x.lo
}

// Int64 returns x as an int64.
// If x is not an integer or cannot be represented as an int64, then false is returned.
func (x F128) Int64() (int64, bool) {
	if !x.IsInt() {
		return 0, false
	}
	switch {
	case x.hi == 0x1p63 && x.lo < 0:
		// 2^63 + lo, with lo in [-2^52, 0)
		return math.MaxInt64 - int64(-x.lo) + 1, true
	case x.hi >= 0x1p63 || x.hi < -0x1p63:
		return 0, false
	case x.hi == -0x1p63 && x.lo < 0:
		return 0, false
	}
	return int64(x.hi) + int64(x.lo), true
}

// ExactDecimalString returns the exact decimal representation of x.
//
// ExactDecimalString returns an error if:
//   - x is not finite;
//   - x is not an integer;
//   - x has more than [MaxDigits] digits.
func (x F128) ExactDecimalString() (string, error) {
	s, err := x.exactDecimalString()
	if err != nil {
		return "", fmt.Errorf("formatting %v: %w", x, err)
	}
	return s, nil
}

func (x F128) exactDecimalString() (string, error) {
	if !x.IsFinite() {
		return "", errNotFinite
	}
	if !x.IsInt() {
		return "", errNotInteger
	}
	if n, ok := x.Int64(); ok {
		return strconv.FormatInt(n, 10), nil
	}
	h, _ := new(big.Float).SetFloat64(x.hi).Int(nil)
	l, _ := new(big.Float).SetFloat64(x.lo).Int(nil)
	s := h.Add(h, l).String()
	digits := len(s)
	if s[0] == '-' {
		digits--
	}
	if digits > MaxDigits {
		return "", errTooManyDigits
	}
	return s, nil
}

// String implements the [fmt.Stringer] interface.
// Integers are rendered exactly; other values are rendered using the nearest float64.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (x F128) String() string {
	if s, err := x.exactDecimalString(); err == nil {
		return s
	}
	return strconv.FormatFloat(x.Float64(), 'g', -1, 64)
}
