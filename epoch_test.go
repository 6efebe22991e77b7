package tempo

import (
	"errors"
	"fmt"
	"math/big"
	"testing"
	"time"
)

func TestEpochNanoseconds_ZeroValue(t *testing.T) {
	got := EpochNanoseconds{}
	want := epochFromTime(time.Unix(0, 0))
	if got != want {
		t.Errorf("EpochNanoseconds{} = %v, want %v", got, want)
	}
}

func epochFromTime(t time.Time) EpochNanoseconds {
	e, err := NewEpochNanosecondsFromTime(t)
	if err != nil {
		panic(fmt.Sprintf("NewEpochNanosecondsFromTime(%v) failed: %v", t, err))
	}
	return e
}

func TestNewEpochNanoseconds(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []struct {
			sec, nsec         int64
			wantSec, wantNsec int64
			wantString        string
		}{
			{0, 0, 0, 0, "0"},
			{0, -1, -1, 999_999_999, "-1"},
			{1, 1_500_000_000, 2, 500_000_000, "2500000000"},
			{-1, -1_000_000_000, -2, 0, "-2000000000"},
			{maxEpochSeconds, 0, maxEpochSeconds, 0, "8640000000000000000000"},
			{-maxEpochSeconds, 0, -maxEpochSeconds, 0, "-8640000000000000000000"},
		}
		for _, tt := range tests {
			got, err := NewEpochNanoseconds(tt.sec, tt.nsec)
			if err != nil {
				t.Errorf("NewEpochNanoseconds(%v, %v) failed: %v", tt.sec, tt.nsec, err)
				continue
			}
			sec, nsec := got.Unix()
			if sec != tt.wantSec || nsec != tt.wantNsec {
				t.Errorf("NewEpochNanoseconds(%v, %v).Unix() = (%v, %v), want (%v, %v)", tt.sec, tt.nsec, sec, nsec, tt.wantSec, tt.wantNsec)
			}
			if s := got.String(); s != tt.wantString {
				t.Errorf("NewEpochNanoseconds(%v, %v).String() = %q, want %q", tt.sec, tt.nsec, s, tt.wantString)
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := map[string]struct {
			sec, nsec int64
		}{
			"max": {maxEpochSeconds, 1},
			"min": {-maxEpochSeconds, -1},
			"big": {1 << 62, 0},
		}
		for name, tt := range tests {
			t.Run(name, func(t *testing.T) {
				_, err := NewEpochNanoseconds(tt.sec, tt.nsec)
				if !errors.Is(err, ErrRange) {
					t.Errorf("NewEpochNanoseconds(%v, %v) = %v, want %v", tt.sec, tt.nsec, err, ErrRange)
				}
			})
		}
	})
}

func TestMustNewEpochNanoseconds(t *testing.T) {
	t.Run("panic", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("MustNewEpochNanoseconds(maxEpochSeconds, 1) did not panic")
			}
		}()
		MustNewEpochNanoseconds(maxEpochSeconds, 1)
	})
}

func TestNewEpochNanosecondsFromBigInt(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []string{
			"0",
			"-1",
			"1",
			"1709999999999999999",
			"-8640000000000000000000",
			"8640000000000000000000",
		}
		for _, s := range tests {
			n, _ := new(big.Int).SetString(s, 10)
			got, err := NewEpochNanosecondsFromBigInt(n)
			if err != nil {
				t.Errorf("NewEpochNanosecondsFromBigInt(%v) failed: %v", s, err)
				continue
			}
			if got.BigInt().Cmp(n) != 0 {
				t.Errorf("NewEpochNanosecondsFromBigInt(%v).BigInt() = %v", s, got.BigInt())
			}
			if got.String() != s {
				t.Errorf("NewEpochNanosecondsFromBigInt(%v).String() = %q", s, got.String())
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := []string{
			"8640000000000000000001",
			"-8640000000000000000001",
			"100000000000000000000000000000",
		}
		for _, s := range tests {
			n, _ := new(big.Int).SetString(s, 10)
			_, err := NewEpochNanosecondsFromBigInt(n)
			if !errors.Is(err, ErrRange) {
				t.Errorf("NewEpochNanosecondsFromBigInt(%v) = %v, want %v", s, err, ErrRange)
			}
		}
	})
}

func TestEpochNanoseconds_Time(t *testing.T) {
	want := time.Date(2024, 3, 10, 7, 0, 0, 123, time.UTC)
	e := epochFromTime(want)
	if got := e.Time(); !got.Equal(want) {
		t.Errorf("%v.Time() = %v, want %v", e, got, want)
	}
}

func TestEpochNanoseconds_Add(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []struct {
			e    EpochNanoseconds
			d    TimeDuration
			want EpochNanoseconds
		}{
			{EpochNanoseconds{}, MustNewTimeDuration(0, 0, 0, 0, 0, -1), MustNewEpochNanoseconds(0, -1)},
			{MustNewEpochNanoseconds(1, 999_999_999), MustNewTimeDuration(0, 0, 0, 0, 0, 1), MustNewEpochNanoseconds(2, 0)},
			{MaxEpochNanoseconds, MustNewTimeDuration(0, 0, -2*maxEpochSeconds, 0, 0, 0), MinEpochNanoseconds},
		}
		for _, tt := range tests {
			got, err := tt.e.Add(tt.d)
			if err != nil {
				t.Errorf("%v.Add(%v) failed: %v", tt.e, tt.d, err)
				continue
			}
			if got != tt.want {
				t.Errorf("%v.Add(%v) = %v, want %v", tt.e, tt.d, got, tt.want)
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := []struct {
			e EpochNanoseconds
			d TimeDuration
		}{
			{MaxEpochNanoseconds, MustNewTimeDuration(0, 0, 0, 0, 0, 1)},
			{MinEpochNanoseconds, MustNewTimeDuration(0, 0, 0, 0, 0, -1)},
		}
		for _, tt := range tests {
			_, err := tt.e.Add(tt.d)
			if !errors.Is(err, ErrRange) {
				t.Errorf("%v.Add(%v) = %v, want %v", tt.e, tt.d, err, ErrRange)
			}
		}
	})
}

func TestEpochNanoseconds_Cmp(t *testing.T) {
	tests := []struct {
		e, f EpochNanoseconds
		want int
	}{
		{EpochNanoseconds{}, EpochNanoseconds{}, 0},
		{MustNewEpochNanoseconds(0, -1), EpochNanoseconds{}, -1},
		{MustNewEpochNanoseconds(0, 1), EpochNanoseconds{}, 1},
		{MinEpochNanoseconds, MaxEpochNanoseconds, -1},
	}
	for _, tt := range tests {
		if got := tt.e.Cmp(tt.f); got != tt.want {
			t.Errorf("%v.Cmp(%v) = %v, want %v", tt.e, tt.f, got, tt.want)
		}
	}
}

func TestMidpoint(t *testing.T) {
	tests := []struct {
		e, f, want EpochNanoseconds
	}{
		{MustNewEpochNanoseconds(0, 0), MustNewEpochNanoseconds(2, 0), MustNewEpochNanoseconds(1, 0)},
		{MustNewEpochNanoseconds(0, 0), MustNewEpochNanoseconds(0, 3), MustNewEpochNanoseconds(0, 1)},
		{MustNewEpochNanoseconds(-1, 0), MustNewEpochNanoseconds(0, 0), MustNewEpochNanoseconds(0, -500_000_000)},
	}
	for _, tt := range tests {
		if got := midpoint(tt.e, tt.f); got != tt.want {
			t.Errorf("midpoint(%v, %v) = %v, want %v", tt.e, tt.f, got, tt.want)
		}
	}
}

func TestFloorDiv(t *testing.T) {
	tests := []struct {
		a, b, wantDiv, wantMod int64
	}{
		{7, 2, 3, 1},
		{-7, 2, -4, 1},
		{-8, 2, -4, 0},
		{7, -2, -4, -1},
	}
	for _, tt := range tests {
		if got := floorDiv(tt.a, tt.b); got != tt.wantDiv {
			t.Errorf("floorDiv(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.wantDiv)
		}
		if got := floorMod(tt.a, tt.b); got != tt.wantMod {
			t.Errorf("floorMod(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.wantMod)
		}
	}
}
