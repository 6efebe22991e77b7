package tempo

import (
	"errors"
	"testing"
	"time"
	_ "time/tzdata"
)

func TestLoadTimeZone(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []struct {
			id, wantID string
			wantOffset int64
		}{
			{"UTC", "UTC", 0},
			{"+05:30", "+05:30", 5*nsPerHour + 30*nsPerMinute},
			{"-0800", "-08:00", -8 * nsPerHour},
			{"-08", "-08:00", -8 * nsPerHour},
			{"+00:00:01", "+00:00:01", nsPerSecond},
			{"Asia/Kolkata", "Asia/Kolkata", 5*nsPerHour + 30*nsPerMinute},
		}
		for _, tt := range tests {
			tz, err := LoadTimeZone(tt.id)
			if err != nil {
				t.Errorf("LoadTimeZone(%q) failed: %v", tt.id, err)
				continue
			}
			if tz.ID() != tt.wantID {
				t.Errorf("LoadTimeZone(%q).ID() = %q, want %q", tt.id, tz.ID(), tt.wantID)
			}
			e := MustNewEpochNanoseconds(1_700_000_000, 0)
			if got := tz.OffsetNanoseconds(e); got != tt.wantOffset {
				t.Errorf("LoadTimeZone(%q).OffsetNanoseconds(%v) = %v, want %v", tt.id, e, got, tt.wantOffset)
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := map[string]string{
			"unknown":  "Mars/Olympus_Mons",
			"hours":    "+24:00",
			"minutes":  "+05:60",
			"short":    "+5",
			"trailing": "+05:30x",
		}
		for name, id := range tests {
			t.Run(name, func(t *testing.T) {
				if _, err := LoadTimeZone(id); err == nil {
					t.Errorf("LoadTimeZone(%q) did not fail", id)
				}
			})
		}
	})
}

func TestMustLoadTimeZone(t *testing.T) {
	t.Run("panic", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("MustLoadTimeZone(\"Nowhere/Land\") did not panic")
			}
		}()
		MustLoadTimeZone("Nowhere/Land")
	})
}

func TestFixedOffset(t *testing.T) {
	if _, err := FixedOffset(nsPerDay); !errors.Is(err, ErrRange) {
		t.Errorf("FixedOffset(nsPerDay) = %v, want %v", err, ErrRange)
	}
	tz := MustFixedOffset(-(3*nsPerHour + 30*nsPerMinute))
	if tz.ID() != "-03:30" {
		t.Errorf("MustFixedOffset(-3h30m).ID() = %q, want %q", tz.ID(), "-03:30")
	}
}

func TestNewTimeZone(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Fatalf("LoadLocation failed: %v", err)
	}
	tz := NewTimeZone(loc)
	if tz.ID() != "Europe/Paris" {
		t.Errorf("NewTimeZone(%v).ID() = %q", loc, tz.ID())
	}
	summer := epochFromTime(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))
	if got := tz.OffsetNanoseconds(summer); got != 2*nsPerHour {
		t.Errorf("OffsetNanoseconds(%v) = %v, want %v", summer, got, 2*nsPerHour)
	}
	if NewTimeZone(nil).ID() != "UTC" {
		t.Errorf("NewTimeZone(nil).ID() = %q, want %q", NewTimeZone(nil).ID(), "UTC")
	}
}

func TestOffsetString(t *testing.T) {
	tests := []struct {
		offset int64
		want   string
	}{
		{0, "+00:00"},
		{5*nsPerHour + 30*nsPerMinute, "+05:30"},
		{-(5*nsPerHour + 30*nsPerMinute), "-05:30"},
		{nsPerHour + 2*nsPerMinute + 3*nsPerSecond, "+01:02:03"},
		{nsPerHour + 2*nsPerMinute + 3*nsPerSecond + 500_000_000, "+01:02:03.5"},
		{-nsPerDay + 1, "-23:59:59.999999999"},
	}
	for _, tt := range tests {
		if got := OffsetString(tt.offset); got != tt.want {
			t.Errorf("OffsetString(%v) = %q, want %q", tt.offset, got, tt.want)
		}
	}
}
