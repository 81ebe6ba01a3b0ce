package schedule

import (
	"testing"
	"time"
)

func TestMinutesOfDay(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"00:00", 0, true},
		{"07:00", 420, true},
		{"09:30", 570, true},
		{"23:59", 1439, true},
		{"24:00", 1440, true},
		{"7:00", 420, true},
		{"25:00", 0, false},
		{"12:60", 0, false},
		{"12", 0, false},
		{"", 0, false},
		{"ab:cd", 0, false},
	}

	for _, tt := range tests {
		got, ok := MinutesOfDay(tt.in)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("MinutesOfDay(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestClock(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "00:00"},
		{420, "07:00"},
		{570, "09:30"},
		{1439, "23:59"},
	}
	for _, tt := range tests {
		if got := Clock(tt.in); got != tt.want {
			t.Errorf("Clock(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAtClockRoundTrip(t *testing.T) {
	day := time.Date(2025, 3, 10, 17, 45, 12, 0, time.UTC) // a Monday, with noise
	got := AtClock(day, 420)
	want := time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("AtClock = %v, want %v", got, want)
	}
}

func TestISODate(t *testing.T) {
	d := time.Date(2025, 3, 5, 23, 59, 0, 0, time.UTC)
	if got := ISODate(d); got != "2025-03-05" {
		t.Errorf("ISODate = %q, want 2025-03-05", got)
	}
}
