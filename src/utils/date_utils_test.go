package utils

import (
	"testing"
	"time"
)

func TestParseSerial(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
	}{
		{"43800", 43800},
		{" 61 ", 61},
		{"-5", -5},
		{"0", 0},
		{"", 1},         // empty cell defaults
		{"tomorrow", 1}, // junk defaults
		{"43800.5", 1},  // fractional serials are not dates we accept
	}
	for _, tt := range tests {
		if got := ParseSerial(tt.raw); got != tt.want {
			t.Errorf("ParseSerial(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestSerialToUnix_Anchor(t *testing.T) {
	tests := []struct {
		serial int64
		want   time.Time
	}{
		{0, time.Date(1899, 12, 30, 16, 0, 0, 0, time.UTC)},
		{2, time.Date(1900, 1, 1, 16, 0, 0, 0, time.UTC)},
		// The spreadsheet 1900 date system pretends 1900-02-29 existed.
		// The two-day-early anchor absorbs it: serial 60 lands on Feb 28
		// and serial 61 on Mar 1.
		{60, time.Date(1900, 2, 28, 16, 0, 0, 0, time.UTC)},
		{61, time.Date(1900, 3, 1, 16, 0, 0, 0, time.UTC)},
		{43800, time.Date(2019, 12, 1, 16, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		if got := SerialToUnix(tt.serial); got != tt.want.Unix() {
			t.Errorf("SerialToUnix(%d) = %d, want %d (%s)", tt.serial, got, tt.want.Unix(), tt.want)
		}
	}
}

func TestSerialToUnix_DayIncrements(t *testing.T) {
	// Each serial step is exactly one day.
	for serial := int64(0); serial < 100; serial++ {
		delta := SerialToUnix(serial+1) - SerialToUnix(serial)
		if delta != 86400 {
			t.Fatalf("serial %d → %d: day delta %d, want 86400", serial, serial+1, delta)
		}
	}
}

func TestUnixToNaive_RoundTrip(t *testing.T) {
	secs := SerialToUnix(43802)
	got := UnixToNaive(secs)
	want := time.Date(2019, 12, 3, 16, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("UnixToNaive(%d) = %s, want %s", secs, got, want)
	}
}
