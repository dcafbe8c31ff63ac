// Copyright (c) Ilia Kravets, 2015. All rights reserved. PROVIDED "AS IS"
// WITHOUT ANY WARRANTY, EXPRESS OR IMPLIED. See LICENSE file for details.

package packet

import (
	"errors"
	"testing"
	"time"
)

func mustTime(t *testing.T, h, m, s, us int) TimeOfDay {
	t.Helper()
	tod, err := NewTimeOfDay(h, m, s, us)
	if err != nil {
		t.Fatal(err)
	}
	return tod
}

func TestTimeOfDayText(t *testing.T) {
	testCases := []struct {
		h, m, s, us int
		text        string
		millis      string
	}{
		{9, 30, 0, 500000, "09:30:00.500", "09:30:00.500"},
		{9, 30, 0, 0, "09:30:00", "09:30:00.000"},
		{0, 0, 0, 1, "00:00:00.000001", "00:00:00.000"},
		{23, 59, 59, 999999, "23:59:59.999999", "23:59:59.999"},
		{15, 4, 5, 120000, "15:04:05.120", "15:04:05.120"},
		{15, 4, 5, 123400, "15:04:05.123400", "15:04:05.123"},
	}
	for _, tc := range testCases {
		tod := mustTime(t, tc.h, tc.m, tc.s, tc.us)
		if got := tod.String(); got != tc.text {
			t.Errorf("String() = %s want %s", got, tc.text)
		}
		if got := string(tod.AppendMillis(nil)); got != tc.millis {
			t.Errorf("AppendMillis = %s want %s", got, tc.millis)
		}
		h, m, s, us := tod.Clock()
		if h != tc.h || m != tc.m || s != tc.s || us != tc.us {
			t.Errorf("Clock() = %d %d %d %d", h, m, s, us)
		}
	}
}

func TestNewTimeOfDayRange(t *testing.T) {
	for _, v := range [][4]int{{24, 0, 0, 0}, {0, 60, 0, 0}, {0, 0, 60, 0}, {0, 0, 0, 1000000}, {-1, 0, 0, 0}} {
		if _, err := NewTimeOfDay(v[0], v[1], v[2], v[3]); !errors.Is(err, ErrTimeOfDayRange) {
			t.Errorf("%v: got %v", v, err)
		}
	}
}

func TestParseAcceptTime(t *testing.T) {
	testCases := []struct {
		in   string
		want TimeOfDay
		ok   bool
	}{
		{"09300050", 9*Hour + 30*Minute + 500*Millisecond, true},
		{"00000001", 10 * Millisecond, true},
		{"23595999", 23*Hour + 59*Minute + 59*Second + 990*Millisecond, true},
		{"0930005", 0, false},
		{"093000500", 0, false},
		{"09 30 00", 0, false},
		{"0930005a", 0, false},
		{"24000000", 0, false},
		{"09006000", 0, false},
	}
	for _, tc := range testCases {
		got, err := ParseAcceptTime([]byte(tc.in))
		if tc.ok != (err == nil) {
			t.Errorf("%q: err %v", tc.in, err)
			continue
		}
		if err != nil && !errors.Is(err, ErrBadAcceptTime) {
			t.Errorf("%q: wrong error %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("%q: got %v want %v", tc.in, got, tc.want)
		}
	}
}

func TestNormalizer(t *testing.T) {
	seoul, err := LoadZone("")
	if err != nil {
		t.Fatal(err)
	}
	testCases := []struct {
		name    string
		loc     *time.Location
		seconds int64
		micros  uint32
		want    TimeOfDay
	}{
		// 2011-02-16 00:00:00 UTC
		{"seoul", seoul, 1297814400, 0, 9 * Hour},
		{"micros", seoul, 1297814400 + 30*60, 500123, 9*Hour + 30*Minute + 500123},
		{"wrap", seoul, 1297814400 + 15*3600 + 1, 7, Second + 7},
		{"fixed", time.FixedZone("KST", 9*3600), 1297814400, 999999, 9*Hour + 999999},
		{"utc", time.UTC, 1297814400 + 3723, 0, Hour + 2*Minute + 3*Second},
		{"default zone", nil, 1297814400 + 3723, 0, 10*Hour + 2*Minute + 3*Second},
	}
	for _, tc := range testCases {
		got, err := NewNormalizer(tc.loc).Normalize(tc.seconds, tc.micros)
		if err != nil {
			t.Errorf("%s: %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestNormalizerDefaultZone(t *testing.T) {
	if got := NewNormalizer(nil).Location().String(); got != DefaultZoneName {
		t.Errorf("got zone %s want %s", got, DefaultZoneName)
	}
}

func TestNormalizerRange(t *testing.T) {
	n := NewNormalizer(time.UTC)
	if _, err := n.Normalize(0, 1000000); !errors.Is(err, ErrTimestampRange) {
		t.Errorf("fraction: got %v", err)
	}
	if _, err := n.Normalize(1<<40, 0); !errors.Is(err, ErrTimestampRange) {
		t.Errorf("seconds: got %v", err)
	}
	if _, err := LoadZone("Nowhere/Atlantis"); err == nil {
		t.Error("expected zone error")
	}
}
