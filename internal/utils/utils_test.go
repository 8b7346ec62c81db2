package utils

import (
	"testing"
	"time"
)

func TestParseAnchor(t *testing.T) {
	valid := map[string][2]int{
		"06:00": {6, 0},
		"18:00": {18, 0},
		"23:59": {23, 59},
		"0:5":   {0, 5},
	}
	for anchor, want := range valid {
		hour, minute, err := ParseAnchor(anchor)
		if err != nil {
			t.Errorf("ParseAnchor(%q) returned error: %v", anchor, err)
			continue
		}
		if hour != want[0] || minute != want[1] {
			t.Errorf("ParseAnchor(%q) = %d:%d, want %d:%d", anchor, hour, minute, want[0], want[1])
		}
	}

	for _, anchor := range []string{"24:00", "12:60", "-1:30", "noon", ""} {
		if _, _, err := ParseAnchor(anchor); err == nil {
			t.Errorf("ParseAnchor(%q) accepted an invalid anchor", anchor)
		}
	}
}

func TestAnchorOn(t *testing.T) {
	day := time.Date(2026, 3, 10, 9, 45, 30, 0, time.UTC)

	got := AnchorOn(day, "06:00")
	want := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("AnchorOn = %v, want %v", got, want)
	}

	// Invalid anchors fall back to the 18:00 default.
	got = AnchorOn(day, "garbage")
	want = time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("AnchorOn fallback = %v, want %v", got, want)
	}
}
