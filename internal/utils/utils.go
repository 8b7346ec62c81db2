package utils

import (
	"fmt"
	"time"
)

// ParseAnchor parses an "HH:MM" draw-time anchor
func ParseAnchor(anchor string) (hour, minute int, err error) {
	if _, err = fmt.Sscanf(anchor, "%d:%d", &hour, &minute); err != nil {
		return 0, 0, fmt.Errorf("invalid draw time anchor %q: %w", anchor, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid draw time anchor %q", anchor)
	}
	return hour, minute, nil
}

// AnchorOn returns the given day's date at the anchor's time of day.
// Invalid anchors fall back to 18:00, the catalog default.
func AnchorOn(day time.Time, anchor string) time.Time {
	hour, minute, err := ParseAnchor(anchor)
	if err != nil {
		hour, minute = 18, 0
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}
