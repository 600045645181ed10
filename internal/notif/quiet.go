package notif

import (
	"fmt"
	"time"
)

// parseClock parses an "HH:MM" local-time string into minutes past midnight.
func parseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("bad clock string %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("bad clock string %q", s)
	}
	return h*60 + m, nil
}

// inQuietHours reports whether now falls inside the [start, end) window.
// A start after end means the window wraps midnight (22:00-08:00).
func inQuietHours(now time.Time, start, end string) bool {
	startMin, err := parseClock(start)
	if err != nil {
		return false
	}
	endMin, err := parseClock(end)
	if err != nil {
		return false
	}
	if startMin == endMin {
		return false
	}

	nowMin := now.Hour()*60 + now.Minute()
	if startMin < endMin {
		return nowMin >= startMin && nowMin < endMin
	}
	return nowMin >= startMin || nowMin < endMin
}

// untilQuietEnd returns how long from now until the window's end clock time.
func untilQuietEnd(now time.Time, end string) time.Duration {
	endMin, err := parseClock(end)
	if err != nil {
		return 0
	}
	nowMin := now.Hour()*60 + now.Minute()
	delta := endMin - nowMin
	if delta <= 0 {
		delta += 24 * 60
	}
	return time.Duration(delta) * time.Minute
}
