package youtube

import (
	"fmt"
	"regexp"
	"strconv"
)

// isoDurationRegexp matches ISO-8601 durations in the PT#H#M#S form the
// YouTube API uses. Absent components default to zero.
var isoDurationRegexp = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseISODuration converts an ISO-8601 duration string (e.g. "PT4M13S")
// into total seconds
func ParseISODuration(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}

	matches := isoDurationRegexp.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("invalid ISO-8601 duration: %q", s)
	}

	hours := atoiOrZero(matches[1])
	minutes := atoiOrZero(matches[2])
	seconds := atoiOrZero(matches[3])

	return hours*3600 + minutes*60 + seconds, nil
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// FormatDuration renders seconds as "H:MM:SS" or "M:SS" for prompts and
// API responses
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
