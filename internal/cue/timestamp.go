package cue

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// cueTimeRe accepts WebVTT cue times with an optional hour field, since the
// local engine omits hours for short recordings.
var cueTimeRe = regexp.MustCompile(`^(?:(\d{1,2}):)?(\d{2}):(\d{2})\.(\d{3})$`)

// FormatTimestamp renders a duration as a zero-padded WebVTT timestamp
// (HH:MM:SS.mmm) with millisecond precision.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	milliseconds := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, milliseconds)
}

// ParseTimestamp parses a WebVTT cue timestamp back into a duration.
func ParseTimestamp(timeString string) (time.Duration, error) {
	matches := cueTimeRe.FindStringSubmatch(timeString)
	if matches == nil {
		return 0, fmt.Errorf("invalid cue timestamp: %s", timeString)
	}

	h := 0
	if matches[1] != "" {
		h, _ = strconv.Atoi(matches[1])
	}
	m, _ := strconv.Atoi(matches[2])
	s, _ := strconv.Atoi(matches[3])
	ms, _ := strconv.Atoi(matches[4])

	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(ms)*time.Millisecond, nil
}
