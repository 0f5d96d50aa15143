package srt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// maxHours keeps the total well inside time.Duration's range.
const maxHours = 9999

const timestampPattern = `(\d+):(\d{1,2}):(\d{1,2})[,.](\d{1,3})`

var (
	timestampRe = regexp.MustCompile(`^` + timestampPattern + `$`)
	timingRe    = regexp.MustCompile(`^` + timestampPattern + `\s*-->\s*` + timestampPattern + `(?:\s.*)?$`)
)

// ParseTimestamp parses HH:MM:SS,mmm. A '.' separator is accepted and
// fractional fields shorter than three digits are right padded.
func ParseTimestamp(value string) (time.Duration, error) {
	m := timestampRe.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return timestampFromParts(m[1], m[2], m[3], m[4])
}

// FormatTimestamp renders d as HH:MM:SS,mmm. Negative durations render as zero.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	hours := ms / 3_600_000
	ms -= hours * 3_600_000
	minutes := ms / 60_000
	ms -= minutes * 60_000
	seconds := ms / 1000
	ms -= seconds * 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, ms)
}

func parseTiming(line string) (time.Duration, time.Duration, error) {
	m := timingRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return 0, 0, fmt.Errorf("malformed timecode %q", line)
	}
	start, err := timestampFromParts(m[1], m[2], m[3], m[4])
	if err != nil {
		return 0, 0, err
	}
	end, err := timestampFromParts(m[5], m[6], m[7], m[8])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func timestampFromParts(h, m, s, frac string) (time.Duration, error) {
	hours, err := strconv.Atoi(h)
	if err != nil || hours > maxHours {
		return 0, fmt.Errorf("hours %q out of range (max %d)", h, maxHours)
	}
	minutes, _ := strconv.Atoi(m)
	seconds, _ := strconv.Atoi(s)
	if minutes > 59 || seconds > 59 {
		return 0, fmt.Errorf("invalid timestamp %s:%s:%s", h, m, s)
	}
	for len(frac) < 3 {
		frac += "0"
	}
	millis, _ := strconv.Atoi(frac)
	total := time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond
	return total, nil
}
