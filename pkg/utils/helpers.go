package utils

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

// DateTimeLocalLayout is the value format of <input type="datetime-local">.
const DateTimeLocalLayout = "2006-01-02T15:04"

// dateTimeLocalSeconds is sent by inputs with a step below one minute.
const dateTimeLocalSeconds = "2006-01-02T15:04:05"

// Clamp limits a value between min and max
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// RoundTo rounds a float to specified decimal places
func RoundTo(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}

// FillPercent returns how full a group is as a percentage in [0, 100].
// Groups without a limit report 0.
func FillPercent(current, limit int) float64 {
	if limit <= 0 {
		return 0
	}
	return RoundTo(Clamp(float64(current)/float64(limit)*100, 0, 100), 1)
}

// Truncate shortens s to at most n runes, appending "..." when cut.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n])) + "..."
}

// FormatDateTime renders t for display; nil and zero times render as "".
func FormatDateTime(t any) string {
	switch v := t.(type) {
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.Format("2006-01-02 15:04")
	case *time.Time:
		if v == nil {
			return ""
		}
		return FormatDateTime(*v)
	default:
		return ""
	}
}

// DateTimeLocal renders t as a datetime-local input value.
func DateTimeLocal(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(DateTimeLocalLayout)
}

// ParseDateTimeLocal parses a datetime-local input value in loc. Blank input
// yields nil.
func ParseDateTimeLocal(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateTimeLocalLayout, s, loc)
	if err != nil {
		var serr error
		if t, serr = time.ParseInLocation(dateTimeLocalSeconds, s, loc); serr != nil {
			return nil, err
		}
	}
	return &t, nil
}
