// Package timeparse converts the human-entered time and interval strings
// accepted by the scheduling API into UTC instants and durations.
package timeparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/pkg/errors"
)

const (
	layoutFull  = "2006-01-02 15:04"
	layoutShort = "01-02 15:04"
)

var intervalRe = regexp.MustCompile(`^(\d+)([dhm])$`)

// ParseEventTime parses an absolute event time in either
// "YYYY-MM-DD HH:MM" or "MM-DD HH:MM" form. The short form is anchored to
// the calendar year of now. The result is UTC, truncated to the minute.
func ParseEventTime(input string, now time.Time) (time.Time, error) {
	if t, err := time.ParseInLocation(layoutFull, input, time.UTC); err == nil {
		return t.Truncate(time.Minute), nil
	}

	t, err := time.ParseInLocation(layoutShort, input, time.UTC)
	if err != nil {
		return time.Time{}, errors.InvalidTimeFormat(input)
	}

	anchored := time.Date(now.UTC().Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
	// The reference year used by Parse is a leap year. Re-anchoring
	// "02-29" to a non-leap year would silently normalize to Mar 1.
	if anchored.Month() != t.Month() || anchored.Day() != t.Day() {
		return time.Time{}, errors.InvalidTimeFormat(input)
	}
	return anchored, nil
}

// ParseInterval parses a recurrence step of the form "<amount><unit>"
// where unit is d, h or m. The empty string is a valid "no interval" and
// returns (0, nil); callers decide whether an absent interval is legal.
func ParseInterval(input string) (time.Duration, error) {
	if input == "" {
		return 0, nil
	}

	m := intervalRe.FindStringSubmatch(strings.ToLower(input))
	if m == nil {
		return 0, errors.InvalidInterval(input)
	}

	amount, err := strconv.Atoi(m[1])
	if err != nil || amount <= 0 {
		return 0, errors.InvalidInterval(input)
	}

	switch m[2] {
	case "d":
		return time.Duration(amount) * 24 * time.Hour, nil
	case "h":
		return time.Duration(amount) * time.Hour, nil
	case "m":
		return time.Duration(amount) * time.Minute, nil
	}
	return 0, errors.InvalidInterval(input)
}
