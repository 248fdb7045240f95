package utils

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire form of every date-only value.
const DateLayout = "2006-01-02"

// ParseDateOnly parses a strict YYYY-MM-DD string into UTC midnight.
// It reports false for anything else, including impossible calendar dates.
func ParseDateOnly(s string) (time.Time, bool) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return time.Time{}, false
	}

	nums := make([]int, 3)
	for i, p := range parts {
		for _, r := range p {
			if r < '0' || r > '9' {
				return time.Time{}, false
			}
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, false
		}
		nums[i] = n
	}

	year, month, day := nums[0], nums[1], nums[2]
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (Feb 30 -> Mar 2); reject instead.
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// ToYMD formats t as YYYY-MM-DD in UTC.
func ToYMD(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// TruncateDate drops the time of day, keeping the UTC calendar date.
func TruncateDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// AddDays shifts a date by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return TruncateDate(TruncateDate(t).AddDate(0, 0, n))
}
