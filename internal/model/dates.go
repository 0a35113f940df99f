package model

import (
	"strings"
	"time"
)

// ParseDate parses a reschedule value relative to now. It understands
// timestamps, calendar dates and a few natural words (today, tomorrow,
// weekday names, nextweek). Day-only values land at the end of that day.
func ParseDate(s string, now time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, loc)

	switch strings.ToLower(s) {
	case "today":
		return today, true
	case "tomorrow", "tom":
		return today.AddDate(0, 0, 1), true
	case "monday", "mon":
		return nextWeekday(today, time.Monday), true
	case "tuesday", "tue":
		return nextWeekday(today, time.Tuesday), true
	case "wednesday", "wed":
		return nextWeekday(today, time.Wednesday), true
	case "thursday", "thu":
		return nextWeekday(today, time.Thursday), true
	case "friday", "fri":
		return nextWeekday(today, time.Friday), true
	case "saturday", "sat":
		return nextWeekday(today, time.Saturday), true
	case "sunday", "sun":
		return nextWeekday(today, time.Sunday), true
	case "nextweek":
		return today.AddDate(0, 0, 7), true
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}

	// Date and time without zone, as typed in a datetime field
	for _, format := range []string{"2006-01-02T15:04", "2006-01-02T15:04:05", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(format, s, loc); err == nil {
			return t, true
		}
	}

	formats := []string{
		"2006-01-02",
		"01/02/2006",
		"01-02-2006",
		"Jan 2",
		"Jan 2, 2006",
	}
	for _, format := range formats {
		if t, err := time.ParseInLocation(format, s, loc); err == nil {
			year := t.Year()
			// If no year, use current year
			if year == 0 {
				year = now.Year()
			}
			return time.Date(year, t.Month(), t.Day(), 23, 59, 59, 0, loc), true
		}
	}

	return time.Time{}, false
}

func nextWeekday(today time.Time, day time.Weekday) time.Time {
	daysUntil := int(day - today.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}
	return today.AddDate(0, 0, daysUntil)
}

// Timestamp normalizes t the way task dates are stored: UTC, millisecond precision
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
