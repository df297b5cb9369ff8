package utils

import "time"

// DateLayout is the calendar-date wire format used by check-in records.
const DateLayout = "2006-01-02"

// ValidDate reports whether s is a well-formed YYYY-MM-DD date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// PrevDate returns the calendar day before the given YYYY-MM-DD date.
func PrevDate(s string) (string, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, -1).Format(DateLayout), nil
}

// Today returns the current local calendar date as YYYY-MM-DD.
func Today() string {
	return time.Now().In(time.Local).Format(DateLayout)
}

// WithinOneDay reports whether date is today or yesterday relative to today.
// A check-in older than that means the streak is broken.
func WithinOneDay(date, today string) bool {
	if date == today {
		return true
	}
	prev, err := PrevDate(today)
	if err != nil {
		return false
	}
	return date == prev
}
