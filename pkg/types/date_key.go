package types

import (
	"fmt"
	"time"
)

// Date keys are zero-padded YYYY-MM-DD strings, so lexicographic order is
// chronological order and a month window is a simple prefix match.
const dateKeyLayout = "2006-01-02"

// FormatDateKey formats a time as a date key in its own location.
func FormatDateKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}

// ParseDateKey validates a date key.
func ParseDateKey(dateKey string) (time.Time, error) {
	t, err := time.Parse(dateKeyLayout, dateKey)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", dateKey, err)
	}
	return t, nil
}

// PrevDateKey returns the date key one calendar day earlier.
func PrevDateKey(dateKey string) (string, error) {
	t, err := ParseDateKey(dateKey)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, -1).Format(dateKeyLayout), nil
}

// MonthPrefix turns "2025-06" (or a full date key) into the "2025-06-"
// prefix shared by every date key in that month.
func MonthPrefix(yearMonth string) string {
	if len(yearMonth) > 7 {
		yearMonth = yearMonth[:7]
	}
	return yearMonth + "-"
}
