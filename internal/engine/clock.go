// Package engine implements the pure scheduling calculations: the weekly
// time grid, the slot index, conflict detection, resolution suggestions,
// multi-learner coordination and the adaptive context. Nothing in this
// package performs I/O or mutates caller state.
package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// parseClock converts an "HH:MM" label to minutes since midnight.
func parseClock(raw string) (int, bool) {
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}

// formatClock renders minutes since midnight back to "HH:MM".
func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// weekDates returns the seven dates of the Monday-start week containing the
// given date. A malformed date yields a window anchored at the date itself.
func weekDates(date string) []string {
	anchor, err := time.Parse(dateLayout, date)
	if err != nil {
		return []string{date}
	}
	offset := int(anchor.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	start := anchor.AddDate(0, 0, -offset)

	dates := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		dates = append(dates, start.AddDate(0, 0, i).Format(dateLayout))
	}
	return dates
}

// weekdayName returns the human weekday name for a date, or the raw date
// when it cannot be parsed.
func weekdayName(date string) string {
	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		return date
	}
	return parsed.Weekday().String()
}
