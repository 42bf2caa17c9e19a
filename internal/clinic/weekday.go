package clinic

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// weekdayNames is the stored spelling of each weekday in AvailableDays.
var weekdayNames = map[time.Weekday]string{
	time.Sunday:    "Sunday",
	time.Monday:    "Monday",
	time.Tuesday:   "Tuesday",
	time.Wednesday: "Wednesday",
	time.Thursday:  "Thursday",
	time.Friday:    "Friday",
	time.Saturday:  "Saturday",
}

// ParseWeekday maps a long English weekday name ("Monday") to time.Weekday.
// Matching ignores case and surrounding whitespace.
func ParseWeekday(name string) (time.Weekday, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sunday":
		return time.Sunday, true
	case "monday":
		return time.Monday, true
	case "tuesday":
		return time.Tuesday, true
	case "wednesday":
		return time.Wednesday, true
	case "thursday":
		return time.Thursday, true
	case "friday":
		return time.Friday, true
	case "saturday":
		return time.Saturday, true
	default:
		return time.Sunday, false
	}
}

// WeekdayName returns the stored spelling for a weekday.
func WeekdayName(day time.Weekday) string {
	return weekdayNames[day]
}

// ParseSlotTime converts a display time such as "09:00 AM" or "2:30 pm" into
// minutes after midnight.
func ParseSlotTime(value string) (int, error) {
	v := strings.ToUpper(strings.Join(strings.Fields(value), " "))
	for _, layout := range []string{"03:04 PM", "3:04 PM", "03:04PM", "3:04PM", "15:04"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Hour()*60 + t.Minute(), nil
		}
	}
	return 0, fmt.Errorf("clinic: %w: %q", ErrInvalidSlotTime, value)
}

// SortSlots returns a copy of slots ordered by clock time. Unparseable
// entries sort last, keeping their relative order.
func SortSlots(slots []TimeSlot) []TimeSlot {
	out := slices.Clone(slots)
	key := func(s TimeSlot) int {
		m, err := ParseSlotTime(s.Time)
		if err != nil {
			return 24 * 60
		}
		return m
	}
	slices.SortStableFunc(out, func(a, b TimeSlot) int {
		return key(a) - key(b)
	})
	return out
}
