package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"arena-booking-api/modules/play/entity"
)

const dateLayout = "2006-01-02"

// minutesOfDay converts "HH:MM" to minutes from midnight.
func minutesOfDay(hhmm string) (int, error) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q", hhmm)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", hhmm)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", hhmm)
	}
	return h*60 + m, nil
}

// parseTimeRange splits "HH:MM - HH:MM" into start/end minutes from midnight.
func parseTimeRange(timeRange string) (int, int, error) {
	parts := strings.SplitN(timeRange, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time range %q", timeRange)
	}
	start, err := minutesOfDay(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}
	end, err := minutesOfDay(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// NextOccurrences returns the next count occurrence dates of the template's
// weekday, starting from now. Today counts only while now is still before the
// session window's end; afterwards the first occurrence is a week out.
func NextOccurrences(now time.Time, tmpl entity.PlaySlotTemplate, count int) []string {
	dates := make([]string, 0, count)

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	offset := (int(tmpl.DayOfWeek) - int(day.Weekday()) + 7) % 7
	first := day.AddDate(0, 0, offset)

	if offset == 0 {
		_, end, err := parseTimeRange(tmpl.TimeRange)
		if err == nil {
			minutesNow := now.Hour()*60 + now.Minute()
			if minutesNow >= end {
				first = first.AddDate(0, 0, 7)
			}
		}
	}

	for i := 0; i < count; i++ {
		dates = append(dates, first.AddDate(0, 0, 7*i).Format(dateLayout))
	}
	return dates
}

// IsWithinPlayWindow reports whether the slot starting at slotTime on date
// falls inside any session template's window. Session windows claim every
// court, so a true result closes regular booking for all courts.
func IsWithinPlayWindow(date, slotTime string, templates []entity.PlaySlotTemplate) bool {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return false
	}
	slotMinutes, err := minutesOfDay(slotTime)
	if err != nil {
		return false
	}

	for _, tmpl := range templates {
		if tmpl.DayOfWeek != d.Weekday() {
			continue
		}
		start, end, err := parseTimeRange(tmpl.TimeRange)
		if err != nil {
			continue
		}
		if slotMinutes >= start && slotMinutes < end {
			return true
		}
	}
	return false
}
