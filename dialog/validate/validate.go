// Package validate checks user-supplied appointment slot values against
// business constraints. Absent values are never a failure here; absence
// drives elicitation, not rejection.
package validate

import (
	"strconv"
	"strings"
	"time"

	schedulex "bookline/dialog/schedule"
)

// User-facing failure messages. Each constraint violation has its own
// message so the bot can re-prompt precisely.
const (
	MsgUnknownService = "I did not recognize that, what type of appointment would you like to schedule?"
	MsgBadTime        = "I did not recognize that, what time would you like to book your appointment?"
	MsgOutOfHours     = "Our business hours are ten a.m. to five p.m. What time works best for you?"
	MsgNotHalfHour    = "We schedule appointments every half hour, what time works best for you?"
	MsgBadDate        = "I did not understand that, what date works best for you?"
	MsgSameDay        = "Appointments must be scheduled a day in advance. Can you try a different date?"
	MsgWeekend        = "Our office is not open on the weekends, can you provide a work day?"
)

// Result is the verdict of one validation pass. Field names the offending
// slot when Valid is false.
type Result struct {
	Valid   bool
	Field   string
	Message string
}

func failed(field, message string) Result {
	return Result{Field: field, Message: message}
}

// Appointment validates serviceType, date and clock in that fixed order,
// short-circuiting on the first failure. services maps a known service type
// to its duration in minutes; today anchors the advance-notice check.
func Appointment(services map[string]int, serviceType, date, clock string, today time.Time) Result {
	if serviceType != "" {
		if _, ok := services[strings.ToLower(serviceType)]; !ok {
			return failed("ServiceType", MsgUnknownService)
		}
	}

	if clock != "" {
		if r := validClock(clock); !r.Valid {
			return r
		}
	}

	if date != "" {
		if r := validDate(date, today); !r.Valid {
			return r
		}
	}

	return Result{Valid: true}
}

func validClock(clock string) Result {
	hourPart, minutePart, found := strings.Cut(clock, ":")
	if !found || len(clock) != 5 {
		return failed("Time", MsgBadTime)
	}
	hour, err := strconv.Atoi(hourPart)
	if err != nil {
		return failed("Time", MsgBadTime)
	}
	minute, err := strconv.Atoi(minutePart)
	if err != nil {
		return failed("Time", MsgBadTime)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return failed("Time", MsgBadTime)
	}

	if hour < schedulex.OpenHour || hour > schedulex.CloseHour-1 {
		return failed("Time", MsgOutOfHours)
	}
	if minute != 0 && minute != 30 {
		return failed("Time", MsgNotHalfHour)
	}
	return Result{Valid: true}
}

func validDate(date string, today time.Time) Result {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return failed("Date", MsgBadDate)
	}

	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if !parsed.After(day) {
		return failed("Date", MsgSameDay)
	}
	if wd := schedulex.Weekday(parsed); wd == 5 || wd == 6 {
		return failed("Date", MsgWeekend)
	}
	return Result{Valid: true}
}
