package directive

import (
	"fmt"
	"strings"
)

// FormatClock renders an "HH:MM" token for display: "10:00" -> "10:00 a.m.",
// "16:30" -> "4:30 p.m.". The minute part keeps its original string form.
func FormatClock(token string) string {
	hourPart, minute, _ := strings.Cut(token, ":")
	var hour int
	fmt.Sscanf(hourPart, "%d", &hour)

	switch {
	case hour > 12:
		return fmt.Sprintf("%d:%s p.m.", hour-12, minute)
	case hour == 12:
		return fmt.Sprintf("12:%s p.m.", minute)
	case hour == 0:
		return fmt.Sprintf("12:%s a.m.", minute)
	}
	return fmt.Sprintf("%s:%s a.m.", hourPart, minute)
}

// AvailabilitySummary phrases up to three candidate start times for an
// elicitation message. It expects at least two availabilities; a single
// availability goes through the confirmation path instead.
func AvailabilitySummary(availabilities []string) string {
	prefix := "We have time availabilities at "
	if len(availabilities) > 3 {
		prefix = "We have plenty of availability, including "
	}

	prefix += FormatClock(availabilities[0])
	if len(availabilities) == 2 {
		return fmt.Sprintf("%s and %s", prefix, FormatClock(availabilities[1]))
	}
	return fmt.Sprintf("%s, %s and %s", prefix, FormatClock(availabilities[1]), FormatClock(availabilities[2]))
}
