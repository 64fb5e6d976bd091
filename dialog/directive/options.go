package directive

import (
	"fmt"
	"sort"
	"time"

	contractx "bookline/dialog/contract"
	schedulex "bookline/dialog/schedule"
)

var dayAbbrev = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// ServiceOptions lists the bookable services with their durations, in stable
// alphabetical order.
func ServiceOptions(services map[string]int) []contractx.Option {
	names := make([]string, 0, len(services))
	for name := range services {
		names = append(names, name)
	}
	sort.Strings(names)

	options := make([]contractx.Option, 0, len(names))
	for _, name := range names {
		options = append(options, contractx.Option{
			Text:  fmt.Sprintf("%s (%d min)", name, services[name]),
			Value: name,
		})
	}
	return options
}

// DateOptions suggests the next five weekdays after today.
func DateOptions(today time.Time) []contractx.Option {
	options := make([]contractx.Option, 0, maxCardOptions)
	day := today
	for len(options) < maxCardOptions {
		day = day.AddDate(0, 0, 1)
		wd := schedulex.Weekday(day)
		if wd >= 5 {
			continue
		}
		options = append(options, contractx.Option{
			Text:  fmt.Sprintf("%d-%d (%s)", int(day.Month()), day.Day(), dayAbbrev[wd]),
			Value: day.Format("2006-01-02"),
		})
	}
	return options
}

// TimeOptions renders bookable start times as card buttons.
func TimeOptions(availabilities []string) []contractx.Option {
	options := make([]contractx.Option, 0, len(availabilities))
	for _, token := range availabilities {
		options = append(options, contractx.Option{
			Text:  FormatClock(token),
			Value: token,
		})
	}
	return options
}
