// Package schedule holds the time and availability arithmetic for
// appointment booking: half-hour token math, per-day availability window
// generation, and booking mutations.
//
// A time token is an "HH:MM" string on the hour or half hour within business
// hours, e.g. "10:00" or "16:30". Availability for a day is an ordered slice
// of bookable tokens.
package schedule

import (
	"fmt"
	"math/rand"
	"slices"
	"strconv"
	"strings"
	"time"

	contractx "bookline/dialog/contract"
)

// Business hours. Appointments start at OpenHour and the last slot ends at
// CloseHour.
const (
	OpenHour  = 10
	CloseHour = 17
)

// Supported appointment durations in minutes.
const (
	DurationShort = 30
	DurationLong  = 60
)

const availableProbability = 0.3

// AdvanceHalfHour returns the next half-hour token: "10:00" -> "10:30",
// "10:30" -> "11:00". The input minute must be 00 or 30.
func AdvanceHalfHour(token string) string {
	hour, minute := splitToken(token)
	if minute == 30 {
		return formatToken(hour+1, 0)
	}
	return formatToken(hour, 30)
}

// Generate produces the bookable half-hour tokens for a date. The result is
// deterministic by weekday but randomized within it:
//   - Mondays offer each hourly slot from 10:00 to 16:00 with 30%
//     probability; an offered hour yields its first half, second half, or
//     both halves with equal probability.
//   - Wednesdays and Fridays always offer 10:00, 16:00 and 16:30.
//   - Every other day, weekends included, offers nothing.
func Generate(date time.Time, rng *rand.Rand) []string {
	availabilities := []string{}

	switch Weekday(date) {
	case 0:
		for hour := OpenHour; hour <= CloseHour-1; hour++ {
			if rng.Float64() >= availableProbability {
				continue
			}
			switch rng.Intn(3) + 1 {
			case 1:
				availabilities = append(availabilities, formatToken(hour, 0))
			case 2:
				availabilities = append(availabilities, formatToken(hour, 30))
			default:
				availabilities = append(availabilities, formatToken(hour, 0), formatToken(hour, 30))
			}
		}
	case 2, 4:
		availabilities = append(availabilities, "10:00", "16:00", "16:30")
	}

	return availabilities
}

// IsBookable reports whether token can start an appointment of the given
// duration against the availability set. A 60-minute appointment needs both
// the token and its paired second half. Any other duration is a caller
// contract violation.
func IsBookable(token string, durationMinutes int, availabilities []string) (bool, error) {
	switch durationMinutes {
	case DurationShort:
		return slices.Contains(availabilities, token), nil
	case DurationLong:
		return slices.Contains(availabilities, token) &&
			slices.Contains(availabilities, AdvanceHalfHour(token)), nil
	}
	return false, fmt.Errorf("%w: %d minutes", contractx.ErrUnsupportedDuration, durationMinutes)
}

// FilterByDuration walks business hours in half-hour steps and returns, in
// ascending order, every token that can start an appointment of the given
// duration.
func FilterByDuration(durationMinutes int, availabilities []string) ([]string, error) {
	var starts []string
	last := formatToken(CloseHour, 0)
	for token := formatToken(OpenHour, 0); token != last; token = AdvanceHalfHour(token) {
		ok, err := IsBookable(token, durationMinutes, availabilities)
		if err != nil {
			return nil, err
		}
		if ok {
			starts = append(starts, token)
		}
	}
	return starts, nil
}

// Map is a day-keyed availability map: ISO date string -> ordered bookable
// tokens. A token's presence means the window is bookable.
type Map map[string][]string

// Book removes token (and its second half for 60-minute appointments) from
// the date's availability. Removing an absent token means the state machine
// reached booking with a stale slot, which is a logic error, not a user
// condition.
func (m Map) Book(date, token string, durationMinutes int) error {
	if durationMinutes != DurationShort && durationMinutes != DurationLong {
		return fmt.Errorf("%w: %d minutes", contractx.ErrUnsupportedDuration, durationMinutes)
	}
	if err := m.remove(date, token); err != nil {
		return err
	}
	if durationMinutes == DurationLong {
		return m.remove(date, AdvanceHalfHour(token))
	}
	return nil
}

func (m Map) remove(date, token string) error {
	idx := slices.Index(m[date], token)
	if idx < 0 {
		return fmt.Errorf("%w: %s on %s", contractx.ErrSlotUnavailable, token, date)
	}
	m[date] = slices.Delete(m[date], idx, idx+1)
	return nil
}

// Weekday maps a date to a Monday-based weekday index (Monday=0 ... Sunday=6).
func Weekday(date time.Time) int {
	return (int(date.Weekday()) + 6) % 7
}

func splitToken(token string) (hour, minute int) {
	h, m, _ := strings.Cut(token, ":")
	hour, _ = strconv.Atoi(h)
	minute, _ = strconv.Atoi(m)
	return hour, minute
}

func formatToken(hour, minute int) string {
	return fmt.Sprintf("%d:%02d", hour, minute)
}
