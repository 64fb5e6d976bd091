package schedule

import (
	"errors"
	"math/rand"
	"slices"
	"testing"
	"time"

	contractx "bookline/dialog/contract"
)

func date(t *testing.T, iso string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", iso)
	if err != nil {
		t.Fatalf("parse date %q: %v", iso, err)
	}
	return d
}

func TestAdvanceHalfHour(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"10:00": "10:30",
		"10:30": "11:00",
		"16:00": "16:30",
		"16:30": "17:00",
	}
	for in, want := range cases {
		if got := AdvanceHalfHour(in); got != want {
			t.Fatalf("AdvanceHalfHour(%q) = %q, want %q", in, got, want)
		}
	}

	if got := AdvanceHalfHour(AdvanceHalfHour("10:00")); got != "11:00" {
		t.Fatalf("double advance from 10:00 = %q, want 11:00", got)
	}
}

func TestGenerateFixedDays(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))
	want := []string{"10:00", "16:00", "16:30"}

	// 2026-09-02 is a Wednesday, 2026-09-04 a Friday.
	for _, iso := range []string{"2026-09-02", "2026-09-04"} {
		got := Generate(date(t, iso), rng)
		if !slices.Equal(got, want) {
			t.Fatalf("Generate(%s) = %v, want %v", iso, got, want)
		}
	}
}

func TestGenerateClosedDays(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))

	// Tuesday, Thursday, Saturday, Sunday.
	for _, iso := range []string{"2026-09-01", "2026-09-03", "2026-09-05", "2026-09-06"} {
		if got := Generate(date(t, iso), rng); len(got) != 0 {
			t.Fatalf("Generate(%s) = %v, want empty", iso, got)
		}
	}
}

func TestGenerateMondayWithinBusinessHours(t *testing.T) {
	t.Parallel()

	monday := date(t, "2026-09-07")
	for seed := int64(0); seed < 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		got := Generate(monday, rng)
		for i, token := range got {
			hour, _ := splitToken(token)
			if hour < OpenHour || hour > CloseHour-1 {
				t.Fatalf("seed %d: token %q outside business hours", seed, token)
			}
			if i > 0 && got[i-1] >= token {
				t.Fatalf("seed %d: tokens not ascending: %v", seed, got)
			}
		}
	}
}

func TestIsBookableMatchesFilterByDuration(t *testing.T) {
	t.Parallel()

	availabilities := []string{"10:00", "10:30", "12:00", "16:00", "16:30"}
	for _, duration := range []int{DurationShort, DurationLong} {
		filtered, err := FilterByDuration(duration, availabilities)
		if err != nil {
			t.Fatalf("FilterByDuration(%d) error = %v", duration, err)
		}
		for token := "10:00"; token != "17:00"; token = AdvanceHalfHour(token) {
			ok, err := IsBookable(token, duration, availabilities)
			if err != nil {
				t.Fatalf("IsBookable(%q, %d) error = %v", token, duration, err)
			}
			if ok != slices.Contains(filtered, token) {
				t.Fatalf("duration %d: IsBookable(%q)=%v disagrees with filter %v", duration, token, ok, filtered)
			}
		}
	}
}

func TestIsBookableHourLongPairs(t *testing.T) {
	t.Parallel()

	availabilities := []string{"10:00", "10:30", "12:00"}

	ok, err := IsBookable("10:00", DurationLong, availabilities)
	if err != nil || !ok {
		t.Fatalf("IsBookable(10:00, 60) = %v, %v; want true", ok, err)
	}
	ok, err = IsBookable("12:00", DurationLong, availabilities)
	if err != nil || ok {
		t.Fatalf("IsBookable(12:00, 60) = %v, %v; want false", ok, err)
	}
}

func TestIsBookableRejectsUnknownDuration(t *testing.T) {
	t.Parallel()

	if _, err := IsBookable("10:00", 45, []string{"10:00"}); !errors.Is(err, contractx.ErrUnsupportedDuration) {
		t.Fatalf("expected ErrUnsupportedDuration, got %v", err)
	}
}

func TestMapBook(t *testing.T) {
	t.Parallel()

	m := Map{"2026-09-02": {"10:00", "16:00", "16:30"}}

	if err := m.Book("2026-09-02", "16:00", DurationLong); err != nil {
		t.Fatalf("Book() error = %v", err)
	}
	if got := m["2026-09-02"]; !slices.Equal(got, []string{"10:00"}) {
		t.Fatalf("after hour-long booking: %v, want [10:00]", got)
	}

	if err := m.Book("2026-09-02", "10:00", DurationShort); err != nil {
		t.Fatalf("Book() error = %v", err)
	}
	if got := m["2026-09-02"]; len(got) != 0 {
		t.Fatalf("after half-hour booking: %v, want empty", got)
	}
}

func TestMapBookAbsentTokenFails(t *testing.T) {
	t.Parallel()

	m := Map{"2026-09-02": {"10:00"}}
	if err := m.Book("2026-09-02", "11:00", DurationShort); !errors.Is(err, contractx.ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable, got %v", err)
	}
	if err := m.Book("2026-09-02", "10:00", DurationLong); !errors.Is(err, contractx.ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable for missing second half, got %v", err)
	}
}

func TestMapBookUnknownDurationLeavesMapUntouched(t *testing.T) {
	t.Parallel()

	m := Map{"2026-09-02": {"10:00", "16:00", "16:30"}}
	if err := m.Book("2026-09-02", "10:00", 45); !errors.Is(err, contractx.ErrUnsupportedDuration) {
		t.Fatalf("expected ErrUnsupportedDuration, got %v", err)
	}
	if got := m["2026-09-02"]; !slices.Equal(got, []string{"10:00", "16:00", "16:30"}) {
		t.Fatalf("availability mutated on rejected booking: %v", got)
	}
}
