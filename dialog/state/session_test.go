package state

import (
	"slices"
	"testing"
)

func TestDecodeSessionEmptyBlob(t *testing.T) {
	t.Parallel()

	s, err := DecodeSession(nil)
	if err != nil {
		t.Fatalf("DecodeSession(nil) error = %v", err)
	}
	if len(s.Remembered) != 0 || len(s.Availability) != 0 || s.FallbackCount != 0 {
		t.Fatalf("expected empty session, got %+v", s)
	}
}

func TestSessionAttributesRoundTrip(t *testing.T) {
	t.Parallel()

	attrs := map[string]string{
		"rememberedSlots":    `{"FullName":"Jordan Reyes","ServiceType":"checkup"}`,
		"bookingMap":         `{"2026-09-02":["10:00","16:00","16:30"]}`,
		"fallbackCount":      "2",
		"appointment_time":   "10:00 a.m. on 2026-09-02",
		"connected_to_agent": "true",
		"campaign":           "spring-newsletter",
	}

	s, err := DecodeSession(attrs)
	if err != nil {
		t.Fatalf("DecodeSession() error = %v", err)
	}
	if s.Remembered[FieldFullName] != "Jordan Reyes" {
		t.Fatalf("remembered name = %q", s.Remembered[FieldFullName])
	}
	if !slices.Equal(s.Availability["2026-09-02"], []string{"10:00", "16:00", "16:30"}) {
		t.Fatalf("availability = %v", s.Availability["2026-09-02"])
	}
	if s.FallbackCount != 2 || s.LastBooking == "" || !s.AgentConnected {
		t.Fatalf("counters not decoded: %+v", s)
	}

	out, err := s.EncodeAttributes()
	if err != nil {
		t.Fatalf("EncodeAttributes() error = %v", err)
	}
	if out["campaign"] != "spring-newsletter" {
		t.Fatalf("foreign attribute dropped: %v", out)
	}
	if out["fallbackCount"] != "2" || out["connected_to_agent"] != "true" {
		t.Fatalf("counters not encoded: %v", out)
	}

	again, err := DecodeSession(out)
	if err != nil {
		t.Fatalf("second DecodeSession() error = %v", err)
	}
	if again.Remembered[FieldServiceType] != "checkup" {
		t.Fatalf("service type lost in round trip: %+v", again.Remembered)
	}
}

func TestDecodeSessionCorruptSlots(t *testing.T) {
	t.Parallel()

	_, err := DecodeSession(map[string]string{"rememberedSlots": "{broken"})
	if err == nil {
		t.Fatal("expected decode error for corrupt slots")
	}
}

func TestAvailabilityForGeneratesOnce(t *testing.T) {
	t.Parallel()

	s := NewSessionState()
	calls := 0
	generate := func(string) []string {
		calls++
		return []string{"10:00"}
	}

	first := s.AvailabilityFor("2026-09-02", generate)
	second := s.AvailabilityFor("2026-09-02", generate)
	if calls != 1 {
		t.Fatalf("generate called %d times, want 1", calls)
	}
	if !slices.Equal(first, second) {
		t.Fatalf("cached availability differs: %v vs %v", first, second)
	}
}

func TestSlotSetFirstMissingFollowsOrder(t *testing.T) {
	t.Parallel()

	s := SlotSet{}
	if got := s.FirstMissing(); got != FieldServiceType {
		t.Fatalf("FirstMissing() = %q, want ServiceType", got)
	}

	s[FieldServiceType] = "checkup"
	s[FieldFullName] = "Jordan Reyes"
	if got := s.FirstMissing(); got != FieldScreeningAnswer1 {
		t.Fatalf("FirstMissing() = %q, want ScreeningAnswer1", got)
	}

	for _, field := range FieldOrder {
		s[field] = "x"
	}
	if !s.Complete() {
		t.Fatal("expected complete slot set")
	}
}
