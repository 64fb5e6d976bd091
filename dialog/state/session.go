// Package state owns the turn-to-turn conversational memory: the remembered
// slot set, the cached availability map, and the counters carried in the
// session attribute blob. The typed SessionState is the in-core view; the
// flat map[string]string blob exists only at the collaborator boundary.
package state

import (
	"encoding/json"
	"fmt"
	"strconv"

	schedulex "bookline/dialog/schedule"
)

// Attribute blob keys. Kept wire-compatible with sessions written by the
// previous generation of the bot.
const (
	attrRememberedSlots = "rememberedSlots"
	attrBookingMap      = "bookingMap"
	attrFallbackCount   = "fallbackCount"
	attrLastBooking     = "appointment_time"
	attrBookingRef      = "bookingReference"
	attrAgentConnected  = "connected_to_agent"
)

var coreAttrs = map[string]struct{}{
	attrRememberedSlots: {},
	attrBookingMap:      {},
	attrFallbackCount:   {},
	attrLastBooking:     {},
	attrBookingRef:      {},
	attrAgentConnected:  {},
}

// SessionState is the per-conversation memory. It is created on the first
// turn for a user and mutated on every turn; the caller owns its lifetime.
type SessionState struct {
	// Remembered holds slot values given on earlier turns.
	Remembered SlotSet
	// Availability caches each generated day so repeated lookups stay
	// deterministic within the session.
	Availability schedulex.Map
	// FallbackCount counts consecutive turns the bot failed to understand.
	FallbackCount int
	// LastBooking is the human-readable description of the most recently
	// confirmed appointment, e.g. "10:00 a.m. at 2026-09-09".
	LastBooking string
	// BookingRef is the reference issued with the last confirmed booking.
	BookingRef string
	// AgentConnected marks the conversation as handed off to a human.
	AgentConnected bool

	// extra preserves attribute keys the core does not own.
	extra map[string]string
}

// NewSessionState returns an empty session.
func NewSessionState() *SessionState {
	return &SessionState{
		Remembered:   make(SlotSet),
		Availability: make(schedulex.Map),
	}
}

// DecodeSession builds the typed session view from the caller's attribute
// blob. Unknown keys are preserved and round-tripped untouched. Corrupt
// embedded JSON is an error; the caller decides whether to reset the
// session.
func DecodeSession(attrs map[string]string) (*SessionState, error) {
	s := NewSessionState()

	if raw := attrs[attrRememberedSlots]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &s.Remembered); err != nil {
			return nil, fmt.Errorf("decode remembered slots: %w", err)
		}
	}
	if raw := attrs[attrBookingMap]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &s.Availability); err != nil {
			return nil, fmt.Errorf("decode availability map: %w", err)
		}
	}
	if raw := attrs[attrFallbackCount]; raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("decode fallback count: %w", err)
		}
		s.FallbackCount = n
	}
	s.LastBooking = attrs[attrLastBooking]
	s.BookingRef = attrs[attrBookingRef]
	s.AgentConnected = attrs[attrAgentConnected] == "true"

	for k, v := range attrs {
		if _, owned := coreAttrs[k]; owned {
			continue
		}
		if s.extra == nil {
			s.extra = make(map[string]string)
		}
		s.extra[k] = v
	}

	return s, nil
}

// EncodeAttributes serializes the session back into the flat blob the caller
// persists verbatim.
func (s *SessionState) EncodeAttributes() (map[string]string, error) {
	attrs := make(map[string]string, len(s.extra)+len(coreAttrs))
	for k, v := range s.extra {
		attrs[k] = v
	}

	slots, err := json.Marshal(s.Remembered)
	if err != nil {
		return nil, fmt.Errorf("encode remembered slots: %w", err)
	}
	attrs[attrRememberedSlots] = string(slots)

	if len(s.Availability) > 0 {
		booking, err := json.Marshal(s.Availability)
		if err != nil {
			return nil, fmt.Errorf("encode availability map: %w", err)
		}
		attrs[attrBookingMap] = string(booking)
	}

	attrs[attrFallbackCount] = strconv.Itoa(s.FallbackCount)
	if s.LastBooking != "" {
		attrs[attrLastBooking] = s.LastBooking
	}
	if s.BookingRef != "" {
		attrs[attrBookingRef] = s.BookingRef
	}
	if s.AgentConnected {
		attrs[attrAgentConnected] = "true"
	}

	return attrs, nil
}

// AvailabilityFor returns the cached availability for a date, generating and
// caching it on first touch via generate.
func (s *SessionState) AvailabilityFor(date string, generate func(string) []string) []string {
	if tokens, ok := s.Availability[date]; ok {
		return tokens
	}
	tokens := generate(date)
	s.Availability[date] = tokens
	return tokens
}
