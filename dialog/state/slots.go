package state

// Slot field names for appointment booking, in elicitation order.
const (
	FieldServiceType      = "ServiceType"
	FieldFullName         = "FullName"
	FieldScreeningAnswer1 = "ScreeningAnswer1"
	FieldScreeningAnswer2 = "ScreeningAnswer2"
	FieldScreeningAnswer3 = "ScreeningAnswer3"
	FieldDate             = "Date"
	FieldTime             = "Time"
)

// FieldOrder is the required elicitation order: a later field is never asked
// for before every earlier field is present.
var FieldOrder = []string{
	FieldServiceType,
	FieldFullName,
	FieldScreeningAnswer1,
	FieldScreeningAnswer2,
	FieldScreeningAnswer3,
	FieldDate,
	FieldTime,
}

// FieldSpec configures how a slot behaves across turns.
type FieldSpec struct {
	// Remember carries the value across turns once given.
	Remember bool
	// TopResolution replaces the raw value with the highest-ranked upstream
	// resolution; no resolutions at all is a field-scoped error.
	TopResolution bool
	// ErrorMessage formats the resolution failure; %q receives the raw value.
	ErrorMessage string
}

// FieldConfig mirrors the bot model's slot configuration. ServiceType is
// validated against the service catalog instead of upstream resolutions, so
// an unrecognized value re-prompts rather than closing the conversation.
var FieldConfig = map[string]FieldSpec{
	FieldServiceType:      {Remember: true},
	FieldFullName:         {Remember: true},
	FieldScreeningAnswer1: {Remember: true},
	FieldScreeningAnswer2: {Remember: true},
	FieldScreeningAnswer3: {Remember: true},
	FieldDate:             {Remember: true},
	FieldTime:             {Remember: true},
}

// SlotSet maps field name to value; an empty value means the slot is not yet
// filled.
type SlotSet map[string]string

// Clone returns an independent copy.
func (s SlotSet) Clone() SlotSet {
	out := make(SlotSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// FirstMissing returns the earliest field in the elicitation order that is
// still empty, or "" when every required field is present.
func (s SlotSet) FirstMissing() string {
	for _, field := range FieldOrder {
		if s[field] == "" {
			return field
		}
	}
	return ""
}

// Complete reports whether every required field is present.
func (s SlotSet) Complete() bool {
	return s.FirstMissing() == ""
}

// rememberable returns the subset of s that is configured to persist across
// turns.
func (s SlotSet) rememberable(config map[string]FieldSpec) SlotSet {
	out := make(SlotSet, len(s))
	for field, spec := range config {
		if spec.Remember {
			out[field] = s[field]
		}
	}
	return out
}
