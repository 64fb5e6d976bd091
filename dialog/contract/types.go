package contract

// Phase tells the core whether the dialog engine is asking for slot
// validation mid-conversation or for final fulfillment.
type Phase string

const (
	PhaseDialog      Phase = "DialogCodeHook"
	PhaseFulfillment Phase = "FulfillmentCodeHook"
)

// Intent names dispatched by the engine.
const (
	IntentGreeting         = "Greeting"
	IntentSchedule         = "ScheduleAppointment"
	IntentFAQ              = "FAQ"
	IntentAgentTransfer    = "AgentTransfer"
	IntentCheckAppointment = "CheckAppointment"
	IntentCancelSchedule   = "CancelScheduling"
)

// SlotValue is one raw per-turn slot value. Resolutions carries the ranked
// candidate interpretations when the value was inferred upstream rather than
// typed verbatim.
type SlotValue struct {
	Value       string   `json:"value"`
	Resolutions []string `json:"resolutions,omitempty"`
}

// TurnRequest is everything the core consumes for one conversational turn.
// SessionAttributes is the flat attribute blob the caller persisted after the
// previous turn; the caller must persist TurnResult.SessionAttributes
// verbatim afterwards.
type TurnRequest struct {
	UserID            string               `json:"user_id"`
	Intent            string               `json:"intent"`
	Phase             Phase                `json:"phase"`
	Transcript        string               `json:"transcript,omitempty"`
	Sentiment         string               `json:"sentiment,omitempty"`
	Slots             map[string]SlotValue `json:"slots,omitempty"`
	SessionAttributes map[string]string    `json:"session_attributes,omitempty"`
}

// TurnResult is the sole output contract of the core.
type TurnResult struct {
	Directive         Directive         `json:"directive"`
	SessionAttributes map[string]string `json:"session_attributes"`
}

type DirectiveType string

const (
	DirectiveElicitSlot    DirectiveType = "ElicitSlot"
	DirectiveConfirmIntent DirectiveType = "ConfirmIntent"
	DirectiveElicitIntent  DirectiveType = "ElicitIntent"
	DirectiveDelegate      DirectiveType = "Delegate"
	DirectiveClose         DirectiveType = "Close"
)

// Close outcomes.
const (
	OutcomeFulfilled = "Fulfilled"
	OutcomeFailed    = "Failed"
)

type Message struct {
	ContentType string `json:"content_type"`
	Content     string `json:"content"`
}

// Option is a single multiple-choice button on a response card.
type Option struct {
	Text  string `json:"text"`
	Value string `json:"value"`
}

// ResponseCard is the optional multiple-choice attachment on an outgoing
// directive. Builders cap the option list at five entries.
type ResponseCard struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle"`
	Options  []Option `json:"options,omitempty"`
}

// Directive is the structured instruction returned to the hosting dialog
// engine: which slot to ask for, what to confirm, or the closing message.
// Type selects which of the remaining fields are meaningful.
type Directive struct {
	Type         DirectiveType     `json:"type"`
	IntentName   string            `json:"intent_name,omitempty"`
	Slots        map[string]string `json:"slots,omitempty"`
	SlotToElicit string            `json:"slot_to_elicit,omitempty"`
	Message      *Message          `json:"message,omitempty"`
	Outcome      string            `json:"outcome,omitempty"`
	Card         *ResponseCard     `json:"card,omitempty"`
}
