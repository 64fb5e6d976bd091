package dialognode

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "bookline/dialog/contract"
	directivex "bookline/dialog/directive"
	schedulex "bookline/dialog/schedule"
	statex "bookline/dialog/state"
	validatex "bookline/dialog/validate"
)

// Slot elicitation prompts for the scheduling intent.
const (
	promptServiceType = "Sure thing! What type of appointment would you like to schedule?"
	promptFullName    = "What is your first and last name? "
	promptScreening1  = "Have you visited our clinic before? Please reply (Yes/No) "
	promptScreening2  = "In the past 14 days, have you been in close contact with anyone who tested positive for a contagious illness? Please reply (Yes/No) "
	promptScreening3  = "Do you currently have a fever, cough, or shortness of breath? Please reply (Yes/No) "
	promptNoWindows   = "We do not have any availability on that date, is there another day which works for you? "
	promptUnavailable = "The time you requested is not available. "
)

var fieldPrompts = map[string]string{
	statex.FieldFullName:         promptFullName,
	statex.FieldScreeningAnswer1: promptScreening1,
	statex.FieldScreeningAnswer2: promptScreening2,
	statex.FieldScreeningAnswer3: promptScreening3,
}

// scheduleContext is the working set one turn of the scheduling state
// machine evaluates its rules against.
type scheduleContext struct {
	turn     *TurnState
	services map[string]int
	rng      *rand.Rand

	transcript string
	merged     statex.SlotSet
	validation validatex.Result

	windows []string
}

// scheduleRule is one (predicate, action) pair. Rules are evaluated top-down
// and the first rule that applies decides the turn.
type scheduleRule struct {
	name    string
	applies func(*scheduleContext) bool
	respond func(*scheduleContext) (contractx.Directive, error)
}

// scheduleRules encodes the booking state machine. The order is the
// elicitation order: cancellation first, then validation repair, then the
// top-down field walk, then day planning, with fulfillment and delegation as
// the terminal rules.
var scheduleRules = []scheduleRule{
	{name: "cancel", applies: cancelRequested, respond: respondCancel},
	{name: "repair_invalid_slot", applies: slotInvalid, respond: respondInvalidSlot},
	{name: "elicit_missing_field", applies: fieldMissing, respond: respondMissingField},
	{name: "plan_day", applies: dayPlanned, respond: respondDayPlan},
	{name: "fulfill", applies: readyToFulfill, respond: respondFulfill},
	{name: "delegate", applies: func(*scheduleContext) bool { return true }, respond: respondDelegate},
}

func planSchedule(in *TurnState, services map[string]int, rng *rand.Rand) (contractx.Directive, error) {
	sc := &scheduleContext{
		turn:       in,
		services:   services,
		rng:        rng,
		transcript: strings.ToLower(strings.TrimSpace(in.Request.Transcript)),
		merged:     in.Merged,
		validation: validatex.Result{Valid: true},
	}
	if in.Request.Phase == contractx.PhaseDialog {
		sc.validation = validatex.Appointment(
			services,
			sc.merged[statex.FieldServiceType],
			sc.merged[statex.FieldDate],
			sc.merged[statex.FieldTime],
			in.Now,
		)
	}

	for _, rule := range scheduleRules {
		if !rule.applies(sc) {
			continue
		}
		log.Debug().Str("rule", rule.name).Msg("schedule rule matched")
		return rule.respond(sc)
	}
	return contractx.Directive{}, fmt.Errorf("no schedule rule matched intent %s", in.Request.Intent)
}

func cancelRequested(sc *scheduleContext) bool {
	return sc.transcript == "cancel" || sc.transcript == "cancel scheduling"
}

func respondCancel(sc *scheduleContext) (contractx.Directive, error) {
	return directivex.ElicitIntent(contractx.IntentCancelSchedule, sc.merged), nil
}

func slotInvalid(sc *scheduleContext) bool {
	return sc.dialogPhase() && !sc.validation.Valid
}

func respondInvalidSlot(sc *scheduleContext) (contractx.Directive, error) {
	field := sc.validation.Field
	sc.clearField(field)

	var card *contractx.ResponseCard
	switch field {
	case statex.FieldServiceType:
		card = directivex.NewCard("Specify "+field, sc.validation.Message, directivex.ServiceOptions(sc.services))
	case statex.FieldDate:
		card = directivex.NewCard("Specify "+field, sc.validation.Message, directivex.DateOptions(sc.turn.Now))
	}

	return directivex.ElicitSlot(sc.turn.Request.Intent, sc.merged, field, sc.validation.Message, card), nil
}

func fieldMissing(sc *scheduleContext) bool {
	if !sc.dialogPhase() {
		return false
	}
	missing := sc.merged.FirstMissing()
	return missing != "" && missing != statex.FieldTime
}

func respondMissingField(sc *scheduleContext) (contractx.Directive, error) {
	field := sc.merged.FirstMissing()

	switch field {
	case statex.FieldServiceType:
		card := directivex.NewCard("Specify Appointment Type",
			"What type of appointment would you like to schedule?",
			directivex.ServiceOptions(sc.services))
		return directivex.ElicitSlot(sc.turn.Request.Intent, sc.merged, field, promptServiceType, card), nil
	case statex.FieldDate:
		prompt := fmt.Sprintf("When would you like to schedule your %s?", sc.merged[statex.FieldServiceType])
		card := directivex.NewCard("Specify Date", prompt, directivex.DateOptions(sc.turn.Now))
		return directivex.ElicitSlot(sc.turn.Request.Intent, sc.merged, field, prompt, card), nil
	}

	return directivex.ElicitSlot(sc.turn.Request.Intent, sc.merged, field, fieldPrompts[field], nil), nil
}

// dayPlanned holds once every field up to Date is present during the dialog
// phase; Time may or may not be filled yet.
func dayPlanned(sc *scheduleContext) bool {
	if !sc.dialogPhase() {
		return false
	}
	missing := sc.merged.FirstMissing()
	return missing == "" || missing == statex.FieldTime
}

func respondDayPlan(sc *scheduleContext) (contractx.Directive, error) {
	date := sc.merged[statex.FieldDate]
	duration := sc.duration()

	availabilities := sc.turn.Session.AvailabilityFor(date, sc.generateDay)
	windows, err := schedulex.FilterByDuration(duration, availabilities)
	if err != nil {
		return contractx.Directive{}, err
	}
	sc.windows = windows

	if len(windows) == 0 {
		sc.clearField(statex.FieldDate)
		sc.clearField(statex.FieldTime)
		card := directivex.NewCard("Specify Date", "What day works best for you?",
			directivex.DateOptions(sc.turn.Now))
		message := promptNoWindows + sentimentSuffix(sc.turn.Request.Sentiment)
		return directivex.ElicitSlot(sc.turn.Request.Intent, sc.merged, statex.FieldDate, message, card), nil
	}

	message := fmt.Sprintf("What time on %s works for you? ", date)
	if token := sc.merged[statex.FieldTime]; token != "" {
		bookable, err := schedulex.IsBookable(token, duration, availabilities)
		if err != nil {
			return contractx.Directive{}, err
		}
		if bookable {
			return directivex.Delegate(sc.merged), nil
		}
		message = promptUnavailable
	}

	if len(windows) == 1 {
		sc.merged[statex.FieldTime] = windows[0]
		formatted := directivex.FormatClock(windows[0])
		card := directivex.NewCard("Confirm Appointment",
			fmt.Sprintf("Is %s on %s okay?", formatted, date),
			directivex.YesNoOptions())
		prompt := fmt.Sprintf("%s%s is our only availability, does that work for you?", message, formatted)
		return directivex.ConfirmIntent(sc.turn.Request.Intent, sc.merged, prompt, card), nil
	}

	card := directivex.NewCard("Specify Time", "What time works best for you?",
		directivex.TimeOptions(windows))
	prompt := message + directivex.AvailabilitySummary(windows)
	return directivex.ElicitSlot(sc.turn.Request.Intent, sc.merged, statex.FieldTime, prompt, card), nil
}

func readyToFulfill(sc *scheduleContext) bool {
	return sc.turn.Request.Phase == contractx.PhaseFulfillment && sc.merged.Complete()
}

func respondFulfill(sc *scheduleContext) (contractx.Directive, error) {
	session := sc.turn.Session
	date := sc.merged[statex.FieldDate]
	token := sc.merged[statex.FieldTime]

	if len(session.Availability[date]) == 0 {
		// The dialog phase should have primed the day's availability; a
		// missing entry means the hosting engine skipped it. Favor closing
		// the conversation over failing the turn.
		log.Warn().
			Str("user_id", sc.turn.Request.UserID).
			Str("date", date).
			Msg("availability missing at fulfillment, booking step skipped")
	} else if err := session.Availability.Book(date, token, sc.duration()); err != nil {
		return contractx.Directive{}, fmt.Errorf("book %s on %s: %w", token, date, err)
	}

	formatted := directivex.FormatClock(token)
	session.LastBooking = fmt.Sprintf("%s at %s", formatted, date)
	session.BookingRef = uuid.NewString()

	message := fmt.Sprintf("Okay, I have booked your appointment, %s. We will see you at %s on %s",
		sc.merged[statex.FieldFullName], formatted, date) + sentimentSuffix(sc.turn.Request.Sentiment)
	return directivex.Close(contractx.OutcomeFulfilled, message), nil
}

func respondDelegate(sc *scheduleContext) (contractx.Directive, error) {
	return directivex.Delegate(sc.merged), nil
}

func (sc *scheduleContext) dialogPhase() bool {
	return sc.turn.Request.Phase == contractx.PhaseDialog
}

func (sc *scheduleContext) duration() int {
	return sc.services[strings.ToLower(sc.merged[statex.FieldServiceType])]
}

// clearField drops a field from both the turn's merged view and the session
// memory so the re-elicited value starts clean next turn.
func (sc *scheduleContext) clearField(field string) {
	sc.merged[field] = ""
	delete(sc.turn.Session.Remembered, field)
}

func (sc *scheduleContext) generateDay(date string) []string {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil
	}
	return schedulex.Generate(day, sc.rng)
}

func sentimentSuffix(label string) string {
	if label == "" {
		return ""
	}
	return fmt.Sprintf(" [ Current sentiment: %s ]", label)
}
