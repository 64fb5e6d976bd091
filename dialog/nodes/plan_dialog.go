package dialognode

import (
	"context"
	"fmt"
	"math/rand"

	contractx "bookline/dialog/contract"
	directivex "bookline/dialog/directive"
	statex "bookline/dialog/state"
)

// PlanDialog dispatches the turn to the handler for its intent and records
// the resulting directive. It passes through when an earlier node already
// decided the turn.
func PlanDialog(
	ctx context.Context,
	in *TurnState,
	services map[string]int,
	index contractx.AnswerIndex,
	joinLink string,
	rng *rand.Rand,
) (*TurnState, error) {
	if in.Directive != nil {
		return in, nil
	}

	var (
		d   contractx.Directive
		err error
	)
	switch in.Request.Intent {
	case contractx.IntentGreeting:
		d = planGreeting(in.Session)
	case contractx.IntentSchedule:
		d, err = planSchedule(in, services, rng)
	case contractx.IntentFAQ:
		d, err = planFAQ(ctx, in, index)
	case contractx.IntentAgentTransfer:
		d = planAgentTransfer(in.Session, joinLink)
	case contractx.IntentCheckAppointment:
		d = planCheckAppointment(in.Session)
	default:
		return nil, fmt.Errorf("%w: %q", contractx.ErrUnknownIntent, in.Request.Intent)
	}
	if err != nil {
		return nil, err
	}

	in.Directive = &d
	return in, nil
}

func planGreeting(session *statex.SessionState) contractx.Directive {
	message := "Hi there! How can I help you today?\n" +
		"Ask a question e.g. \"Where is the clinic?\"\n" +
		"Text \"Schedule\" to schedule an appointment."
	if name := session.Remembered[statex.FieldFullName]; name != "" {
		message = fmt.Sprintf("Hi %s! How can I help you today?\n"+
			"Ask a question e.g. \"Where is the clinic?\"\n"+
			"Text \"Schedule\" to schedule an appointment.", name)
	}
	return directivex.Close(contractx.OutcomeFulfilled, message)
}

func planFAQ(ctx context.Context, in *TurnState, index contractx.AnswerIndex) (contractx.Directive, error) {
	in.Session.FallbackCount = 0
	in.Session.FallbackCount++

	if index == nil {
		return directivex.Close(contractx.OutcomeFulfilled,
			"Sorry, I was not able to understand your question."), nil
	}

	answer, err := index.Search(ctx, in.Request.Transcript)
	if err != nil {
		return contractx.Directive{}, fmt.Errorf("answer index search: %w", err)
	}
	if answer == "" {
		return directivex.Close(contractx.OutcomeFulfilled,
			"Sorry, I was not able to understand your question."), nil
	}
	return directivex.Close(contractx.OutcomeFulfilled, answer), nil
}

func planAgentTransfer(session *statex.SessionState, joinLink string) contractx.Directive {
	session.AgentConnected = true

	message := fmt.Sprintf("Please tap here: %s to connect with an agent. Thank you!", joinLink)
	if name := session.Remembered[statex.FieldFullName]; name != "" {
		message = fmt.Sprintf("Okay %s. Please tap here: %s to connect with an agent. Thank you!", name, joinLink)
	}
	return directivex.Close(contractx.OutcomeFulfilled, message)
}

func planCheckAppointment(session *statex.SessionState) contractx.Directive {
	if session.LastBooking == "" {
		return directivex.Close(contractx.OutcomeFulfilled,
			"You haven't scheduled any appointments yet.")
	}
	return directivex.Close(contractx.OutcomeFulfilled,
		fmt.Sprintf("You have an appointment booked at %s", session.LastBooking))
}
