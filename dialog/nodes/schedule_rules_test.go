package dialognode

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	contractx "bookline/dialog/contract"
	statex "bookline/dialog/state"
)

var testServices = map[string]int{
	"checkup":       30,
	"physical exam": 60,
}

func newScheduleTurn(t *testing.T, phase contractx.Phase, transcript string, merged statex.SlotSet) *TurnState {
	t.Helper()
	return &TurnState{
		Request: contractx.TurnRequest{
			UserID:     "u1",
			Intent:     contractx.IntentSchedule,
			Phase:      phase,
			Transcript: transcript,
		},
		Now:     time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC),
		Session: statex.NewSessionState(),
		Merged:  merged,
	}
}

func TestCancelOutranksValidation(t *testing.T) {
	t.Parallel()

	// Even with an invalid service type on the books, a cancel phrase wins.
	turn := newScheduleTurn(t, contractx.PhaseDialog, "CANCEL SCHEDULING",
		statex.SlotSet{statex.FieldServiceType: "haircut"})

	d, err := planSchedule(turn, testServices, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("planSchedule() error = %v", err)
	}
	if d.Type != contractx.DirectiveElicitIntent || d.IntentName != contractx.IntentCancelSchedule {
		t.Fatalf("directive = %+v", d)
	}
}

func TestFieldWalkOrder(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		merged statex.SlotSet
		want   string
	}{
		{name: "nothing yet", merged: statex.SlotSet{}, want: statex.FieldServiceType},
		{
			name:   "service given",
			merged: statex.SlotSet{statex.FieldServiceType: "checkup"},
			want:   statex.FieldFullName,
		},
		{
			name: "screening pending",
			merged: statex.SlotSet{
				statex.FieldServiceType: "checkup",
				statex.FieldFullName:    "Jane Doe",
			},
			want: statex.FieldScreeningAnswer1,
		},
		{
			name: "date pending",
			merged: statex.SlotSet{
				statex.FieldServiceType:      "checkup",
				statex.FieldFullName:         "Jane Doe",
				statex.FieldScreeningAnswer1: "No",
				statex.FieldScreeningAnswer2: "No",
				statex.FieldScreeningAnswer3: "No",
			},
			want: statex.FieldDate,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			turn := newScheduleTurn(t, contractx.PhaseDialog, "", tc.merged)
			d, err := planSchedule(turn, testServices, rand.New(rand.NewSource(1)))
			if err != nil {
				t.Fatalf("planSchedule() error = %v", err)
			}
			if d.Type != contractx.DirectiveElicitSlot || d.SlotToElicit != tc.want {
				t.Fatalf("directive = %+v, want elicit %s", d, tc.want)
			}
		})
	}
}

func TestDatePromptNamesService(t *testing.T) {
	t.Parallel()

	turn := newScheduleTurn(t, contractx.PhaseDialog, "", statex.SlotSet{
		statex.FieldServiceType:      "checkup",
		statex.FieldFullName:         "Jane Doe",
		statex.FieldScreeningAnswer1: "No",
		statex.FieldScreeningAnswer2: "No",
		statex.FieldScreeningAnswer3: "No",
	})

	d, err := planSchedule(turn, testServices, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("planSchedule() error = %v", err)
	}
	if !strings.Contains(d.Message.Content, "your checkup") {
		t.Fatalf("date prompt = %q", d.Message.Content)
	}
	if d.Card == nil || len(d.Card.Options) != 5 {
		t.Fatalf("date card = %+v", d.Card)
	}
}

func TestFulfillmentWithIncompleteSlotsDelegates(t *testing.T) {
	t.Parallel()

	turn := newScheduleTurn(t, contractx.PhaseFulfillment, "",
		statex.SlotSet{statex.FieldServiceType: "checkup"})

	d, err := planSchedule(turn, testServices, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("planSchedule() error = %v", err)
	}
	if d.Type != contractx.DirectiveDelegate {
		t.Fatalf("directive = %+v, want Delegate", d)
	}
}

func TestValidateTurn(t *testing.T) {
	t.Parallel()

	if _, err := ValidateTurn(contractx.TurnRequest{Intent: "  "}, time.Now); err != ErrInvalidIntent {
		t.Fatalf("expected ErrInvalidIntent, got %v", err)
	}

	if _, err := ValidateTurn(contractx.TurnRequest{Intent: "Greeting", Phase: "Webhook"}, time.Now); err != ErrInvalidPhase {
		t.Fatalf("expected ErrInvalidPhase, got %v", err)
	}

	turn, err := ValidateTurn(contractx.TurnRequest{Intent: "Greeting"}, time.Now)
	if err != nil {
		t.Fatalf("ValidateTurn() error = %v", err)
	}
	if turn.Request.Phase != contractx.PhaseDialog {
		t.Fatalf("default phase = %q", turn.Request.Phase)
	}
}
