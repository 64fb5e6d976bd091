// Package dialognode holds the per-turn pipeline nodes the engine wires into
// its compiled graph. Each node takes the turn state, does one job, and hands
// the state to the next node.
package dialognode

import (
	"errors"
	"strings"
	"time"

	contractx "bookline/dialog/contract"
	statex "bookline/dialog/state"
)

var (
	ErrInvalidIntent = errors.New("intent name is empty")
	ErrInvalidPhase  = errors.New("invocation phase is not recognized")
)

// TurnState is the mutable state threaded through one turn of the graph.
type TurnState struct {
	Request contractx.TurnRequest
	Now     time.Time

	Session *statex.SessionState
	Merged  statex.SlotSet

	// Directive is set by the first node that decides the turn's outcome;
	// later planning nodes pass through once it is non-nil.
	Directive *contractx.Directive
}

// ValidateTurn checks the request shape and seeds the turn state.
func ValidateTurn(in contractx.TurnRequest, nowFn func() time.Time) (*TurnState, error) {
	in.Intent = strings.TrimSpace(in.Intent)
	if in.Intent == "" {
		return nil, ErrInvalidIntent
	}

	switch in.Phase {
	case contractx.PhaseDialog, contractx.PhaseFulfillment:
	case "":
		in.Phase = contractx.PhaseDialog
	default:
		return nil, ErrInvalidPhase
	}

	return &TurnState{
		Request: in,
		Now:     nowFn(),
	}, nil
}
