package dialognode

import (
	contractx "bookline/dialog/contract"
	directivex "bookline/dialog/directive"
	statex "bookline/dialog/state"
)

// ReconcileSlots merges this turn's fresh slot values with the values
// remembered in the session. A field-scoped resolution failure does not fail
// the turn; it closes the conversation with the failure message, matching how
// the bot surfaces misheard values to the user.
func ReconcileSlots(in *TurnState) (*TurnState, error) {
	merged, err := statex.Reconcile(statex.FieldConfig, in.Request.Slots, in.Session)
	if err != nil {
		if fieldErr, ok := contractx.AsFieldError(err); ok {
			d := directivex.Close(contractx.OutcomeFulfilled, fieldErr.Message)
			in.Directive = &d
			return in, nil
		}
		return nil, err
	}
	in.Merged = merged
	return in, nil
}
