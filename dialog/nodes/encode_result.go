package dialognode

import (
	"fmt"

	contractx "bookline/dialog/contract"
)

// EncodeResult serializes the mutated session back into the attribute blob
// and packages the turn's directive.
func EncodeResult(in *TurnState) (contractx.TurnResult, error) {
	if in.Directive == nil {
		return contractx.TurnResult{}, fmt.Errorf("turn for intent %s produced no directive", in.Request.Intent)
	}

	attrs, err := in.Session.EncodeAttributes()
	if err != nil {
		return contractx.TurnResult{}, fmt.Errorf("encode session: %w", err)
	}

	return contractx.TurnResult{
		Directive:         *in.Directive,
		SessionAttributes: attrs,
	}, nil
}
