package dialognode

import (
	"fmt"

	statex "bookline/dialog/state"
)

// DecodeSession materializes the typed session view from the attribute blob
// the caller carried over from the previous turn.
func DecodeSession(in *TurnState) (*TurnState, error) {
	session, err := statex.DecodeSession(in.Request.SessionAttributes)
	if err != nil {
		return nil, fmt.Errorf("decode session for user %s: %w", in.Request.UserID, err)
	}
	in.Session = session
	return in, nil
}
