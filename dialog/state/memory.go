package state

import (
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "bookline/dialog/contract"
)

// Reconcile merges the turn's fresh slot values with values remembered from
// prior turns and writes the rememberable subset of the merged set back into
// the session, so the next turn sees the latest values even if the user does
// not repeat them.
//
// A fresh value always wins over a remembered one. Fields configured for
// top-resolution take the highest-ranked upstream resolution instead of the
// raw value; a raw value with no resolutions at all is a *contract.FieldError.
func Reconcile(config map[string]FieldSpec, fresh map[string]contractx.SlotValue, session *SessionState) (SlotSet, error) {
	merged := make(SlotSet, len(config))

	for field, spec := range config {
		value, err := freshValue(field, spec, fresh)
		if err != nil {
			return nil, err
		}
		merged[field] = value

		if value == "" && spec.Remember {
			merged[field] = session.Remembered[field]
		}
	}

	log.Debug().Interface("slots", merged).Msg("reconciled slot values")

	session.Remembered = merged.rememberable(config)
	return merged, nil
}

func freshValue(field string, spec FieldSpec, fresh map[string]contractx.SlotValue) (string, error) {
	raw, ok := fresh[field]
	if !ok || raw.Value == "" {
		return "", nil
	}
	if !spec.TopResolution {
		return raw.Value, nil
	}
	if len(raw.Resolutions) == 0 {
		return "", &contractx.FieldError{
			Field:   field,
			Message: fmt.Sprintf(spec.ErrorMessage, raw.Value),
		}
	}
	return raw.Resolutions[0], nil
}
