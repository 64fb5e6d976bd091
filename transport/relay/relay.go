// Package relay bridges an SMS/WhatsApp webhook to the dialog engine. The
// hosting channel has no dialog runtime of its own, so the relay keeps each
// user's session attribute blob in a SessionStore and tracks which slot the
// bot is waiting for between messages.
package relay

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "bookline/dialog/contract"
	statex "bookline/dialog/state"
)

// Relay-owned session attribute keys. They ride along in the blob next to
// the engine's own keys.
const (
	attrPendingIntent  = "relayIntent"
	attrPendingSlot    = "relayElicitSlot"
	attrPendingSlots   = "relaySlots"
	attrPendingConfirm = "relayConfirm"
)

const (
	replyCancelled = "Okay, I have cancelled the scheduling."
	replyFailure   = "Sorry, we ran into a problem on our end. Please try again."
)

// TurnProcessor runs one conversational turn.
type TurnProcessor interface {
	ProcessTurn(ctx context.Context, req contractx.TurnRequest) (contractx.TurnResult, error)
}

type Handler struct {
	engine TurnProcessor
	store  statex.SessionStore
}

func NewHandler(engine TurnProcessor, store statex.SessionStore) (*Handler, error) {
	if engine == nil {
		return nil, errors.New("turn processor is required")
	}
	if store == nil {
		return nil, errors.New("session store is required")
	}
	return &Handler{engine: engine, store: store}, nil
}

// Message handles one inbound webhook delivery and answers with TwiML.
func (h *Handler) Message(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	from := strings.ReplaceAll(strings.TrimSpace(r.PostFormValue("From")), "+", "")
	body := strings.TrimSpace(r.PostFormValue("Body"))
	profile := strings.TrimSpace(r.PostFormValue("ProfileName"))
	if from == "" || body == "" {
		http.Error(w, "From and Body are required", http.StatusBadRequest)
		return
	}

	reply, err := h.relayTurn(r.Context(), from, profile, body)
	if err != nil {
		log.Error().Err(err).Str("user_id", from).Msg("relay turn failed")
		reply = replyFailure
	}
	writeTwiML(w, reply)
}

func (h *Handler) relayTurn(ctx context.Context, userID, profile, body string) (string, error) {
	attrs, err := h.store.Load(ctx, userID)
	if errors.Is(err, statex.ErrSessionNotFound) {
		attrs, err = seedSession(profile)
	}
	if err != nil {
		return "", err
	}

	req := buildRequest(userID, body, attrs)
	res, err := h.engine.ProcessTurn(ctx, req)
	if err != nil {
		return "", err
	}

	// Delegate means every slot is present and the requested time is
	// bookable. There is no outer dialog runtime on this channel, so the
	// relay finishes the booking itself.
	if res.Directive.Type == contractx.DirectiveDelegate {
		req.Phase = contractx.PhaseFulfillment
		req.Slots = slotValues(res.Directive.Slots)
		req.SessionAttributes = res.SessionAttributes
		res, err = h.engine.ProcessTurn(ctx, req)
		if err != nil {
			return "", err
		}
	}

	attrs = res.SessionAttributes
	recordPending(attrs, res.Directive)
	if err := h.store.Save(ctx, userID, attrs); err != nil {
		return "", err
	}

	return replyText(res.Directive), nil
}

// seedSession mirrors the first-contact behavior of the channel: the profile
// name from the messaging platform pre-fills FullName.
func seedSession(profile string) (map[string]string, error) {
	remembered, err := json.Marshal(map[string]string{statex.FieldFullName: profile})
	if err != nil {
		return nil, fmt.Errorf("seed session: %w", err)
	}
	return map[string]string{"rememberedSlots": string(remembered)}, nil
}

// forgetRemembered drops fields from the remembered slot blob. Corrupt JSON
// is left alone; the engine rejects it with a decode error on the next turn.
func forgetRemembered(attrs map[string]string, fields ...string) {
	raw := attrs["rememberedSlots"]
	if raw == "" {
		return
	}
	var remembered map[string]string
	if err := json.Unmarshal([]byte(raw), &remembered); err != nil {
		return
	}
	for _, field := range fields {
		delete(remembered, field)
	}
	out, err := json.Marshal(remembered)
	if err != nil {
		return
	}
	attrs["rememberedSlots"] = string(out)
}

func buildRequest(userID, body string, attrs map[string]string) contractx.TurnRequest {
	req := contractx.TurnRequest{
		UserID:            userID,
		Phase:             contractx.PhaseDialog,
		Transcript:        body,
		SessionAttributes: attrs,
	}

	pendingIntent := attrs[attrPendingIntent]
	slots := slotValues(decodePendingSlots(attrs))

	switch {
	case pendingIntent != "" && attrs[attrPendingConfirm] == "true":
		req.Intent = pendingIntent
		req.Slots = slots
		if affirmative(body) {
			req.Phase = contractx.PhaseFulfillment
		} else {
			// Declined the proposed window: start over on the day. The
			// remembered copy must go too, or slot reconciliation restores
			// the same day and the engine re-proposes the same window.
			delete(req.Slots, statex.FieldDate)
			delete(req.Slots, statex.FieldTime)
			forgetRemembered(req.SessionAttributes, statex.FieldDate, statex.FieldTime)
		}
	case pendingIntent != "" && attrs[attrPendingSlot] != "":
		req.Intent = pendingIntent
		slots[attrs[attrPendingSlot]] = contractx.SlotValue{Value: body}
		req.Slots = slots
	default:
		req.Intent = routeIntent(body)
	}

	return req
}

// routeIntent picks an intent from the message text. True language
// understanding belongs to a hosted dialog runtime; this channel settles for
// keyword routing with questions falling through to the answer index.
func routeIntent(body string) string {
	norm := strings.ToLower(body)
	switch {
	case strings.Contains(norm, "schedule"):
		return contractx.IntentSchedule
	case strings.Contains(norm, "agent"):
		return contractx.IntentAgentTransfer
	case strings.Contains(norm, "my appointment"):
		return contractx.IntentCheckAppointment
	case norm == "hi" || norm == "hello" || norm == "hey" ||
		strings.HasPrefix(norm, "hi ") || strings.HasPrefix(norm, "hello "):
		return contractx.IntentGreeting
	}
	return contractx.IntentFAQ
}

func recordPending(attrs map[string]string, d contractx.Directive) {
	delete(attrs, attrPendingIntent)
	delete(attrs, attrPendingSlot)
	delete(attrs, attrPendingSlots)
	delete(attrs, attrPendingConfirm)

	switch d.Type {
	case contractx.DirectiveElicitSlot:
		attrs[attrPendingIntent] = d.IntentName
		attrs[attrPendingSlot] = d.SlotToElicit
		encodePendingSlots(attrs, d.Slots)
	case contractx.DirectiveConfirmIntent:
		attrs[attrPendingIntent] = d.IntentName
		attrs[attrPendingConfirm] = "true"
		encodePendingSlots(attrs, d.Slots)
	}
}

func decodePendingSlots(attrs map[string]string) map[string]string {
	raw := attrs[attrPendingSlots]
	if raw == "" {
		return nil
	}
	var slots map[string]string
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		log.Warn().Err(err).Msg("discarding corrupt pending slots")
		return nil
	}
	return slots
}

func encodePendingSlots(attrs map[string]string, slots map[string]string) {
	if len(slots) == 0 {
		return
	}
	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}
	attrs[attrPendingSlots] = string(raw)
}

func slotValues(slots map[string]string) map[string]contractx.SlotValue {
	out := make(map[string]contractx.SlotValue, len(slots))
	for field, value := range slots {
		if value == "" {
			continue
		}
		out[field] = contractx.SlotValue{Value: value}
	}
	return out
}

func affirmative(body string) bool {
	switch strings.ToLower(strings.TrimSpace(body)) {
	case "yes", "y", "yeah", "ok", "okay", "sure":
		return true
	}
	return false
}

func replyText(d contractx.Directive) string {
	if d.Type == contractx.DirectiveElicitIntent && d.IntentName == contractx.IntentCancelSchedule {
		return replyCancelled
	}

	var b strings.Builder
	if d.Message != nil {
		b.WriteString(d.Message.Content)
	}
	if d.Card != nil {
		for _, option := range d.Card.Options {
			b.WriteString("\n- ")
			b.WriteString(option.Text)
		}
	}
	if b.Len() == 0 {
		return replyFailure
	}
	return b.String()
}

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

func writeTwiML(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/xml")
	out, err := xml.Marshal(twimlResponse{Message: message})
	if err != nil {
		http.Error(w, "encoding failure", http.StatusInternalServerError)
		return
	}
	w.Write([]byte(xml.Header))
	w.Write(out)
}
