// Package lexio adapts the Lex V1 code-hook wire format to and from the
// engine's turn contract. The JSON shapes match what the Lex runtime sends
// and expects, including the sentiment block the managed event types omit.
package lexio

import (
	"errors"

	contractx "bookline/dialog/contract"
)

const cardContentType = "application/vnd.amazonaws.card.generic"

var ErrNoIntent = errors.New("event carries no current intent")

// Event is an incoming Lex V1 code-hook invocation.
type Event struct {
	MessageVersion    string             `json:"messageVersion,omitempty"`
	InvocationSource  string             `json:"invocationSource"`
	UserID            string             `json:"userId"`
	InputTranscript   string             `json:"inputTranscript,omitempty"`
	SessionAttributes map[string]string  `json:"sessionAttributes,omitempty"`
	CurrentIntent     *CurrentIntent     `json:"currentIntent,omitempty"`
	Bot               *Bot               `json:"bot,omitempty"`
	SentimentResponse *SentimentResponse `json:"sentimentResponse,omitempty"`
}

type Bot struct {
	Name    string `json:"name,omitempty"`
	Alias   string `json:"alias,omitempty"`
	Version string `json:"version,omitempty"`
}

type CurrentIntent struct {
	Name               string                `json:"name"`
	Slots              map[string]*string    `json:"slots,omitempty"`
	SlotDetails        map[string]SlotDetail `json:"slotDetails,omitempty"`
	ConfirmationStatus string                `json:"confirmationStatus,omitempty"`
}

type SlotDetail struct {
	Resolutions   []map[string]string `json:"resolutions,omitempty"`
	OriginalValue string              `json:"originalValue,omitempty"`
}

type SentimentResponse struct {
	SentimentLabel string `json:"sentimentLabel,omitempty"`
	SentimentScore string `json:"sentimentScore,omitempty"`
}

// Response is the code-hook reply the Lex runtime consumes.
type Response struct {
	SessionAttributes map[string]string `json:"sessionAttributes"`
	DialogAction      DialogAction      `json:"dialogAction"`
}

type DialogAction struct {
	Type             string            `json:"type"`
	FulfillmentState string            `json:"fulfillmentState,omitempty"`
	Message          *Message          `json:"message,omitempty"`
	IntentName       string            `json:"intentName,omitempty"`
	Slots            map[string]string `json:"slots,omitempty"`
	SlotToElicit     string            `json:"slotToElicit,omitempty"`
	ResponseCard     *ResponseCard     `json:"responseCard,omitempty"`
}

type Message struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type ResponseCard struct {
	ContentType        string       `json:"contentType"`
	Version            int          `json:"version"`
	GenericAttachments []Attachment `json:"genericAttachments"`
}

type Attachment struct {
	Title    string              `json:"title"`
	SubTitle string              `json:"subTitle,omitempty"`
	Buttons  []map[string]string `json:"buttons,omitempty"`
}

// DecodeEvent translates an incoming invocation into a turn request.
func DecodeEvent(evt Event) (contractx.TurnRequest, error) {
	if evt.CurrentIntent == nil {
		return contractx.TurnRequest{}, ErrNoIntent
	}

	slots := make(map[string]contractx.SlotValue, len(evt.CurrentIntent.Slots))
	for field, raw := range evt.CurrentIntent.Slots {
		if raw == nil || *raw == "" {
			continue
		}
		value := contractx.SlotValue{Value: *raw}
		for _, resolution := range evt.CurrentIntent.SlotDetails[field].Resolutions {
			if v := resolution["value"]; v != "" {
				value.Resolutions = append(value.Resolutions, v)
			}
		}
		slots[field] = value
	}

	req := contractx.TurnRequest{
		UserID:            evt.UserID,
		Intent:            evt.CurrentIntent.Name,
		Phase:             contractx.Phase(evt.InvocationSource),
		Transcript:        evt.InputTranscript,
		Slots:             slots,
		SessionAttributes: evt.SessionAttributes,
	}
	if evt.SentimentResponse != nil {
		req.Sentiment = evt.SentimentResponse.SentimentLabel
	}
	return req, nil
}

// EncodeResult translates a turn result into the code-hook reply.
func EncodeResult(res contractx.TurnResult) Response {
	d := res.Directive

	action := DialogAction{
		Type:         string(d.Type),
		IntentName:   d.IntentName,
		Slots:        d.Slots,
		SlotToElicit: d.SlotToElicit,
	}
	if d.Type == contractx.DirectiveClose {
		action.FulfillmentState = d.Outcome
	}
	if d.Message != nil {
		action.Message = &Message{ContentType: d.Message.ContentType, Content: d.Message.Content}
	}
	if d.Card != nil {
		action.ResponseCard = encodeCard(d.Card)
	}

	return Response{
		SessionAttributes: res.SessionAttributes,
		DialogAction:      action,
	}
}

func encodeCard(card *contractx.ResponseCard) *ResponseCard {
	buttons := make([]map[string]string, 0, len(card.Options))
	for _, option := range card.Options {
		buttons = append(buttons, map[string]string{"text": option.Text, "value": option.Value})
	}
	return &ResponseCard{
		ContentType: cardContentType,
		Version:     1,
		GenericAttachments: []Attachment{
			{Title: card.Title, SubTitle: card.Subtitle, Buttons: buttons},
		},
	}
}
