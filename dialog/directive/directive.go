// Package directive constructs the canonical dialog directives the core
// hands back to the hosting dialog engine, plus their optional
// multiple-choice response cards.
package directive

import (
	contractx "bookline/dialog/contract"
)

const maxCardOptions = 5

// ElicitSlot asks the user for one specific slot.
func ElicitSlot(intent string, slots map[string]string, field, prompt string, card *contractx.ResponseCard) contractx.Directive {
	return contractx.Directive{
		Type:         contractx.DirectiveElicitSlot,
		IntentName:   intent,
		Slots:        slots,
		SlotToElicit: field,
		Message:      plainText(prompt),
		Card:         card,
	}
}

// ConfirmIntent proposes an inferred slot value for a yes/no confirmation.
func ConfirmIntent(intent string, slots map[string]string, prompt string, card *contractx.ResponseCard) contractx.Directive {
	return contractx.Directive{
		Type:       contractx.DirectiveConfirmIntent,
		IntentName: intent,
		Slots:      slots,
		Message:    plainText(prompt),
		Card:       card,
	}
}

// ElicitIntent redirects the conversation toward another intent.
func ElicitIntent(intent string, slots map[string]string) contractx.Directive {
	return contractx.Directive{
		Type:       contractx.DirectiveElicitIntent,
		IntentName: intent,
		Slots:      slots,
	}
}

// Delegate hands slot filling back to the hosting dialog engine.
func Delegate(slots map[string]string) contractx.Directive {
	return contractx.Directive{
		Type:  contractx.DirectiveDelegate,
		Slots: slots,
	}
}

// Close ends the conversation with an outcome and message.
func Close(outcome, message string) contractx.Directive {
	return contractx.Directive{
		Type:    contractx.DirectiveClose,
		Outcome: outcome,
		Message: plainText(message),
	}
}

// NewCard builds a response card, truncating the option list to the five
// buttons the channel renders. A nil option list yields a card with no
// buttons.
func NewCard(title, subtitle string, options []contractx.Option) *contractx.ResponseCard {
	if len(options) > maxCardOptions {
		options = options[:maxCardOptions]
	}
	return &contractx.ResponseCard{
		Title:    title,
		Subtitle: subtitle,
		Options:  options,
	}
}

func plainText(content string) *contractx.Message {
	if content == "" {
		return nil
	}
	return &contractx.Message{ContentType: "PlainText", Content: content}
}

// YesNoOptions is the two-button card body for confirmations.
func YesNoOptions() []contractx.Option {
	return []contractx.Option{
		{Text: "yes", Value: "yes"},
		{Text: "no", Value: "no"},
	}
}
