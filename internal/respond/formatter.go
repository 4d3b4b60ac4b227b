// Package respond renders recognition outcomes and slot prompts as
// user-facing text. Formatting is pure: no I/O, no state.
package respond

import (
	"fmt"

	"finassist/internal/dialog"
	"finassist/internal/nlu/classifier"
)

// Defaults substituted when an entity was not extracted.
const (
	defaultAmount    = "some money"
	defaultCurrency  = "USD"
	defaultRecipient = "someone"
)

// Outcome is what a single turn produced: either a dialogue transition or a
// plain recognized intent, or an explicit cancellation.
type Outcome struct {
	Turn       *dialog.Turn
	Recognized *classifier.RecognizedIntent
	Cancelled  bool
}

type Formatter struct{}

func NewFormatter() *Formatter {
	return &Formatter{}
}

// Format turns one outcome into display text.
func (f *Formatter) Format(o Outcome) string {
	if o.Cancelled {
		return "Okay, I've cancelled that. What else can I do for you?"
	}
	if o.Turn != nil {
		return f.formatTurn(*o.Turn)
	}
	if o.Recognized != nil {
		return f.formatIntent(*o.Recognized)
	}
	return f.unknown()
}

func (f *Formatter) formatTurn(turn dialog.Turn) string {
	switch turn.Kind {
	case dialog.TurnFinalized:
		return f.formatFinalized(turn.Transaction)
	case dialog.TurnPromptAmount:
		if turn.State.PendingAction == dialog.ActionDeposit {
			return "How much would you like to deposit?"
		}
		return "How much would you like to send?"
	case dialog.TurnPromptRecipient:
		return "Who would you like to send the money to?"
	case dialog.TurnRepromptAmount:
		return "Sorry, I didn't catch a valid amount. Please enter a number, like 50 or 25.50."
	default:
		return f.unknown()
	}
}

func (f *Formatter) formatFinalized(tx *dialog.PendingTransaction) string {
	amount := defaultAmount
	if tx.Amount > 0 {
		currency := tx.Currency
		if currency == "" {
			currency = defaultCurrency
		}
		amount = fmt.Sprintf("%.2f %s", tx.Amount, currency)
	}

	if tx.IsDeposit {
		return fmt.Sprintf("Got it, depositing %s into your account.", amount)
	}

	recipient := tx.Recipient
	if recipient == "" {
		recipient = defaultRecipient
	}
	return fmt.Sprintf("Got it, sending %s to %s.", amount, recipient)
}

func (f *Formatter) formatIntent(rec classifier.RecognizedIntent) string {
	switch rec.Intent {
	case classifier.IntentCheckRates:
		if ents, ok := rec.Entities.(classifier.CheckRatesEntities); ok &&
			ents.FromCurrency != "" && ents.ToCurrency != "" {
			return fmt.Sprintf("Looking up the %s to %s exchange rate for you.", ents.FromCurrency, ents.ToCurrency)
		}
		return "Which currencies would you like rates for? For example: USD to EUR."
	case classifier.IntentCheckBalance:
		return "Let me pull up your account balance."
	case classifier.IntentHelp:
		return "I can help you send money, make a deposit, check exchange rates, or check your balance. Just tell me what you'd like to do."
	case classifier.IntentGreeting:
		return "Hi there! I can help you send money, make deposits, or check rates. What would you like to do?"
	default:
		return f.unknown()
	}
}

func (f *Formatter) unknown() string {
	return "Sorry, I didn't quite get that. You can say things like \"send 50 to Alice\" or \"deposit 100\"."
}
