package respond

import (
	"testing"

	"finassist/internal/dialog"
	"finassist/internal/nlu/classifier"

	"github.com/stretchr/testify/assert"
)

func TestFormat_FinalizedSend(t *testing.T) {
	f := NewFormatter()

	tests := []struct {
		name string
		tx   dialog.PendingTransaction
		want string
	}{
		{
			"fully specified",
			dialog.PendingTransaction{Amount: 50, Currency: "EUR", Recipient: "Alice"},
			"Got it, sending 50.00 EUR to Alice.",
		},
		{
			"currency defaults to USD",
			dialog.PendingTransaction{Amount: 50, Recipient: "Alice"},
			"Got it, sending 50.00 USD to Alice.",
		},
		{
			"missing amount",
			dialog.PendingTransaction{Recipient: "Bob"},
			"Got it, sending some money to Bob.",
		},
		{
			"missing everything",
			dialog.PendingTransaction{},
			"Got it, sending some money to someone.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.Format(Outcome{Turn: &dialog.Turn{Kind: dialog.TurnFinalized, Transaction: &tt.tx}})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_FinalizedDeposit(t *testing.T) {
	f := NewFormatter()

	got := f.Format(Outcome{Turn: &dialog.Turn{
		Kind:        dialog.TurnFinalized,
		Transaction: &dialog.PendingTransaction{Amount: 200, IsDeposit: true},
	}})
	assert.Equal(t, "Got it, depositing 200.00 USD into your account.", got)
}

func TestFormat_SlotPrompts(t *testing.T) {
	f := NewFormatter()

	tests := []struct {
		name string
		turn dialog.Turn
		want string
	}{
		{
			"amount for send",
			dialog.Turn{Kind: dialog.TurnPromptAmount, State: dialog.State{ExpectingAmount: true, PendingAction: dialog.ActionSend}},
			"How much would you like to send?",
		},
		{
			"amount for deposit",
			dialog.Turn{Kind: dialog.TurnPromptAmount, State: dialog.State{ExpectingAmount: true, PendingAction: dialog.ActionDeposit}},
			"How much would you like to deposit?",
		},
		{
			"recipient",
			dialog.Turn{Kind: dialog.TurnPromptRecipient, State: dialog.State{ExpectingRecipient: true, PendingAction: dialog.ActionSend}},
			"Who would you like to send the money to?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Format(Outcome{Turn: &tt.turn}))
		})
	}
}

func TestFormat_AmountReprompt(t *testing.T) {
	f := NewFormatter()

	got := f.Format(Outcome{Turn: &dialog.Turn{Kind: dialog.TurnRepromptAmount}})
	assert.Contains(t, got, "valid amount")
}

func TestFormat_NonTransactionalIntents(t *testing.T) {
	f := NewFormatter()

	got := f.Format(Outcome{Recognized: &classifier.RecognizedIntent{
		Intent:   classifier.IntentCheckRates,
		Entities: classifier.CheckRatesEntities{FromCurrency: "USD", ToCurrency: "EUR"},
	}})
	assert.Equal(t, "Looking up the USD to EUR exchange rate for you.", got)

	got = f.Format(Outcome{Recognized: &classifier.RecognizedIntent{
		Intent:   classifier.IntentCheckRates,
		Entities: classifier.CheckRatesEntities{},
	}})
	assert.Contains(t, got, "Which currencies")

	got = f.Format(Outcome{Recognized: &classifier.RecognizedIntent{
		Intent:   classifier.IntentCheckBalance,
		Entities: classifier.NoEntities{},
	}})
	assert.Contains(t, got, "balance")

	got = f.Format(Outcome{Recognized: &classifier.RecognizedIntent{
		Intent:   classifier.IntentUnknown,
		Entities: classifier.NoEntities{},
	}})
	assert.Contains(t, got, "didn't quite get that")
}

func TestFormat_Cancelled(t *testing.T) {
	f := NewFormatter()

	got := f.Format(Outcome{Cancelled: true})
	assert.Contains(t, got, "cancelled")
}
