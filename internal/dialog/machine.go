package dialog

import (
	"regexp"
	"strconv"
	"strings"

	apperrors "finassist/internal/common/errors"
	"finassist/internal/common/logger"
	"finassist/internal/common/metrics"
	"finassist/internal/nlu/classifier"
)

// amountRe parses a slot answer while an amount is pending. Intent
// classification is ignored entirely in that mode; the raw utterance is the
// answer.
var amountRe = regexp.MustCompile(`\$?(\d+(?:\.\d+)?)`)

// Machine applies the slot-filling transition rules. It is stateless; the
// caller owns the State and persists whatever the returned Turn carries.
type Machine struct {
	logger logger.Logger
}

func NewMachine(log logger.Logger) *Machine {
	return &Machine{logger: log.With(map[string]interface{}{"component": "dialog"})}
}

// Apply handles a fresh classification arriving while the session is idle.
// It returns false for intents that carry no transaction to slot-fill;
// those are the caller's to render directly.
func (m *Machine) Apply(rec classifier.RecognizedIntent) (Turn, bool) {
	switch ents := rec.Entities.(type) {
	case classifier.SendMoneyEntities:
		return m.applySend(ents), true
	case classifier.DepositEntities:
		return m.applyDeposit(ents), true
	default:
		return Turn{}, false
	}
}

// applySend finalizes when both slots arrived in one utterance. A missing
// recipient is asked for first; the amount slot opens only when the
// recipient is already known.
func (m *Machine) applySend(ents classifier.SendMoneyEntities) Turn {
	if ents.Amount > 0 && ents.Recipient != "" {
		return m.finalize(ActionSend, &PendingTransaction{
			Amount:    ents.Amount,
			Currency:  ents.Currency,
			Recipient: ents.Recipient,
			Method:    ents.Method,
		})
	}

	partial := map[string]interface{}{}
	if ents.Amount > 0 {
		partial[KeyAmount] = ents.Amount
	}
	if ents.Currency != "" {
		partial[KeyCurrency] = ents.Currency
	}
	if ents.Method != "" {
		partial[KeyMethod] = ents.Method
	}

	if ents.Recipient == "" {
		return Turn{
			Kind: TurnPromptRecipient,
			State: State{
				ExpectingRecipient: true,
				PendingAction:      ActionSend,
				PartialData:        partial,
			},
		}
	}

	partial[KeyRecipient] = ents.Recipient
	return Turn{
		Kind: TurnPromptAmount,
		State: State{
			ExpectingAmount: true,
			PendingAction:   ActionSend,
			PartialData:     partial,
		},
	}
}

func (m *Machine) applyDeposit(ents classifier.DepositEntities) Turn {
	if ents.Amount > 0 {
		return m.finalize(ActionDeposit, &PendingTransaction{
			Amount:    ents.Amount,
			Currency:  ents.Currency,
			Method:    ents.Method,
			IsDeposit: true,
		})
	}

	partial := map[string]interface{}{}
	if ents.Currency != "" {
		partial[KeyCurrency] = ents.Currency
	}
	if ents.Method != "" {
		partial[KeyMethod] = ents.Method
	}
	return Turn{
		Kind: TurnPromptAmount,
		State: State{
			ExpectingAmount: true,
			PendingAction:   ActionDeposit,
			PartialData:     partial,
		},
	}
}

// ConsumeSlot treats the utterance as the answer to the pending slot. The
// caller must only invoke it when state is not idle.
func (m *Machine) ConsumeSlot(state State, utterance string) Turn {
	if state.ExpectingAmount {
		return m.consumeAmount(state, utterance)
	}
	return m.consumeRecipient(state, utterance)
}

// consumeAmount re-prompts in place until a positive number parses. The
// unparsable answer is recoverable, never fatal.
func (m *Machine) consumeAmount(state State, utterance string) Turn {
	amount := parseAmount(utterance)
	if amount <= 0 {
		metrics.SlotReprompts.WithLabelValues("amount").Inc()
		m.logger.Debug("amount answer did not parse, re-prompting", map[string]interface{}{
			"code":          string(apperrors.ErrCodeAmountUnparsable),
			"pendingAction": string(state.PendingAction),
		})
		return Turn{Kind: TurnRepromptAmount, State: state}
	}

	if state.PendingAction == ActionDeposit {
		return m.finalize(ActionDeposit, &PendingTransaction{
			Amount:    amount,
			Currency:  state.partialString(KeyCurrency),
			Method:    state.partialString(KeyMethod),
			IsDeposit: true,
		})
	}

	// The send amount slot only opens once the recipient is known, so the
	// transaction completes here rather than looping back to the recipient
	// question.
	if recipient := state.partialString(KeyRecipient); recipient != "" {
		return m.finalize(ActionSend, &PendingTransaction{
			Amount:    amount,
			Currency:  state.partialString(KeyCurrency),
			Recipient: recipient,
			Method:    state.partialString(KeyMethod),
		})
	}

	partial := map[string]interface{}{KeyAmount: amount}
	if c := state.partialString(KeyCurrency); c != "" {
		partial[KeyCurrency] = c
	}
	if mm := state.partialString(KeyMethod); mm != "" {
		partial[KeyMethod] = mm
	}
	return Turn{
		Kind: TurnPromptRecipient,
		State: State{
			ExpectingRecipient: true,
			PendingAction:      ActionSend,
			PartialData:        partial,
		},
	}
}

// consumeRecipient takes the whole trimmed utterance as the name. No
// extraction: the user was asked a direct question and the message is the
// answer.
func (m *Machine) consumeRecipient(state State, utterance string) Turn {
	recipient := strings.TrimSpace(utterance)
	return m.finalize(ActionSend, &PendingTransaction{
		Amount:    state.partialFloat(KeyAmount),
		Currency:  state.partialString(KeyCurrency),
		Recipient: recipient,
		Method:    state.partialString(KeyMethod),
	})
}

func (m *Machine) finalize(action Action, tx *PendingTransaction) Turn {
	metrics.TransactionsFinalized.WithLabelValues(string(action)).Inc()
	return Turn{Kind: TurnFinalized, State: State{}, Transaction: tx}
}

func parseAmount(utterance string) float64 {
	m := amountRe.FindStringSubmatch(utterance)
	if len(m) < 2 {
		return 0
	}
	amount, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return amount
}
