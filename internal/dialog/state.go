// Package dialog holds per-session slot-filling state and the transition
// rules that advance it one utterance at a time.
package dialog

// Action is the transaction kind currently being slot-filled.
type Action string

const (
	ActionSend    Action = "send"
	ActionDeposit Action = "deposit"
)

// Partial-data keys carried across turns while slots are still open.
const (
	KeyAmount    = "amount"
	KeyCurrency  = "currency"
	KeyRecipient = "recipient"
	KeyMethod    = "method"
)

// State is the whole conversation state for one session. Transitions
// replace it wholly; PartialData is only carried forward explicitly.
//
// Invariant: at most one of ExpectingAmount and ExpectingRecipient is true,
// and PendingAction is non-empty whenever either flag is set.
type State struct {
	ExpectingAmount    bool                   `json:"expectingAmount"`
	ExpectingRecipient bool                   `json:"expectingRecipient"`
	PendingAction      Action                 `json:"pendingAction,omitempty"`
	PartialData        map[string]interface{} `json:"partialData,omitempty"`
}

// Idle reports whether no slot is outstanding.
func (s State) Idle() bool {
	return !s.ExpectingAmount && !s.ExpectingRecipient
}

func (s State) partialFloat(key string) float64 {
	switch v := s.PartialData[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func (s State) partialString(key string) string {
	if v, ok := s.PartialData[key].(string); ok {
		return v
	}
	return ""
}

// PendingTransaction is the staging record produced when slot-filling
// completes. It is handed to the finalization collaborator and discarded.
type PendingTransaction struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Recipient string  `json:"recipient,omitempty"`
	Method    string  `json:"method,omitempty"`
	IsDeposit bool    `json:"isDeposit,omitempty"`
}

// TurnKind names the outcome of applying one utterance to the machine.
type TurnKind string

const (
	// TurnFinalized means slot-filling completed and Transaction is set.
	TurnFinalized TurnKind = "finalized"
	// TurnPromptAmount asks the user for an amount.
	TurnPromptAmount TurnKind = "prompt_amount"
	// TurnPromptRecipient asks the user for a recipient.
	TurnPromptRecipient TurnKind = "prompt_recipient"
	// TurnRepromptAmount re-asks after an unparsable amount answer.
	TurnRepromptAmount TurnKind = "reprompt_amount"
)

// Turn is the result of one machine transition: the next state plus either
// a finalized transaction or the slot prompt to render.
type Turn struct {
	Kind        TurnKind
	State       State
	Transaction *PendingTransaction
}
