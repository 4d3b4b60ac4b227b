package classifier

// Intent names produced by the classifier.
const (
	IntentSendMoney    = "send_money"
	IntentDeposit      = "deposit"
	IntentCheckRates   = "check_rates"
	IntentCheckBalance = "check_balance"
	IntentHelp         = "help"
	IntentGreeting     = "greeting"
	IntentUnknown      = "unknown"
)

// EntitySet is the closed union of per-intent entity records. Using typed
// records instead of a map keeps optional-field semantics without giving up
// type safety.
type EntitySet interface {
	entitySet()
}

// NoEntities is the empty set, used for intents that carry no entities and
// for unknown input.
type NoEntities struct{}

func (NoEntities) entitySet() {}

// SendMoneyEntities holds what could be extracted from a send_money
// utterance. A zero Amount or empty Recipient means the slot still needs
// filling.
type SendMoneyEntities struct {
	Amount    float64
	Currency  string
	Recipient string
	Method    string
}

func (SendMoneyEntities) entitySet() {}

// DepositEntities holds what could be extracted from a deposit utterance.
type DepositEntities struct {
	Amount   float64
	Currency string
	Method   string
}

func (DepositEntities) entitySet() {}

// CheckRatesEntities holds a currency pair extracted from a check_rates
// utterance. Both sides are either known canonical codes or empty.
type CheckRatesEntities struct {
	FromCurrency string
	ToCurrency   string
}

func (CheckRatesEntities) entitySet() {}

// RecognizedIntent is the immutable product of one classification cycle.
type RecognizedIntent struct {
	Intent         string
	Confidence     float64
	Entities       EntitySet
	MatchedPattern string
}
