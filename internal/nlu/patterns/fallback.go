package patterns

// Built-in pattern tables, active until a remote set has been fetched and
// whenever the remote store is unreachable. Priorities stay at or below 10
// so fallback confidences remain within [0,1].

func fallbackIntentPatterns() []IntentPattern {
	return []IntentPattern{
		{ID: "fb-send-full", IntentType: "send_money", Pattern: `send\s+\$?\d+(?:\.\d+)?(?:\s+[a-z]+)?\s+to\s+\S+`, Priority: 10},
		{ID: "fb-send-amount", IntentType: "send_money", Pattern: `(?:send|transfer|pay|wire)\s+\$?\d+(?:\.\d+)?`, Priority: 9},
		{ID: "fb-send", IntentType: "send_money", Pattern: `(?:send|transfer|wire)\b.*\b(?:money|cash|funds)`, Priority: 8},
		{ID: "fb-deposit-amount", IntentType: "deposit", Pattern: `(?:deposit|top\s*up|load)\s+\$?\d+(?:\.\d+)?`, Priority: 9},
		{ID: "fb-deposit", IntentType: "deposit", Pattern: `\b(?:deposit|top\s*up)\b`, Priority: 7},
		{ID: "fb-rate-pair", IntentType: "check_rates", Pattern: `(?:rates?|exchange|convert)\b.*\b[a-z]{3}\s+to\s+[a-z]{3}\b`, Priority: 9},
		{ID: "fb-rate", IntentType: "check_rates", Pattern: `\b(?:exchange\s+)?rates?\b`, Priority: 7},
		{ID: "fb-balance", IntentType: "check_balance", Pattern: `\b(?:balance|how\s+much\s+(?:do\s+i\s+have|money))\b`, Priority: 8},
		{ID: "fb-help", IntentType: "help", Pattern: `\b(?:help|what\s+can\s+you\s+do)\b`, Priority: 5},
		{ID: "fb-greeting", IntentType: "greeting", Pattern: `^(?:hi|hello|hey|good\s+(?:morning|afternoon|evening))\b`, Priority: 5},
	}
}

func fallbackEntityPatterns() []EntityPattern {
	return []EntityPattern{
		{ID: "fb-amount", EntityType: "amount", Pattern: `\$?(\d+(?:\.\d+)?)`, Priority: 10},
		{ID: "fb-currency-pair", EntityType: "currency_pair", Pattern: `([A-Za-z]{3})\s+to\s+([A-Za-z]{3})`, Priority: 10},
		{ID: "fb-recipient", EntityType: "recipient", Pattern: `\bto\s+([A-Za-z][A-Za-z'-]*)`, Priority: 10},
	}
}
