// Package classifier matches utterances against the active pattern sets and
// extracts entities conditioned on the winning intent.
package classifier

import (
	"regexp"
	"strconv"
	"strings"
	"sync"

	apperrors "finassist/internal/common/errors"
	"finassist/internal/common/logger"
	"finassist/internal/common/metrics"
	"finassist/internal/nlu/normalize"
	"finassist/internal/nlu/patterns"
)

// PatternProvider is the slice of the pattern library the classifier needs.
type PatternProvider interface {
	IntentPatterns() []patterns.IntentPattern
	EntityPatterns() []patterns.EntityPattern
}

// recipientStoplist rejects temporal and filler words when falling back to
// the trailing word of an utterance as the recipient.
var recipientStoplist = map[string]bool{
	"now":         true,
	"today":       true,
	"please":      true,
	"immediately": true,
	"asap":        true,
	"money":       true,
	"funds":       true,
	"dollars":     true,
	"euros":       true,
	"pounds":      true,
}

type Classifier struct {
	provider PatternProvider
	logger   logger.Logger

	mu       sync.Mutex
	compiled map[string]*regexp.Regexp
	rejected map[string]bool
}

func New(provider PatternProvider, log logger.Logger) *Classifier {
	return &Classifier{
		provider: provider,
		logger:   log.With(map[string]interface{}{"component": "classifier"}),
		compiled: make(map[string]*regexp.Regexp),
		rejected: make(map[string]bool),
	}
}

// Classify matches the utterance against every active intent pattern and
// returns the best match. Confidence is matched-coverage times
// priority/10; the strictly highest confidence wins and the first-declared
// pattern wins exact ties. No match yields intent "unknown" at confidence
// zero rather than an error.
func (c *Classifier) Classify(utterance string) RecognizedIntent {
	result := RecognizedIntent{Intent: IntentUnknown, Confidence: 0, Entities: NoEntities{}}

	trimmed := strings.TrimSpace(utterance)
	if trimmed == "" {
		metrics.UtterancesClassified.WithLabelValues(result.Intent).Inc()
		return result
	}
	utteranceLen := float64(len(trimmed))

	for _, p := range c.provider.IntentPatterns() {
		re := c.regex(p.ID, p.Pattern)
		if re == nil {
			continue
		}

		match := re.FindString(trimmed)
		if match == "" {
			continue
		}

		// Rewards patterns that explain more of the input, scaled by the
		// human-assigned priority weight. Not clamped to [0,1]: a remote
		// priority above 10 can push it higher.
		confidence := (float64(len(match)) / utteranceLen) * (float64(p.Priority) / 10.0)
		if confidence > result.Confidence {
			result = RecognizedIntent{
				Intent:         p.IntentType,
				Confidence:     confidence,
				Entities:       NoEntities{},
				MatchedPattern: p.Pattern,
			}
		}
	}

	if result.Intent != IntentUnknown {
		result.Entities = c.extractEntities(result.Intent, trimmed)
	}

	metrics.UtterancesClassified.WithLabelValues(result.Intent).Inc()
	return result
}

// regex returns the compiled, case-insensitive form of a pattern, or nil
// when the pattern source is malformed. A bad pattern is skipped and logged
// once; it never aborts classification of the remaining patterns.
func (c *Classifier) regex(id, pattern string) *regexp.Regexp {
	c.mu.Lock()
	defer c.mu.Unlock()

	if re, ok := c.compiled[pattern]; ok {
		return re
	}
	if c.rejected[pattern] {
		return nil
	}

	src := pattern
	if !strings.HasPrefix(src, "(?i)") {
		src = "(?i)" + src
	}

	re, err := regexp.Compile(src)
	if err != nil {
		c.rejected[pattern] = true
		metrics.PatternsSkipped.Inc()
		c.logger.WithError(apperrors.NewPatternInvalidError(id, err.Error())).Warn(
			"skipping malformed pattern", map[string]interface{}{
				"patternId": id,
				"pattern":   pattern,
			})
		return nil
	}

	c.compiled[pattern] = re
	return re
}

// extractEntities runs entity extraction conditioned on the chosen intent.
func (c *Classifier) extractEntities(intent, utterance string) EntitySet {
	switch intent {
	case IntentSendMoney:
		return SendMoneyEntities{
			Amount:    c.extractAmount(utterance),
			Currency:  normalize.Currency(utterance),
			Recipient: c.extractRecipient(utterance),
			Method:    normalize.PaymentMethod(utterance),
		}
	case IntentDeposit:
		return DepositEntities{
			Amount:   c.extractAmount(utterance),
			Currency: normalize.Currency(utterance),
			Method:   normalize.PaymentMethod(utterance),
		}
	case IntentCheckRates:
		from, to := c.extractCurrencyPair(utterance)
		return CheckRatesEntities{FromCurrency: from, ToCurrency: to}
	default:
		return NoEntities{}
	}
}

func (c *Classifier) extractAmount(utterance string) float64 {
	m := c.entityMatch("amount", utterance)
	if len(m) < 2 {
		return 0
	}
	amount, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return amount
}

func (c *Classifier) extractCurrencyPair(utterance string) (string, string) {
	m := c.entityMatch("currency_pair", utterance)
	if len(m) < 3 {
		return "", ""
	}

	from := strings.ToUpper(m[1])
	to := strings.ToUpper(m[2])
	if !normalize.IsKnownCode(from) || !normalize.IsKnownCode(to) {
		return "", ""
	}
	return from, to
}

// extractRecipient prefers a "to <name>" capture and falls back to the
// utterance's trailing word, rejecting stoplist words and bare numbers.
func (c *Classifier) extractRecipient(utterance string) string {
	if m := c.entityMatch("recipient", utterance); len(m) >= 2 {
		if name := m[1]; !recipientStoplist[strings.ToLower(name)] {
			return name
		}
		return ""
	}

	fields := strings.Fields(utterance)
	if len(fields) == 0 {
		return ""
	}
	last := strings.Trim(fields[len(fields)-1], ".,!?")
	if last == "" || recipientStoplist[strings.ToLower(last)] {
		return ""
	}
	if _, err := strconv.ParseFloat(strings.TrimPrefix(last, "$"), 64); err == nil {
		return ""
	}
	return last
}

// entityMatch runs the first entity pattern of the given type that matches,
// in declaration order, returning its submatches.
func (c *Classifier) entityMatch(entityType, utterance string) []string {
	for _, p := range c.provider.EntityPatterns() {
		if p.EntityType != entityType {
			continue
		}
		re := c.regex(p.ID, p.Pattern)
		if re == nil {
			continue
		}
		if m := re.FindStringSubmatch(utterance); m != nil {
			return m
		}
	}
	return nil
}
