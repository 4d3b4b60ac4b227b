// Package normalize maps raw lexical variants of currencies and payment
// methods to canonical codes.
package normalize

import (
	"regexp"
	"strings"
)

// synonymEntry pairs a canonical code with the lexical variants that map to
// it. Declaration order is the tie-break: the first entry whose synonym
// appears in the text wins. This is a deliberate non-ambiguity rule, not a
// best-match search.
type synonymEntry struct {
	code     string
	synonyms []string
}

var currencyTable = []synonymEntry{
	{"USD", []string{"dollar", "dollars", "usd", "$", "buck", "bucks"}},
	{"EUR", []string{"euro", "euros", "eur", "€"}},
	{"GBP", []string{"pound", "pounds", "quid", "gbp", "£"}},
	{"JPY", []string{"yen", "jpy", "¥"}},
	{"CAD", []string{"canadian dollar", "canadian dollars", "cad"}},
	{"AUD", []string{"australian dollar", "australian dollars", "aud"}},
	{"CHF", []string{"franc", "francs", "chf"}},
	{"CNY", []string{"yuan", "renminbi", "cny", "rmb"}},
	{"INR", []string{"rupee", "rupees", "inr", "₹"}},
	{"NGN", []string{"naira", "ngn", "₦"}},
}

var methodTable = []synonymEntry{
	{"card", []string{"card", "credit", "debit"}},
	{"bank", []string{"bank", "transfer", "wire"}},
	{"wallet", []string{"wallet", "paypal", "applepay", "apple pay", "googlepay", "google pay"}},
}

// isoCodeRe matches a bare three-letter uppercase token. Matches are only
// honored when the token is a currency we know about.
var isoCodeRe = regexp.MustCompile(`\b[A-Z]{3}\b`)

var knownCodes = func() map[string]bool {
	m := make(map[string]bool, len(currencyTable))
	for _, e := range currencyTable {
		m[e.code] = true
	}
	return m
}()

// Currency resolves free text to a canonical currency code, or "" when
// nothing matches. An explicit ISO code in the text (e.g. "EUR") takes
// precedence over synonym-table matches because it is the more explicit
// signal.
func Currency(text string) string {
	if code := ExplicitCode(text); code != "" {
		return code
	}

	lower := strings.ToLower(text)
	for _, entry := range currencyTable {
		for _, syn := range entry.synonyms {
			if strings.Contains(lower, syn) {
				return entry.code
			}
		}
	}
	return ""
}

// ExplicitCode returns the first known bare three-letter currency code in
// the text, or "".
func ExplicitCode(text string) string {
	for _, tok := range isoCodeRe.FindAllString(text, -1) {
		if knownCodes[tok] {
			return tok
		}
	}
	return ""
}

// IsKnownCode reports whether code is a currency code the normalizer
// recognizes. The comparison is case-sensitive: only bare uppercase tokens
// count as explicit codes.
func IsKnownCode(code string) bool {
	return knownCodes[code]
}

// PaymentMethod resolves free text to a canonical payment-method code, or
// "" when nothing matches. First table entry in declaration order wins.
func PaymentMethod(text string) string {
	lower := strings.ToLower(text)
	for _, entry := range methodTable {
		for _, syn := range entry.synonyms {
			if strings.Contains(lower, syn) {
				return entry.code
			}
		}
	}
	return ""
}
