// Package patterns owns the intent/entity pattern sets the classifier runs
// against: a built-in fallback table plus an optional remote store behind a
// TTL cache.
package patterns

// Kind selects which pattern set a source fetch refers to.
type Kind string

const (
	KindIntent Kind = "intent"
	KindEntity Kind = "entity"
)

// IntentPattern maps a regex to an intent type. Declaration order is
// significant: the classifier resolves exact confidence ties in favor of the
// earlier pattern. Remote and fallback sets share this shape so the
// classifier is agnostic to origin.
type IntentPattern struct {
	ID         string `json:"id"`
	IntentType string `json:"type"`
	Pattern    string `json:"pattern"`
	Priority   int    `json:"priority"`
}

// EntityPattern maps a regex to an entity type, same sourcing duality as
// IntentPattern.
type EntityPattern struct {
	ID         string `json:"id"`
	EntityType string `json:"type"`
	Pattern    string `json:"pattern"`
	Priority   int    `json:"priority"`
}
