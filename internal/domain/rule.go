package domain

// Provider-imposed limits on the filtered-stream rule set.
const (
	// MaxRuleExpressionLength is the maximum encoded length of a single rule
	// expression.
	MaxRuleExpressionLength = 512

	// MaxRuleCount is the maximum number of concurrently active rules.
	MaxRuleCount = 25
)

// FilterRule is one provider-side filter: a disjunction of from:<handle>
// predications plus a label unique within the active set.
// Rules are ephemeral; they are recomputed on every sync cycle and never
// persisted locally.
type FilterRule struct {
	// Tag is the stable label for the rule, e.g. "Rule3".
	Tag string

	// Expression is the filter text, e.g. "from:nasa OR from:spacex".
	Expression string
}

// RuleSet is the ordered collection of rules the provider should evaluate
// against incoming posts.
type RuleSet []FilterRule

// ActiveRule is a rule as reported by the provider, carrying the
// provider-assigned identifier needed for deletion.
type ActiveRule struct {
	ID         string
	Expression string
}

// RuleSummary reports the outcome of a bulk rule add.
type RuleSummary struct {
	// Created is the number of rules the provider accepted.
	Created int

	// Invalid is the number of rules the provider rejected. Any non-zero
	// value fails the sync cycle that produced it.
	Invalid int
}
