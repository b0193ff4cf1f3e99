// Package rules compiles channel subscriptions into the bounded set of
// provider-side filter rules. Compilation is pure: no I/O, deterministic
// given input order.
package rules

import (
	"strconv"
	"strings"

	"github.com/jamesm2w/tweetbot-v2/internal/domain"
)

const (
	predicatePrefix = "from:"
	predicateJoin   = " OR "
)

// Compiler packs account handles into filter rule expressions under the
// provider's size and count limits.
type Compiler struct {
	// MaxExpressionLength is the maximum encoded length of one rule
	// expression.
	MaxExpressionLength int

	// MaxRules is the maximum number of rules in the compiled set. Handles
	// beyond the truncation point are silently unmonitored for the cycle.
	MaxRules int
}

// NewCompiler returns a Compiler configured with the provider's limits.
func NewCompiler() Compiler {
	return Compiler{
		MaxExpressionLength: domain.MaxRuleExpressionLength,
		MaxRules:            domain.MaxRuleCount,
	}
}

// Compile flattens the subscriptions' account sets into unique handles in
// first-seen order and greedily packs them into rule expressions. Each handle
// contributes one "from:<handle>" predicate; predicates are joined with
// " OR " while the expression stays within MaxExpressionLength, then the
// expression is sealed as a rule tagged Rule<N>.
//
// The second return value is the number of handles dropped because the
// compiled set exceeded MaxRules. Zero subscriptions compile to an empty set.
//
// A single predicate longer than MaxExpressionLength still becomes its own
// rule rather than being dropped; the provider rejects it as invalid at sync
// time. Real handles are far shorter than the limit, so this only matters
// for the reduced limits used in tests.
func (c Compiler) Compile(subs []domain.ChannelSubscription) (domain.RuleSet, int) {
	handles := uniqueHandles(subs)

	var set domain.RuleSet
	var expr strings.Builder
	seal := func() {
		set = append(set, domain.FilterRule{
			Tag:        "Rule" + strconv.Itoa(len(set)+1),
			Expression: expr.String(),
		})
		expr.Reset()
	}

	for _, h := range handles {
		pred := predicatePrefix + h
		switch {
		case expr.Len() == 0:
			expr.WriteString(pred)
		case expr.Len()+len(predicateJoin)+len(pred) > c.MaxExpressionLength:
			seal()
			expr.WriteString(pred)
		default:
			expr.WriteString(predicateJoin)
			expr.WriteString(pred)
		}
	}
	if expr.Len() > 0 {
		seal()
	}

	dropped := 0
	if len(set) > c.MaxRules {
		for _, r := range set[c.MaxRules:] {
			dropped += strings.Count(r.Expression, predicatePrefix)
		}
		set = set[:c.MaxRules]
	}
	return set, dropped
}

// uniqueHandles returns every distinct handle across the subscriptions,
// preserving first-seen order for reproducibility.
func uniqueHandles(subs []domain.ChannelSubscription) []string {
	seen := make(map[string]struct{})
	var handles []string
	for _, sub := range subs {
		for _, h := range sub.Accounts {
			if _, ok := seen[h]; ok {
				continue
			}
			seen[h] = struct{}{}
			handles = append(handles, h)
		}
	}
	return handles
}
