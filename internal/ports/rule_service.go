package ports

import (
	"context"

	"github.com/jamesm2w/tweetbot-v2/internal/domain"
)

// RuleService manages the provider's active filter rule set.
// The provider has no atomic replace primitive, so callers replace the set
// with a bulk delete followed by a bulk add and accept the intermediate
// window with zero active rules.
type RuleService interface {
	// ActiveRules returns the rules currently evaluated by the provider.
	ActiveRules(ctx context.Context) ([]domain.ActiveRule, error)

	// AddRules submits new rules. The returned summary reports per-rule
	// validity; any invalid rule means the set was only partially applied.
	AddRules(ctx context.Context, rules domain.RuleSet) (domain.RuleSummary, error)

	// DeleteRules removes the rules with the given provider-assigned ids.
	DeleteRules(ctx context.Context, ids []string) error
}
