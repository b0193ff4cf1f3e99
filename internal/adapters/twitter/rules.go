package twitter

import (
	"context"
	"net/http"

	"github.com/jamesm2w/tweetbot-v2/internal/domain"
	"github.com/jamesm2w/tweetbot-v2/internal/ports"
)

// Wire shapes for /2/tweets/search/stream/rules.
type ruleEntry struct {
	ID    string `json:"id,omitempty"`
	Value string `json:"value"`
	Tag   string `json:"tag,omitempty"`
}

type rulesResponse struct {
	Data []ruleEntry `json:"data"`
	Meta struct {
		ResultCount int `json:"result_count"`
		Summary     struct {
			Created    int `json:"created"`
			NotCreated int `json:"not_created"`
			Valid      int `json:"valid"`
			Invalid    int `json:"invalid"`
		} `json:"summary"`
	} `json:"meta"`
}

type rulesRequest struct {
	Add    []ruleEntry  `json:"add,omitempty"`
	Delete *ruleDeletes `json:"delete,omitempty"`
}

type ruleDeletes struct {
	IDs []string `json:"ids"`
}

func (c *Client) rulesURL() string {
	return c.baseURL + "/tweets/search/stream/rules"
}

// ActiveRules returns the rules currently active on the stream.
func (c *Client) ActiveRules(ctx context.Context) ([]domain.ActiveRule, error) {
	var resp rulesResponse
	if err := c.do(ctx, http.MethodGet, c.rulesURL(), nil, &resp); err != nil {
		return nil, err
	}

	rules := make([]domain.ActiveRule, 0, len(resp.Data))
	for _, r := range resp.Data {
		rules = append(rules, domain.ActiveRule{ID: r.ID, Expression: r.Value})
	}
	return rules, nil
}

// AddRules submits the compiled rule set in one bulk call.
func (c *Client) AddRules(ctx context.Context, set domain.RuleSet) (domain.RuleSummary, error) {
	req := rulesRequest{Add: make([]ruleEntry, len(set))}
	for i, r := range set {
		req.Add[i] = ruleEntry{Value: r.Expression, Tag: r.Tag}
	}

	var resp rulesResponse
	if err := c.do(ctx, http.MethodPost, c.rulesURL(), req, &resp); err != nil {
		return domain.RuleSummary{}, err
	}

	summary := domain.RuleSummary{
		Created: resp.Meta.Summary.Created,
		Invalid: resp.Meta.Summary.Invalid,
	}
	c.logger.Debug("rules added",
		ports.Int("created", summary.Created),
		ports.Int("invalid", summary.Invalid),
	)
	return summary, nil
}

// DeleteRules removes the identified rules in one bulk call.
func (c *Client) DeleteRules(ctx context.Context, ids []string) error {
	req := rulesRequest{Delete: &ruleDeletes{IDs: ids}}
	return c.do(ctx, http.MethodPost, c.rulesURL(), req, nil)
}
