// Package policy holds the decision logic behind the shopping flow: narrowing a
// catalog to a short list of recommendations and picking the best value per
// feature when policies are compared side by side.
package policy

import (
	"github.com/shopspring/decimal"

	"insurance-workers/internal/models"
)

// MaxRecommendations is the number of recommendation slots.
const MaxRecommendations = 3

// Options tunes Recommend. The zero value means MaxRecommendations slots and
// DefaultBudgetSlack. A zero BudgetSlack always means the default; pass 1 for a
// budget without slack.
type Options struct {
	Limit       int
	BudgetSlack decimal.Decimal
}

func (o Options) withDefaults() Options {
	if o.Limit <= 0 {
		o.Limit = MaxRecommendations
	}
	if o.BudgetSlack.IsZero() {
		o.BudgetSlack = DefaultBudgetSlack
	}
	return o
}

// Recommend narrows catalog by criteria and returns at most MaxRecommendations
// flagged copies, in catalog order.
func Recommend(catalog []models.PolicyRecord, criteria models.FilterCriteria) []models.PolicyRecord {
	return RecommendWith(catalog, criteria, Options{})
}

// RecommendWith is Recommend with explicit options. Every populated criterion is
// an independent filter over the running candidate list; the catalog itself is
// never modified.
func RecommendWith(catalog []models.PolicyRecord, criteria models.FilterCriteria, opts Options) []models.PolicyRecord {
	opts = opts.withDefaults()
	candidates := catalog

	if criteria.Category != "" {
		candidates = narrow(candidates, func(p models.PolicyRecord) bool {
			return p.Category == criteria.Category
		})
	}

	if criteria.Budget != "" {
		budget := ParseAmount(criteria.Budget)
		candidates = narrow(candidates, func(p models.PolicyRecord) bool {
			return WithinBudget(ParseAmount(p.Premium), budget, opts.BudgetSlack)
		})
	}

	if IsSeniorBucket(criteria.AgeRange) {
		candidates = narrow(candidates, IsSeniorPolicy)
	}

	if IsYoungAdultBucket(criteria.AgeRange) && IsFemale(criteria.Gender) {
		candidates = narrow(candidates, IsMaternityPolicy)
	}

	if criteria.HasCondition(models.ConditionDiabetes) {
		candidates = narrow(candidates, IsDiabetesFriendly)
	}

	if len(candidates) > opts.Limit {
		candidates = candidates[:opts.Limit]
	}

	out := make([]models.PolicyRecord, 0, len(candidates))
	for _, p := range candidates {
		rec := p.Clone()
		rec.Recommended = true
		out = append(out, rec)
	}
	return out
}

// AppliedFilters names the narrowing steps criteria would trigger, in order.
func AppliedFilters(criteria models.FilterCriteria) []string {
	applied := []string{}
	if criteria.Category != "" {
		applied = append(applied, "category")
	}
	if criteria.Budget != "" {
		applied = append(applied, "budget")
	}
	if IsSeniorBucket(criteria.AgeRange) {
		applied = append(applied, "senior")
	}
	if IsYoungAdultBucket(criteria.AgeRange) && IsFemale(criteria.Gender) {
		applied = append(applied, "maternity")
	}
	if criteria.HasCondition(models.ConditionDiabetes) {
		applied = append(applied, "diabetes")
	}
	return applied
}

func narrow(in []models.PolicyRecord, keep func(models.PolicyRecord) bool) []models.PolicyRecord {
	out := make([]models.PolicyRecord, 0, len(in))
	for _, p := range in {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
