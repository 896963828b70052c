// internal/workers/insurance/recommend-policies/config.go
package recommendpolicies

import (
	"time"

	"github.com/shopspring/decimal"

	"insurance-workers/internal/policy"
)

type Config struct {
	Timeout     time.Duration
	MaxResults  int
	BudgetSlack decimal.Decimal
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     10 * time.Second,
		MaxResults:  policy.MaxRecommendations,
		BudgetSlack: policy.DefaultBudgetSlack,
	}
}
