// internal/workers/insurance/parse-filter-criteria/config.go
package parsefiltercriteria

import (
	"time"

	"github.com/shopspring/decimal"

	"insurance-workers/internal/policy"
)

type Config struct {
	Timeout     time.Duration
	BudgetSlack decimal.Decimal
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     5 * time.Second,
		BudgetSlack: policy.DefaultBudgetSlack,
	}
}
