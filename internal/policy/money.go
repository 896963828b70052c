package policy

import (
	"math"
	"regexp"
	"strconv"

	"github.com/shopspring/decimal"
)

var nonDigits = regexp.MustCompile(`[^\d]+`)

// DefaultBudgetSlack widens a stated budget by 20%: premiums are often quoted just
// above what shoppers type in.
var DefaultBudgetSlack = decimal.RequireFromString("1.2")

// ParseAmount reduces a currency-formatted string such as "₹18,500" to an integer
// by dropping every non-digit. A string without digits yields 0, so a policy with
// an unreadable premium is treated as free. Values beyond int64 clamp to MaxInt64.
func ParseAmount(s string) int64 {
	digits := nonDigits.ReplaceAllString(s, "")
	if digits == "" {
		return 0
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return math.MaxInt64
	}
	return n
}

// BudgetCeiling is the highest premium accepted for budget under slack.
func BudgetCeiling(budget int64, slack decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(budget).Mul(slack)
}

// WithinBudget reports whether premium <= budget*slack, compared exactly.
func WithinBudget(premium, budget int64, slack decimal.Decimal) bool {
	return decimal.NewFromInt(premium).LessThanOrEqual(BudgetCeiling(budget, slack))
}

// FormatRupees renders an amount the way the catalog stores it, e.g. ₹1,20,000
// uses Indian digit grouping.
func FormatRupees(amount int64) string {
	if amount < 0 {
		return "-" + FormatRupees(-amount)
	}
	s := strconv.FormatInt(amount, 10)
	if len(s) <= 3 {
		return "₹" + s
	}
	head, tail := s[:len(s)-3], s[len(s)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	out := "₹"
	for _, g := range groups {
		out += g + ","
	}
	return out + tail
}
