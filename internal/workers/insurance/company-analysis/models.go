// internal/workers/insurance/company-analysis/models.go
package companyanalysis

import "insurance-workers/internal/models"

type Input struct {
	Company string `json:"company"`
}

type Output struct {
	Financials           models.CompanyFinancials `json:"financials"`
	ClaimSettlementGrade string                   `json:"claimSettlementGrade"`
}

const (
	GradeExcellent = "Excellent"
	GradeGood      = "Good"
	GradeAverage   = "Average"
)
