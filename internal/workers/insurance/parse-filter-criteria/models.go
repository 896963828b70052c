// internal/workers/insurance/parse-filter-criteria/models.go
package parsefiltercriteria

import "insurance-workers/internal/models"

// Input is the raw answer set of the filter wizard.
type Input struct {
	Category       string   `json:"category,omitempty"`
	AgeRange       string   `json:"ageRange,omitempty"`
	Gender         string   `json:"gender,omitempty"`
	Budget         string   `json:"budget,omitempty"`
	MedicalHistory []string `json:"medicalHistory,omitempty"`
}

type Output struct {
	Criteria       models.FilterCriteria `json:"criteria"`
	BudgetAmount   int64                 `json:"budgetAmount"`
	BudgetCeiling  string                `json:"budgetCeiling,omitempty"`
	AppliedFilters []string              `json:"appliedFilters"`
}
