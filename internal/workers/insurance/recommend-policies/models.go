// internal/workers/insurance/recommend-policies/models.go
package recommendpolicies

import "insurance-workers/internal/models"

// Input carries the parsed criteria. Catalog, when present, replaces the
// configured catalog repository for this job.
type Input struct {
	Criteria models.FilterCriteria `json:"criteria"`
	Catalog  []models.PolicyRecord `json:"catalog,omitempty"`
}

type Output struct {
	Recommendations []models.PolicyRecord `json:"recommendations"`
	Count           int                   `json:"count"`
	AppliedFilters  []string              `json:"appliedFilters"`
	CatalogSize     int                   `json:"catalogSize"`
}
