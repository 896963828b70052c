// Package catalog provides access to the policy catalog, per-policy feature
// sets and insurer financials.
package catalog

import (
	"context"
	"errors"

	"insurance-workers/internal/models"
)

var ErrCompanyNotFound = errors.New("company not found")

// Repository is the read side of the policy catalog.
type Repository interface {
	// ListPolicies returns the catalog in its display order.
	ListPolicies(ctx context.Context) ([]models.PolicyRecord, error)
	// FeatureSets returns the comparison attributes of the named policies.
	// Unknown names are absent from the result; that is not an error.
	FeatureSets(ctx context.Context, names []string) (map[string]models.PolicyFeatureSet, error)
	// CompanyFinancials returns ErrCompanyNotFound for an unknown insurer.
	CompanyFinancials(ctx context.Context, company string) (*models.CompanyFinancials, error)
}

// MissingNames returns the entries of names that have no feature set in found.
func MissingNames(names []string, found map[string]models.PolicyFeatureSet) []string {
	var missing []string
	for _, n := range names {
		if _, ok := found[n]; !ok {
			missing = append(missing, n)
		}
	}
	return missing
}
