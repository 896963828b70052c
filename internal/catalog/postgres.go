package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"insurance-workers/internal/models"
)

// PostgresRepository reads the catalog from the policies, policy_features and
// company_financials tables.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListPolicies(ctx context.Context) ([]models.PolicyRecord, error) {
	res, err := ExecuteQuery(ctx, r.db, models.QueryTypePolicies, nil)
	if err != nil {
		return nil, fmt.Errorf("list policies: %w", err)
	}
	return res.([]models.PolicyRecord), nil
}

func (r *PostgresRepository) FeatureSets(ctx context.Context, names []string) (map[string]models.PolicyFeatureSet, error) {
	if len(names) == 0 {
		return map[string]models.PolicyFeatureSet{}, nil
	}
	res, err := ExecuteQuery(ctx, r.db, models.QueryTypePolicyFeatures, map[string]interface{}{
		"policyNames": names,
	})
	if err != nil {
		return nil, fmt.Errorf("load feature sets: %w", err)
	}
	return res.(map[string]models.PolicyFeatureSet), nil
}

func (r *PostgresRepository) CompanyFinancials(ctx context.Context, company string) (*models.CompanyFinancials, error) {
	res, err := ExecuteQuery(ctx, r.db, models.QueryTypeCompanyFinancials, map[string]interface{}{
		"company": company,
	})
	if err != nil {
		return nil, err
	}
	return res.(*models.CompanyFinancials), nil
}
