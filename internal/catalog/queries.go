package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"insurance-workers/internal/models"
)

var (
	ErrMissingParam     = errors.New("missing required parameter")
	ErrUnknownQueryType = errors.New("unknown query type")
)

// QueryFunc runs one registered catalog query.
type QueryFunc func(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, error)

// Queries holds every SQL query the catalog issues, keyed by query type.
var Queries = map[models.QueryType]QueryFunc{
	models.QueryTypePolicies:          queryPolicies,
	models.QueryTypePolicyFeatures:    queryPolicyFeatures,
	models.QueryTypeCompanyFinancials: queryCompanyFinancials,
}

func ExecuteQuery(ctx context.Context, db *sql.DB, queryType models.QueryType, params map[string]interface{}) (interface{}, error) {
	fn, exists := Queries[queryType]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownQueryType, queryType)
	}
	return fn(ctx, db, params)
}

const policiesSQL = `SELECT id, name, company, category, premium, coverage, features, tags, rating, reviews
FROM policies
WHERE active = true
ORDER BY display_order, id`

func queryPolicies(ctx context.Context, db *sql.DB, _ map[string]interface{}) (interface{}, error) {
	rows, err := db.QueryContext(ctx, policiesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.PolicyRecord
	for rows.Next() {
		var p models.PolicyRecord
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Company, &p.Category, &p.Premium, &p.Coverage,
			pq.Array(&p.Features), pq.Array(&p.Tags), &p.Rating, &p.Reviews,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

const policyFeaturesSQL = `SELECT policy_name, pre_hospitalization_days, post_hospitalization_days,
	ped_waiting_months, sum_insured_restoration, maternity_cover, room_rent_limit,
	no_claim_bonus, day_care_procedures, ayush_treatment, ambulance_cover,
	health_checkup, co_payment
FROM policy_features
WHERE policy_name = ANY($1)`

func queryPolicyFeatures(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, error) {
	names, ok := params["policyNames"].([]string)
	if !ok {
		return nil, fmt.Errorf("%w: policyNames", ErrMissingParam)
	}

	rows, err := db.QueryContext(ctx, policyFeaturesSQL, pq.Array(names))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]models.PolicyFeatureSet, len(names))
	for rows.Next() {
		var (
			name               string
			pre, post, ped     sql.NullInt64
			restoration, mat   sql.NullBool
			room, ncb, dayCare sql.NullString
			ayush, ambulance   sql.NullString
			checkup, coPayment sql.NullString
		)
		if err := rows.Scan(&name, &pre, &post, &ped, &restoration, &mat, &room,
			&ncb, &dayCare, &ayush, &ambulance, &checkup, &coPayment); err != nil {
			return nil, err
		}
		out[name] = models.PolicyFeatureSet{
			PreHospitalizationDays:  nullInt(pre),
			PostHospitalizationDays: nullInt(post),
			PEDWaitingMonths:        nullInt(ped),
			SumInsuredRestoration:   nullBool(restoration),
			MaternityCover:          nullBool(mat),
			RoomRentLimit:           room.String,
			NoClaimBonus:            ncb.String,
			DayCareProcedures:       dayCare.String,
			AyushTreatment:          ayush.String,
			AmbulanceCover:          ambulance.String,
			HealthCheckup:           checkup.String,
			CoPayment:               coPayment.String,
		}
	}
	return out, rows.Err()
}

const companyFinancialsSQL = `SELECT company, claim_settlement_ratio, incurred_claim_ratio, solvency_ratio,
	gross_written_premium, network_hospitals, complaints_per_10k_claims, fiscal_year
FROM company_financials
WHERE lower(company) = lower($1)
ORDER BY fiscal_year DESC
LIMIT 1`

func queryCompanyFinancials(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, error) {
	company, ok := params["company"].(string)
	if !ok || company == "" {
		return nil, fmt.Errorf("%w: company", ErrMissingParam)
	}

	var c models.CompanyFinancials
	err := db.QueryRowContext(ctx, companyFinancialsSQL, company).Scan(
		&c.Company, &c.ClaimSettlementRatio, &c.IncurredClaimRatio, &c.SolvencyRatio,
		&c.GrossWrittenPremium, &c.NetworkHospitals, &c.ComplaintsPer10kClaims, &c.FiscalYear,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrCompanyNotFound, company)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	return models.IntPtr(int(v.Int64))
}

func nullBool(v sql.NullBool) *bool {
	if !v.Valid {
		return nil
	}
	return models.BoolPtr(v.Bool)
}
