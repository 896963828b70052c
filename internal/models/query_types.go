// internal/models/query_types.go
package models

type QueryType string

const (
	QueryTypePolicies          QueryType = "policies"
	QueryTypePolicyFeatures    QueryType = "policy_features"
	QueryTypeCompanyFinancials QueryType = "company_financials"
)
