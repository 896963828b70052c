// internal/models/company.go
package models

// CompanyFinancials is the financial analysis shown for an insurer.
type CompanyFinancials struct {
	Company                string  `json:"company" yaml:"company" db:"company"`
	ClaimSettlementRatio   float64 `json:"claimSettlementRatio" yaml:"claimSettlementRatio" db:"claim_settlement_ratio"`
	IncurredClaimRatio     float64 `json:"incurredClaimRatio" yaml:"incurredClaimRatio" db:"incurred_claim_ratio"`
	SolvencyRatio          float64 `json:"solvencyRatio" yaml:"solvencyRatio" db:"solvency_ratio"`
	GrossWrittenPremium    string  `json:"grossWrittenPremium" yaml:"grossWrittenPremium" db:"gross_written_premium"`
	NetworkHospitals       int     `json:"networkHospitals" yaml:"networkHospitals" db:"network_hospitals"`
	ComplaintsPer10kClaims float64 `json:"complaintsPer10kClaims" yaml:"complaintsPer10kClaims" db:"complaints_per_10k_claims"`
	FiscalYear             string  `json:"fiscalYear" yaml:"fiscalYear" db:"fiscal_year"`
}
