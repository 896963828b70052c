// internal/models/features.go
package models

// PolicyFeatureSet holds the comparable attributes of one policy. Pointer and
// empty-string fields mean the insurer did not publish that attribute.
type PolicyFeatureSet struct {
	PreHospitalizationDays  *int   `json:"preHospitalizationDays,omitempty" yaml:"preHospitalizationDays"`
	PostHospitalizationDays *int   `json:"postHospitalizationDays,omitempty" yaml:"postHospitalizationDays"`
	PEDWaitingMonths        *int   `json:"pedWaitingMonths,omitempty" yaml:"pedWaitingMonths"`
	SumInsuredRestoration   *bool  `json:"sumInsuredRestoration,omitempty" yaml:"sumInsuredRestoration"`
	MaternityCover          *bool  `json:"maternityCover,omitempty" yaml:"maternityCover"`
	RoomRentLimit           string `json:"roomRentLimit,omitempty" yaml:"roomRentLimit"`
	NoClaimBonus            string `json:"noClaimBonus,omitempty" yaml:"noClaimBonus"`
	DayCareProcedures       string `json:"dayCareProcedures,omitempty" yaml:"dayCareProcedures"`
	AyushTreatment          string `json:"ayushTreatment,omitempty" yaml:"ayushTreatment"`
	AmbulanceCover          string `json:"ambulanceCover,omitempty" yaml:"ambulanceCover"`
	HealthCheckup           string `json:"healthCheckup,omitempty" yaml:"healthCheckup"`
	CoPayment               string `json:"coPayment,omitempty" yaml:"coPayment"`
}

// NamedFeatureSet pairs a policy name with its feature set, preserving the order
// in which policies were selected for comparison.
type NamedFeatureSet struct {
	PolicyName string           `json:"policyName"`
	Features   PolicyFeatureSet `json:"features"`
}

// IntPtr and BoolPtr build optional feature values.
func IntPtr(v int) *int { return &v }

func BoolPtr(v bool) *bool { return &v }
