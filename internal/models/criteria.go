// internal/models/criteria.go
package models

// Age range buckets offered by the filter wizard.
const (
	AgeRange18To25 = "18-25"
	AgeRange26To35 = "26-35"
	AgeRange18To35 = "18-35"
	AgeRange36To50 = "36-50"
	AgeRange51To65 = "51-65"
	AgeRange65Plus = "65+"
)

const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// Medical history entries. ConditionNone is exclusive with every other entry.
const (
	ConditionNone         = "None"
	ConditionDiabetes     = "Diabetes"
	ConditionHypertension = "Hypertension"
	ConditionHeart        = "Heart Disease"
	ConditionAsthma       = "Asthma"
	ConditionThyroid      = "Thyroid"
)

// FilterCriteria is the wizard input used to narrow the catalog. Every field is
// optional; the zero value matches everything.
type FilterCriteria struct {
	Category       Category `json:"category,omitempty"`
	AgeRange       string   `json:"ageRange,omitempty"`
	Gender         string   `json:"gender,omitempty"`
	Budget         string   `json:"budget,omitempty"`
	MedicalHistory []string `json:"medicalHistory,omitempty"`
}

// IsEmpty reports whether no criterion is populated.
func (c FilterCriteria) IsEmpty() bool {
	return c.Category == "" && c.AgeRange == "" && c.Gender == "" &&
		c.Budget == "" && len(c.MedicalHistory) == 0
}

// HasCondition reports whether the medical history lists condition.
func (c FilterCriteria) HasCondition(condition string) bool {
	for _, h := range c.MedicalHistory {
		if h == condition {
			return true
		}
	}
	return false
}
