package policy

import (
	"fmt"

	"insurance-workers/internal/models"
)

// ComparisonFeature names a row of the comparison table.
type ComparisonFeature string

const (
	FeaturePrePostHospitalization ComparisonFeature = "Pre/Post Hospitalization"
	FeaturePEDWaitingPeriod       ComparisonFeature = "PED Waiting Period"
	FeatureSumInsuredRestoration  ComparisonFeature = "Sum Insured Restoration"
	FeatureMaternityCover         ComparisonFeature = "Maternity Cover"
	FeatureRoomRentLimit          ComparisonFeature = "Room Rent Limit"
	FeatureNoClaimBonus           ComparisonFeature = "No Claim Bonus"
	FeatureDayCareProcedures      ComparisonFeature = "Day Care Procedures"
	FeatureAyushTreatment         ComparisonFeature = "AYUSH Treatment"
	FeatureAmbulanceCover         ComparisonFeature = "Ambulance Cover"
	FeatureHealthCheckup          ComparisonFeature = "Health Checkup"
	FeatureCoPayment              ComparisonFeature = "Co-payment"
)

// Direction is the sense in which one value beats another.
type Direction string

const (
	DirectionNone     Direction = "none"
	DirectionHigher   Direction = "higher"
	DirectionLower    Direction = "lower"
	DirectionPresence Direction = "presence"
	DirectionLadder   Direction = "ladder"
)

// RoomRentLadder ranks room rent terms from most to least generous.
var RoomRentLadder = []string{
	"No Limit",
	"Any Room (upgradable to suite)",
	"Single Private Room",
}

// FeatureSpec binds a feature to how its value is displayed and how the best
// value across compared policies is chosen.
type FeatureSpec struct {
	Feature   ComparisonFeature
	Direction Direction
	extract   func(models.PolicyFeatureSet) (string, bool)
	best      func(policies []models.NamedFeatureSet) (string, bool)
}

// Extract renders the feature for one policy. ok is false when the insurer did
// not publish it.
func (s FeatureSpec) Extract(set models.PolicyFeatureSet) (string, bool) {
	return s.extract(set)
}

// BestValue picks the winning display value across policies, if the feature has
// a rule and any policy qualifies.
func (s FeatureSpec) BestValue(policies []models.NamedFeatureSet) (string, bool) {
	if s.best == nil {
		return "", false
	}
	return s.best(policies)
}

var featureSpecs = []FeatureSpec{
	{
		Feature:   FeaturePrePostHospitalization,
		Direction: DirectionHigher,
		extract:   extractPrePost,
		best:      bestPrePost,
	},
	{
		Feature:   FeaturePEDWaitingPeriod,
		Direction: DirectionLower,
		extract:   extractPEDWaiting,
		best:      bestPEDWaiting,
	},
	{
		Feature:   FeatureSumInsuredRestoration,
		Direction: DirectionPresence,
		extract:   extractFlag(func(s models.PolicyFeatureSet) *bool { return s.SumInsuredRestoration }),
		best:      bestPresence(func(s models.PolicyFeatureSet) *bool { return s.SumInsuredRestoration }),
	},
	{
		Feature:   FeatureMaternityCover,
		Direction: DirectionPresence,
		extract:   extractFlag(func(s models.PolicyFeatureSet) *bool { return s.MaternityCover }),
		best:      bestPresence(func(s models.PolicyFeatureSet) *bool { return s.MaternityCover }),
	},
	{
		Feature:   FeatureRoomRentLimit,
		Direction: DirectionLadder,
		extract:   extractText(func(s models.PolicyFeatureSet) string { return s.RoomRentLimit }),
		best:      bestRoomRent,
	},
	{
		Feature:   FeatureNoClaimBonus,
		Direction: DirectionNone,
		extract:   extractText(func(s models.PolicyFeatureSet) string { return s.NoClaimBonus }),
	},
	{
		Feature:   FeatureDayCareProcedures,
		Direction: DirectionNone,
		extract:   extractText(func(s models.PolicyFeatureSet) string { return s.DayCareProcedures }),
	},
	{
		Feature:   FeatureAyushTreatment,
		Direction: DirectionNone,
		extract:   extractText(func(s models.PolicyFeatureSet) string { return s.AyushTreatment }),
	},
	{
		Feature:   FeatureAmbulanceCover,
		Direction: DirectionNone,
		extract:   extractText(func(s models.PolicyFeatureSet) string { return s.AmbulanceCover }),
	},
	{
		Feature:   FeatureHealthCheckup,
		Direction: DirectionNone,
		extract:   extractText(func(s models.PolicyFeatureSet) string { return s.HealthCheckup }),
	},
	{
		Feature:   FeatureCoPayment,
		Direction: DirectionNone,
		extract:   extractText(func(s models.PolicyFeatureSet) string { return s.CoPayment }),
	},
}

// Features returns every comparison feature in table order.
func Features() []ComparisonFeature {
	out := make([]ComparisonFeature, len(featureSpecs))
	for i, s := range featureSpecs {
		out[i] = s.Feature
	}
	return out
}

// Spec looks up the definition of feature.
func Spec(feature ComparisonFeature) (FeatureSpec, bool) {
	for _, s := range featureSpecs {
		if s.Feature == feature {
			return s, true
		}
	}
	return FeatureSpec{}, false
}

// Extract renders feature for a single policy.
func Extract(feature ComparisonFeature, set models.PolicyFeatureSet) (string, bool) {
	spec, ok := Spec(feature)
	if !ok {
		return "", false
	}
	return spec.Extract(set)
}

func extractPrePost(s models.PolicyFeatureSet) (string, bool) {
	if s.PreHospitalizationDays == nil || s.PostHospitalizationDays == nil {
		return "", false
	}
	return fmt.Sprintf("%d days / %d days", *s.PreHospitalizationDays, *s.PostHospitalizationDays), true
}

func extractPEDWaiting(s models.PolicyFeatureSet) (string, bool) {
	if s.PEDWaitingMonths == nil {
		return "", false
	}
	return formatMonths(*s.PEDWaitingMonths), true
}

func formatMonths(n int) string {
	return fmt.Sprintf("%d months", n)
}

func extractFlag(get func(models.PolicyFeatureSet) *bool) func(models.PolicyFeatureSet) (string, bool) {
	return func(s models.PolicyFeatureSet) (string, bool) {
		v := get(s)
		if v == nil {
			return "", false
		}
		if *v {
			return ValueYes, true
		}
		return ValueNo, true
	}
}

func extractText(get func(models.PolicyFeatureSet) string) func(models.PolicyFeatureSet) (string, bool) {
	return func(s models.PolicyFeatureSet) (string, bool) {
		v := get(s)
		return v, v != ""
	}
}
