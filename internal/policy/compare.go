package policy

import (
	"errors"
	"fmt"

	"insurance-workers/internal/models"
)

const (
	ValueYes        = "Yes"
	ValueNo         = "No"
	ValueNotCovered = "Not Covered"
)

const (
	MinComparePolicies = 2
	MaxComparePolicies = 4
)

var ErrSelectionSize = errors.New("comparison needs between 2 and 4 policies")

// CellStyle drives how a comparison cell is highlighted.
type CellStyle string

const (
	StyleBest     CellStyle = "best"
	StyleNegative CellStyle = "negative"
	StyleNeutral  CellStyle = "neutral"
	StyleEmpty    CellStyle = "empty"
)

type Comparison struct {
	Policies []string        `json:"policies"`
	Rows     []ComparisonRow `json:"rows"`
}

type ComparisonRow struct {
	Feature   ComparisonFeature `json:"feature"`
	BestValue string            `json:"bestValue,omitempty"`
	HasBest   bool              `json:"hasBest"`
	Cells     []ComparisonCell  `json:"cells"`
}

type ComparisonCell struct {
	PolicyName string    `json:"policyName"`
	Value      string    `json:"value"`
	Style      CellStyle `json:"style"`
}

// ValidateSelection checks the number of policies picked for comparison and
// rejects duplicates.
func ValidateSelection(names []string) error {
	if len(names) < MinComparePolicies || len(names) > MaxComparePolicies {
		return fmt.Errorf("%w: got %d", ErrSelectionSize, len(names))
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return fmt.Errorf("policy %q selected twice", n)
		}
		seen[n] = true
	}
	return nil
}

// BestValueForFeature returns the most favourable display value of feature among
// policies. It is used for highlighting only; policies are never ranked overall.
func BestValueForFeature(feature ComparisonFeature, policies []models.NamedFeatureSet) (string, bool) {
	spec, ok := Spec(feature)
	if !ok {
		return "", false
	}
	return spec.BestValue(policies)
}

// Highlight styles one displayed value. "No" and "Not Covered" are always
// negative; otherwise a value is best only when it equals the best value exactly.
func Highlight(value, best string, hasBest bool) CellStyle {
	switch {
	case value == "":
		return StyleEmpty
	case IsNegative(value):
		return StyleNegative
	case hasBest && value == best:
		return StyleBest
	}
	return StyleNeutral
}

func IsNegative(value string) bool {
	return value == ValueNo || value == ValueNotCovered
}

// BuildComparison lays out every feature for the selected policies. A selected
// policy missing from data gets empty cells; the rest of the table is unaffected.
func BuildComparison(selected []string, data map[string]models.PolicyFeatureSet) Comparison {
	present := make([]models.NamedFeatureSet, 0, len(selected))
	for _, name := range selected {
		if set, ok := data[name]; ok {
			present = append(present, models.NamedFeatureSet{PolicyName: name, Features: set})
		}
	}

	cmp := Comparison{
		Policies: append([]string(nil), selected...),
		Rows:     make([]ComparisonRow, 0, len(featureSpecs)),
	}
	for _, spec := range featureSpecs {
		best, hasBest := spec.BestValue(present)
		row := ComparisonRow{
			Feature:   spec.Feature,
			BestValue: best,
			HasBest:   hasBest,
			Cells:     make([]ComparisonCell, 0, len(selected)),
		}
		for _, name := range selected {
			cell := ComparisonCell{PolicyName: name}
			if set, ok := data[name]; ok {
				cell.Value, _ = spec.Extract(set)
			}
			cell.Style = Highlight(cell.Value, best, hasBest)
			row.Cells = append(row.Cells, cell)
		}
		cmp.Rows = append(cmp.Rows, row)
	}
	return cmp
}

func bestPrePost(policies []models.NamedFeatureSet) (string, bool) {
	var winner *models.PolicyFeatureSet
	for i := range policies {
		s := &policies[i].Features
		if s.PreHospitalizationDays == nil || s.PostHospitalizationDays == nil {
			continue
		}
		// strict comparison keeps the first policy on ties
		if winner == nil || *s.PostHospitalizationDays > *winner.PostHospitalizationDays {
			winner = s
		}
	}
	if winner == nil {
		return "", false
	}
	return extractPrePost(*winner)
}

func bestPEDWaiting(policies []models.NamedFeatureSet) (string, bool) {
	found := false
	lowest := 0
	for _, p := range policies {
		if p.Features.PEDWaitingMonths == nil {
			continue
		}
		if m := *p.Features.PEDWaitingMonths; !found || m < lowest {
			lowest = m
			found = true
		}
	}
	if !found {
		return "", false
	}
	return formatMonths(lowest), true
}

func bestPresence(get func(models.PolicyFeatureSet) *bool) func([]models.NamedFeatureSet) (string, bool) {
	return func(policies []models.NamedFeatureSet) (string, bool) {
		for _, p := range policies {
			if v := get(p.Features); v != nil && *v {
				return ValueYes, true
			}
		}
		return "", false
	}
}

func bestRoomRent(policies []models.NamedFeatureSet) (string, bool) {
	for _, rung := range RoomRentLadder {
		for _, p := range policies {
			if p.Features.RoomRentLimit == rung {
				return rung, true
			}
		}
	}
	return "", false
}
