// internal/models/policy.go
package models

// Category classifies a policy product.
type Category string

const (
	CategoryIndividual Category = "Individual"
	CategoryFamily     Category = "Family"
	CategorySenior     Category = "Senior"
	CategoryCritical   Category = "Critical"
	CategoryMaternity  Category = "Maternity"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategoryIndividual,
	CategoryFamily,
	CategorySenior,
	CategoryCritical,
	CategoryMaternity,
}

// PolicyRecord is one insurance product. Premium and Coverage are kept in their
// display form ("₹18,500"); numeric work goes through policy.ParseAmount.
type PolicyRecord struct {
	ID       string   `json:"id" yaml:"id" db:"id"`
	Name     string   `json:"name" yaml:"name" db:"name"`
	Company  string   `json:"company" yaml:"company" db:"company"`
	Category Category `json:"category" yaml:"category" db:"category"`
	Premium  string   `json:"premium" yaml:"premium" db:"premium"`
	Coverage string   `json:"coverage" yaml:"coverage" db:"coverage"`
	Features []string `json:"features" yaml:"features" db:"features"`
	Tags     []string `json:"tags" yaml:"tags" db:"tags"`
	Rating   float64  `json:"rating" yaml:"rating" db:"rating"`
	Reviews  int      `json:"reviews" yaml:"reviews" db:"reviews"`

	// Recommended is only ever set on copies returned by the recommendation filter.
	Recommended bool `json:"recommended,omitempty" yaml:"-" db:"-"`
}

// Clone returns a copy that shares no slices with p.
func (p PolicyRecord) Clone() PolicyRecord {
	out := p
	if p.Features != nil {
		out.Features = append([]string(nil), p.Features...)
	}
	if p.Tags != nil {
		out.Tags = append([]string(nil), p.Tags...)
	}
	return out
}

// HasTag reports whether the policy carries the given marketing tag.
func (p PolicyRecord) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
