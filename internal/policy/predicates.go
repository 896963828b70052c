package policy

import (
	"strings"

	"insurance-workers/internal/models"
)

// The predicates below are coarse name/category heuristics over a curated
// catalog. They are kept separate from the filter pipeline so a tag-based
// matcher can replace them without touching Recommend.

// IsSeniorPolicy matches senior products by category or by "Senior" in the name.
func IsSeniorPolicy(p models.PolicyRecord) bool {
	return p.Category == models.CategorySenior || strings.Contains(p.Name, "Senior")
}

// IsMaternityPolicy matches maternity products or any policy listing a maternity feature.
func IsMaternityPolicy(p models.PolicyRecord) bool {
	if p.Category == models.CategoryMaternity {
		return true
	}
	for _, f := range p.Features {
		if strings.Contains(strings.ToLower(f), "maternity") {
			return true
		}
	}
	return false
}

// IsDiabetesFriendly matches diabetes-specific products and individual plans.
func IsDiabetesFriendly(p models.PolicyRecord) bool {
	return strings.Contains(p.Name, "Diabetes") || p.Category == models.CategoryIndividual
}

// IsSeniorBucket reports the 65+ age bucket.
func IsSeniorBucket(ageRange string) bool {
	return ageRange == models.AgeRange65Plus
}

// IsYoungAdultBucket reports the 18-35 bucket and its finer 18-25 and 26-35 splits.
func IsYoungAdultBucket(ageRange string) bool {
	switch ageRange {
	case models.AgeRange18To25, models.AgeRange26To35, models.AgeRange18To35:
		return true
	}
	return false
}

// IsFemale compares case-insensitively, ignoring surrounding space.
func IsFemale(gender string) bool {
	return strings.EqualFold(strings.TrimSpace(gender), models.GenderFemale)
}

// ValidCategory reports whether c is one of models.Categories.
func ValidCategory(c models.Category) bool {
	for _, known := range models.Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ValidAgeRange reports whether ageRange is a wizard bucket.
func ValidAgeRange(ageRange string) bool {
	switch ageRange {
	case models.AgeRange18To25, models.AgeRange26To35, models.AgeRange18To35,
		models.AgeRange36To50, models.AgeRange51To65, models.AgeRange65Plus:
		return true
	}
	return false
}

// ValidGender accepts Male, Female and Other exactly.
func ValidGender(gender string) bool {
	switch gender {
	case models.GenderMale, models.GenderFemale, models.GenderOther:
		return true
	}
	return false
}
