package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"insurance-workers/internal/models"
)

//go:embed seed.yaml
var seedYAML []byte

type seedFile struct {
	Policies  []models.PolicyRecord              `yaml:"policies"`
	Features  map[string]models.PolicyFeatureSet `yaml:"features"`
	Companies []models.CompanyFinancials         `yaml:"companies"`
}

// SeedRepository serves a catalog held in memory. It is read-only and safe for
// concurrent use.
type SeedRepository struct {
	policies  []models.PolicyRecord
	features  map[string]models.PolicyFeatureSet
	companies map[string]models.CompanyFinancials
}

// NewSeedRepository loads the catalog compiled into the binary.
func NewSeedRepository() (*SeedRepository, error) {
	return ParseSeed(seedYAML)
}

// LoadSeedFile loads a catalog with the same layout as the embedded seed.
func LoadSeedFile(path string) (*SeedRepository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return ParseSeed(data)
}

func ParseSeed(data []byte) (*SeedRepository, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	seen := make(map[string]bool, len(f.Policies))
	for i, p := range f.Policies {
		if p.ID == "" || p.Name == "" {
			return nil, fmt.Errorf("policy #%d: id and name are required", i)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("policy %s: duplicate id", p.ID)
		}
		seen[p.ID] = true
	}

	repo := &SeedRepository{
		policies:  f.Policies,
		features:  f.Features,
		companies: make(map[string]models.CompanyFinancials, len(f.Companies)),
	}
	if repo.features == nil {
		repo.features = map[string]models.PolicyFeatureSet{}
	}
	for _, c := range f.Companies {
		repo.companies[companyKey(c.Company)] = c
	}
	return repo, nil
}

func (r *SeedRepository) ListPolicies(_ context.Context) ([]models.PolicyRecord, error) {
	out := make([]models.PolicyRecord, len(r.policies))
	for i, p := range r.policies {
		out[i] = p.Clone()
	}
	return out, nil
}

func (r *SeedRepository) FeatureSets(_ context.Context, names []string) (map[string]models.PolicyFeatureSet, error) {
	out := make(map[string]models.PolicyFeatureSet, len(names))
	for _, n := range names {
		if set, ok := r.features[n]; ok {
			out[n] = set
		}
	}
	return out, nil
}

func (r *SeedRepository) CompanyFinancials(_ context.Context, company string) (*models.CompanyFinancials, error) {
	c, ok := r.companies[companyKey(company)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCompanyNotFound, company)
	}
	return &c, nil
}

// Companies lists the insurers with a financial analysis, in seed order.
func (r *SeedRepository) Companies() []string {
	out := make([]string, 0, len(r.companies))
	for _, p := range r.policies {
		if _, ok := r.companies[companyKey(p.Company)]; ok && !contains(out, p.Company) {
			out = append(out, p.Company)
		}
	}
	return out
}

func companyKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
