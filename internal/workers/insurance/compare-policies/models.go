// internal/workers/insurance/compare-policies/models.go
package comparepolicies

import "insurance-workers/internal/policy"

type Input struct {
	PolicyNames []string `json:"policyNames"`
}

type Output struct {
	Comparison      policy.Comparison `json:"comparison"`
	MissingPolicies []string          `json:"missingPolicies"`
}
