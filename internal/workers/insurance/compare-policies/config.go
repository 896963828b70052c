// internal/workers/insurance/compare-policies/config.go
package comparepolicies

import "time"

type Config struct {
	Timeout time.Duration
	// RequireKnownPolicies fails the job with POLICY_NOT_FOUND instead of
	// rendering empty columns for unknown names.
	RequireKnownPolicies bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
