// internal/workers/insurance/search-policies/config.go
package searchpolicies

import "time"

type Config struct {
	Timeout time.Duration
	Index   string
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
		Index:   "policies",
	}
}
