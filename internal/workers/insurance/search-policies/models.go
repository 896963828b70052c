// internal/workers/insurance/search-policies/models.go
package searchpolicies

import "insurance-workers/internal/models"

type Input struct {
	Keywords string `json:"keywords,omitempty"`
	Category string `json:"category,omitempty"`
	From     int    `json:"from,omitempty"`
	Size     int    `json:"size,omitempty"`
}

type Output struct {
	Policies []models.PolicyRecord `json:"policies"`
	Total    int64                 `json:"total"`
	TookMs   int                   `json:"tookMs"`
}
