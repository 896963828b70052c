// internal/workers/insurance/send-recommendations/models.go
package sendrecommendations

import "insurance-workers/internal/models"

type Input struct {
	Channel   string                `json:"channel"`
	Recipient string                `json:"recipient"`
	Name      string                `json:"name,omitempty"`
	Policies  []models.PolicyRecord `json:"policies"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"`
	SentAt         string `json:"sentAt"`
}
