// internal/models/notification.go
package models

type Notification struct {
	ID        string `json:"id"`
	Recipient string `json:"recipient"`
	Channel   string `json:"channel"` // "email", "sms"
	Status    string `json:"status"`  // "sent", "failed", "disabled"
	Subject   string `json:"subject,omitempty"`
	Body      string `json:"body"`
	SentAt    string `json:"sentAt,omitempty"`
}
