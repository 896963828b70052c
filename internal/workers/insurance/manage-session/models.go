// internal/workers/insurance/manage-session/models.go
package managesession

import "insurance-workers/internal/models"

const (
	ActionLogin  = "login"
	ActionGet    = "get"
	ActionLogout = "logout"
)

type Input struct {
	Action   string `json:"action"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
	Name     string `json:"name,omitempty"`
	Token    string `json:"token,omitempty"`
}

type Output struct {
	Session       *models.Session `json:"session"`
	Authenticated bool            `json:"authenticated"`
}
