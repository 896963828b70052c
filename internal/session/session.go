// Package session stores the mocked shopper login. Any well-formed email with a
// non-empty password is accepted; there is no credential store.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"insurance-workers/internal/models"
)

var (
	ErrNotFound           = errors.New("session not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Repository persists sessions. Expired sessions are reported as ErrNotFound.
type Repository interface {
	Create(ctx context.Context, email, name string) (*models.Session, error)
	Get(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
}

// Credentials is what the login form submits.
type Credentials struct {
	Email    string
	Password string
	Name     string
}

// Authenticate validates credentials the way the mocked login does and
// returns the normalised email and display name.
func Authenticate(c Credentials) (email, name string, err error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(c.Email))
	if err != nil || addr.Name != "" {
		return "", "", fmt.Errorf("%w: malformed email", ErrInvalidCredentials)
	}
	if strings.TrimSpace(c.Password) == "" {
		return "", "", fmt.Errorf("%w: password is required", ErrInvalidCredentials)
	}

	email = strings.ToLower(addr.Address)
	name = strings.TrimSpace(c.Name)
	if name == "" {
		name = email[:strings.Index(email, "@")]
	}
	return email, name, nil
}

// Login authenticates and opens a session.
func Login(ctx context.Context, repo Repository, c Credentials) (*models.Session, error) {
	email, name, err := Authenticate(c)
	if err != nil {
		return nil, err
	}
	return repo.Create(ctx, email, name)
}
