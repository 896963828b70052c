package managesession

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurance-workers/internal/common/errors"
	"insurance-workers/internal/common/logger"
	"insurance-workers/internal/session"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{Timeout: time.Second}
}

func createTestHandler(t *testing.T) (*Handler, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repo := session.NewRedisRepository(client, time.Hour)
	return NewHandler(createTestConfig(), repo, logger.NewTestLogger(t)), mr
}

func requireCode(t *testing.T, err error, code errors.ErrorCode) {
	t.Helper()
	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr), "expected StandardError, got %v", err)
	assert.Equal(t, code, stdErr.Code)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_SessionLifecycle(t *testing.T) {
	handler, mr := createTestHandler(t)
	ctx := context.Background()

	login, err := handler.Execute(ctx, &Input{Action: ActionLogin, Email: "Priya@Example.com", Password: "secret"})
	require.NoError(t, err)
	require.NotNil(t, login.Session)
	assert.True(t, login.Authenticated)
	assert.Equal(t, "priya@example.com", login.Session.Email)
	assert.Equal(t, "priya", login.Session.Name)
	assert.True(t, mr.Exists("session:"+login.Session.Token))

	got, err := handler.Execute(ctx, &Input{Action: ActionGet, Token: login.Session.Token})
	require.NoError(t, err)
	assert.Equal(t, login.Session.Email, got.Session.Email)

	logout, err := handler.Execute(ctx, &Input{Action: ActionLogout, Token: login.Session.Token})
	require.NoError(t, err)
	assert.False(t, logout.Authenticated)
	assert.Nil(t, logout.Session)
	assert.False(t, mr.Exists("session:"+login.Session.Token))

	_, err = handler.Execute(ctx, &Input{Action: ActionGet, Token: login.Session.Token})
	requireCode(t, err, errors.ErrCodeSessionNotFound)
}

func TestHandler_Execute_ExpiredSession(t *testing.T) {
	handler, mr := createTestHandler(t)
	ctx := context.Background()

	login, err := handler.Execute(ctx, &Input{Action: ActionLogin, Email: "a@b.co", Password: "x", Name: "Asha"})
	require.NoError(t, err)
	assert.Equal(t, "Asha", login.Session.Name)

	mr.FastForward(2 * time.Hour)

	_, err = handler.Execute(ctx, &Input{Action: ActionGet, Token: login.Session.Token})
	requireCode(t, err, errors.ErrCodeSessionNotFound)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    *Input
		wantCode errors.ErrorCode
	}{
		{"malformed email", &Input{Action: ActionLogin, Email: "not-an-email", Password: "x"}, errors.ErrCodeAuthenticationFailed},
		{"empty password", &Input{Action: ActionLogin, Email: "a@b.co"}, errors.ErrCodeAuthenticationFailed},
		{"get without token", &Input{Action: ActionGet}, errors.ErrCodeInvalidInput},
		{"logout without token", &Input{Action: ActionLogout, Token: " "}, errors.ErrCodeInvalidInput},
		{"unknown token", &Input{Action: ActionGet, Token: "not-a-uuid"}, errors.ErrCodeSessionNotFound},
		{"unknown action", &Input{Action: "refresh"}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := createTestHandler(t)
			_, err := handler.Execute(context.Background(), tt.input)
			requireCode(t, err, tt.wantCode)
		})
	}
}

func TestHandler_Execute_StoreUnavailable(t *testing.T) {
	handler, mr := createTestHandler(t)
	mr.Close()

	_, err := handler.Execute(context.Background(), &Input{Action: ActionLogin, Email: "a@b.co", Password: "x"})
	requireCode(t, err, errors.ErrCodeSessionStoreFailed)
}
