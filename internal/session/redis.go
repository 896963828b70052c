package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"insurance-workers/internal/models"
)

const keyPrefix = "session:"

// RedisRepository keeps sessions as JSON values that expire with the session.
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

func NewRedisRepository(client *redis.Client, ttl time.Duration) *RedisRepository {
	return &RedisRepository{client: client, ttl: ttl, now: time.Now}
}

func (r *RedisRepository) Create(ctx context.Context, email, name string) (*models.Session, error) {
	now := r.now().UTC()
	s := &models.Session{
		Token:     uuid.NewString(),
		Email:     email,
		Name:      name,
		CreatedAt: now,
		ExpiresAt: now.Add(r.ttl),
	}

	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	if err := r.client.Set(ctx, keyPrefix+s.Token, data, r.ttl).Err(); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return s, nil
}

func (r *RedisRepository) Get(ctx context.Context, token string) (*models.Session, error) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, ErrNotFound
	}

	data, err := r.client.Get(ctx, keyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var s models.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if r.now().After(s.ExpiresAt) {
		return nil, ErrNotFound
	}
	return &s, nil
}

// Delete removes the session. Deleting an unknown token is not an error.
func (r *RedisRepository) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
