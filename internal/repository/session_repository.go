package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"insure-service/internal/models"

	"github.com/redis/go-redis/v9"
)

// SessionRepository reads sessions written by the sign-in flow.
type SessionRepository interface {
	GetSession(ctx context.Context, sessionID string) (*models.UserSession, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

type sessionRepository struct {
	client *redis.Client
	prefix string
}

func NewSessionRepository(client *redis.Client, prefix string) SessionRepository {
	if prefix == "" {
		prefix = "insure:session:"
	}
	return &sessionRepository{client: client, prefix: prefix}
}

func (r *sessionRepository) GetSession(ctx context.Context, sessionID string) (*models.UserSession, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session: %w", models.ErrNotFound)
	}

	data, err := r.client.Get(ctx, r.getSessionKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("session: %w", models.ErrNotFound)
		}
		return nil, &StoreError{Op: "get session", Cause: err}
	}

	var session models.UserSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	if !session.ExpiresAt.IsZero() && time.Now().After(session.ExpiresAt) {
		_ = r.DeleteSession(ctx, sessionID)
		return nil, fmt.Errorf("session expired: %w", models.ErrNotFound)
	}

	return &session, nil
}

func (r *sessionRepository) DeleteSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := r.client.Del(ctx, r.getSessionKey(sessionID)).Err(); err != nil {
		return &StoreError{Op: "delete session", Cause: err}
	}
	return nil
}

func (r *sessionRepository) getSessionKey(sessionID string) string {
	return r.prefix + sessionID
}
