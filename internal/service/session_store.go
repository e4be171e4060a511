package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tasktracker/internal/domain"

	redis "github.com/redis/go-redis/v9"
)

// SessionStore tracks live session ids so sign-out can revoke a token before
// it expires.
type SessionStore interface {
	Save(ctx context.Context, s *domain.Session) error
	Exists(ctx context.Context, sessionID string) (bool, error)
	Revoke(ctx context.Context, sessionID string) error
}

// RedisSessionStore keeps one key per session: session:<sid> -> user id,
// expiring together with the token.
type RedisSessionStore struct {
	client *redis.Client
}

// NewSessionStore returns nil when client is nil; a nil store means tokens are
// trusted until they expire.
func NewSessionStore(client *redis.Client) SessionStore {
	if client == nil {
		return nil
	}
	return &RedisSessionStore{client: client}
}

func sessionKey(id string) string {
	return "session:" + id
}

func (s *RedisSessionStore) Save(ctx context.Context, sess *domain.Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session already expired")
	}
	if err := s.client.Set(ctx, sessionKey(sess.ID), sess.UserID.String(), ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w: %w", domain.ErrInternal, err)
	}
	return nil
}

func (s *RedisSessionStore) Exists(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.client.Exists(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("lookup session: %w: %w", domain.ErrInternal, err)
	}
	return n > 0, nil
}

func (s *RedisSessionStore) Revoke(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("revoke session: %w: %w", domain.ErrInternal, err)
	}
	return nil
}
