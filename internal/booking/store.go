package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore loads and saves wizard sessions.
type SessionStore interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// RedisSessionStore keeps sessions as JSON with a sliding TTL.
type RedisSessionStore struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisSessionStore creates a session store. A non-positive ttl means
// two hours.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	if client == nil {
		panic("booking: redis client required")
	}
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &RedisSessionStore{redis: client, ttl: ttl}
}

func (s *RedisSessionStore) key(id string) string {
	return fmt.Sprintf("booking:session:%s", id)
}

// Get retrieves a session.
func (s *RedisSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.redis.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("booking: get session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("booking: unmarshal session: %w", err)
	}
	return &session, nil
}

// Save writes the session and refreshes its TTL.
func (s *RedisSessionStore) Save(ctx context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("booking: marshal session: %w", err)
	}
	if err := s.redis.Set(ctx, s.key(session.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("booking: set session: %w", err)
	}
	return nil
}

// Delete removes a session.
func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	n, err := s.redis.Del(ctx, s.key(id)).Result()
	if err != nil {
		return fmt.Errorf("booking: delete session: %w", err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

var _ SessionStore = (*RedisSessionStore)(nil)
