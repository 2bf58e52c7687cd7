package focus

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Repository tracks active focus sessions.
type Repository interface {
	Start(ctx context.Context, s *Session) (bool, error)
	Get(ctx context.Context, sub string) (*Session, error)
	Delete(ctx context.Context, sub string) error
}

// RedisRepository stores active sessions as JSON under "focus:<sub>" with
// TTL = expiresAt - now, so abandoned sessions clean themselves up.
type RedisRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisRepository creates a Redis-based focus repository. Prefix may be empty.
func NewRedisRepository(client *redis.Client, prefix string) *RedisRepository {
	if prefix == "" {
		prefix = "focus:"
	}
	return &RedisRepository{client: client, prefix: prefix}
}

func (r *RedisRepository) key(sub string) string {
	return r.prefix + sub
}

// Start stores the session unless one is already active for the subject.
// Returns false when an active session already exists.
func (r *RedisRepository) Start(ctx context.Context, s *Session) (bool, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return false, err
	}
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}
	return r.client.SetNX(ctx, r.key(s.Sub), b, ttl).Result()
}

func (r *RedisRepository) Get(ctx context.Context, sub string) (*Session, error) {
	b, err := r.client.Get(ctx, r.key(sub)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *RedisRepository) Delete(ctx context.Context, sub string) error {
	return r.client.Del(ctx, r.key(sub)).Err()
}
