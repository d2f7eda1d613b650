package credstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces credential hashes away from the rate limiter and
// response cache keys sharing the same Redis database.
const keyPrefix = "cred:"

// RedisStore keeps one Redis hash per browser session.  Using a single hash
// means Clear is one DEL and the whole credential set shares one TTL, so a
// session either exists completely or not at all.
type RedisStore struct {
	rdb       *redis.Client
	sessionID string
	ttl       time.Duration
}

// NewRedisStore returns a store scoped to the given browser-session ID.  The
// ttl should match the backend's refresh token lifetime; it is re-armed on
// every write so active sessions do not expire under the user.
func NewRedisStore(rdb *redis.Client, sessionID string, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, sessionID: sessionID, ttl: ttl}
}

func (s *RedisStore) hashKey() string {
	return keyPrefix + s.sessionID
}

// Get reads a single credential field.  A missing hash and a missing field
// both report ok=false.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.rdb.HGet(ctx, s.hashKey(), key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if v == "" {
		return "", false, nil
	}
	return v, true, nil
}

// Set writes a credential field and re-arms the session TTL.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, s.hashKey(), key, value)
	pipe.Expire(ctx, s.hashKey(), s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// Remove deletes a single credential field.
func (s *RedisStore) Remove(ctx context.Context, key string) error {
	return s.rdb.HDel(ctx, s.hashKey(), key).Err()
}

// Clear drops the entire credential hash.  Called on logout and whenever the
// refresh protocol declares the session dead.
func (s *RedisStore) Clear(ctx context.Context) error {
	return s.rdb.Del(ctx, s.hashKey()).Err()
}
