package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Lua keeps the capacity check and the upsert in one round trip, so an
// over-capacity registration observes nothing and changes nothing.
const registerScript = `
if redis.call("HEXISTS", KEYS[1], ARGV[1]) == 1 then
  redis.call("HSET", KEYS[1], ARGV[1], ARGV[2])
  return 1
end
local max = tonumber(ARGV[3])
if max > 0 and redis.call("HLEN", KEYS[1]) >= max then
  return 0
end
redis.call("HSET", KEYS[1], ARGV[1], ARGV[2])
return 1
`

var registerLua = redis.NewScript(registerScript)

// RedisStore implements Store on a Redis hash (credentials) and set
// (sessions) under a shared key prefix. It honors the same capacity
// policy as MemoryStore.
type RedisStore struct {
	client        redis.UniversalClient
	prefix        string
	maxIdentities int
}

// NewRedisStore builds a RedisStore. An empty prefix defaults to "vg";
// maxIdentities <= 0 means unbounded.
func NewRedisStore(client redis.UniversalClient, prefix string, maxIdentities int) *RedisStore {
	if prefix == "" {
		prefix = "vg"
	}
	return &RedisStore{
		client:        client,
		prefix:        prefix,
		maxIdentities: maxIdentities,
	}
}

func (s *RedisStore) credentialsKey() string { return s.prefix + ":credentials" }
func (s *RedisStore) sessionsKey() string    { return s.prefix + ":sessions" }

// Register upserts the credential for identity, enforcing the identity
// bound atomically server-side.
func (s *RedisStore) Register(ctx context.Context, identity, encoded string) error {
	res, err := registerLua.Run(ctx, s.client,
		[]string{s.credentialsKey()},
		identity, encoded, s.maxIdentities,
	).Int64()
	if err != nil {
		return NewError(OpRegister, err)
	}
	if res == 0 {
		return NewError(OpRegister, ErrCapacityExceeded)
	}
	return nil
}

// OpenSession adds identity to the session set.
func (s *RedisStore) OpenSession(ctx context.Context, identity string) error {
	if err := s.client.SAdd(ctx, s.sessionsKey(), identity).Err(); err != nil {
		return NewError(OpOpenSession, err)
	}
	return nil
}

// CloseSession removes identity from the session set.
func (s *RedisStore) CloseSession(ctx context.Context, identity string) error {
	if err := s.client.SRem(ctx, s.sessionsKey(), identity).Err(); err != nil {
		return NewError(OpCloseSession, err)
	}
	return nil
}

// FetchCredential returns the stored encoding for identity.
func (s *RedisStore) FetchCredential(ctx context.Context, identity string) (string, bool, error) {
	encoded, err := s.client.HGet(ctx, s.credentialsKey(), identity).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, NewError(OpFetchCredential, err)
	}
	return encoded, true, nil
}

// IsAuthorized reports session-set membership for identity.
func (s *RedisStore) IsAuthorized(ctx context.Context, identity string) (bool, error) {
	ok, err := s.client.SIsMember(ctx, s.sessionsKey(), identity).Result()
	if err != nil {
		return false, NewError(OpIsAuthorized, err)
	}
	return ok, nil
}
