package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hobbyforge/storefront/internal/domain"
	"github.com/hobbyforge/storefront/internal/ports"
)

// RedisKeyValue is a scoped key-value store over Redis. Session-scoped keys
// are namespaced by the browsing-session id and expire with the session TTL,
// so they outlive neither the session nor a sign-in/sign-out cycle within
// it. Persistent keys have no expiry. Memory-scoped keys never leave the
// process.
type RedisKeyValue struct {
	client     *redis.Client
	sessionID  string
	sessionTTL time.Duration

	mu  sync.Mutex
	mem map[string][]byte
}

func NewRedisKeyValue(client *redis.Client, sessionID string, sessionTTL time.Duration) *RedisKeyValue {
	if sessionTTL <= 0 {
		sessionTTL = 30 * time.Minute
	}
	return &RedisKeyValue{
		client:     client,
		sessionID:  sessionID,
		sessionTTL: sessionTTL,
		mem:        make(map[string][]byte),
	}
}

func (s *RedisKeyValue) redisKey(scope ports.Scope, key string) string {
	if scope == ports.ScopeSession {
		return fmt.Sprintf("storefront:session:%s:%s", s.sessionID, key)
	}
	return "storefront:persistent:" + key
}

func (s *RedisKeyValue) Get(ctx context.Context, scope ports.Scope, key string) ([]byte, bool, error) {
	if scope == ports.ScopeMemory {
		s.mu.Lock()
		defer s.mu.Unlock()
		value, found := s.mem[key]
		return value, found, nil
	}
	raw, err := s.client.Get(ctx, s.redisKey(scope, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: kv get: %v", domain.ErrStorageUnavailable, err)
	}
	return raw, true, nil
}

func (s *RedisKeyValue) Set(ctx context.Context, scope ports.Scope, key string, value []byte) error {
	if scope == ports.ScopeMemory {
		s.mu.Lock()
		s.mem[key] = value
		s.mu.Unlock()
		return nil
	}
	ttl := time.Duration(0)
	if scope == ports.ScopeSession {
		ttl = s.sessionTTL
	}
	if err := s.client.Set(ctx, s.redisKey(scope, key), value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: kv set: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *RedisKeyValue) Delete(ctx context.Context, scope ports.Scope, key string) error {
	if scope == ports.ScopeMemory {
		s.mu.Lock()
		delete(s.mem, key)
		s.mu.Unlock()
		return nil
	}
	if err := s.client.Del(ctx, s.redisKey(scope, key)).Err(); err != nil {
		return fmt.Errorf("%w: kv delete: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}
