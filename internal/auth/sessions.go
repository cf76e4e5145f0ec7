package auth

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionRegistry tracks which tokens are currently live. A token that
// validates cryptographically but has no live entry is treated as invalid:
// revocation overrides the token's own expiry claim.
type SessionRegistry interface {
	Open(ctx context.Context, token, subject string, ttl time.Duration) error
	Close(ctx context.Context, token string) error
	IsLive(ctx context.Context, token string) (bool, error)
	Sweep(ctx context.Context) error
}

type memorySession struct {
	subject   string
	expiresAt time.Time
}

// MemorySessionRegistry keeps live sessions in a mutex-guarded map.
type MemorySessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]memorySession
}

// NewMemorySessionRegistry builds an empty registry.
func NewMemorySessionRegistry() *MemorySessionRegistry {
	return &MemorySessionRegistry{sessions: make(map[string]memorySession)}
}

// Open records a live session.
func (r *MemorySessionRegistry) Open(_ context.Context, token, subject string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[token] = memorySession{subject: subject, expiresAt: time.Now().Add(ttl)}
	return nil
}

// Close removes the entry; idempotent.
func (r *MemorySessionRegistry) Close(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	return nil
}

// IsLive reports whether the token has an unexpired live entry. Expired
// entries are removed lazily on first check.
func (r *MemorySessionRegistry) IsLive(_ context.Context, token string) (bool, error) {
	r.mu.RLock()
	session, ok := r.sessions[token]
	r.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if time.Now().After(session.expiresAt) {
		r.mu.Lock()
		delete(r.sessions, token)
		r.mu.Unlock()
		return false, nil
	}
	return true, nil
}

// Sweep removes expired entries to bound memory.
func (r *MemorySessionRegistry) Sweep(_ context.Context) error {
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	for token, session := range r.sessions {
		if now.After(session.expiresAt) {
			delete(r.sessions, token)
		}
	}
	return nil
}

// Len returns the number of live entries.
func (r *MemorySessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

const sessionKeyPrefix = "session:"

// RedisSessionRegistry stores live sessions as TTL-bearing Redis keys, so
// multiple instances share one revocation authority.
type RedisSessionRegistry struct {
	client *redis.Client
}

// NewRedisSessionRegistry wraps a connected client.
func NewRedisSessionRegistry(client *redis.Client) *RedisSessionRegistry {
	return &RedisSessionRegistry{client: client}
}

// Open records a live session keyed by token.
func (r *RedisSessionRegistry) Open(ctx context.Context, token, subject string, ttl time.Duration) error {
	return r.client.Set(ctx, sessionKeyPrefix+token, subject, ttl).Err()
}

// Close removes the entry; idempotent.
func (r *RedisSessionRegistry) Close(ctx context.Context, token string) error {
	return r.client.Del(ctx, sessionKeyPrefix+token).Err()
}

// IsLive reports whether the token key still exists.
func (r *RedisSessionRegistry) IsLive(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Sweep is a no-op: Redis expires session keys on its own.
func (r *RedisSessionRegistry) Sweep(_ context.Context) error {
	return nil
}
