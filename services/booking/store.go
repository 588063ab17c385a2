package booking

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// TokenStore records consumed booking tokens. Consume must be atomic
// compare-and-insert: it returns true when the token was already present.
// Used is the read-only membership check, reported before any other
// verification so a replayed token is always rejected as used.
type TokenStore interface {
	Consume(ctx context.Context, token string) (alreadyUsed bool, err error)
	Used(ctx context.Context, token string) (bool, error)
}

// MemoryTokenStore keeps consumed tokens in process memory. Suitable for
// mock mode and single-instance deployments.
type MemoryTokenStore struct {
	mu   sync.Mutex
	used map[string]struct{}
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{used: make(map[string]struct{})}
}

func (s *MemoryTokenStore) Consume(ctx context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.used[token]; ok {
		return true, nil
	}
	s.used[token] = struct{}{}
	return false, nil
}

func (s *MemoryTokenStore) Used(ctx context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.used[token]
	return ok, nil
}

// RedisTokenStore records consumed tokens in Redis so single-use holds
// across instances. Entries expire once the token itself could no longer
// verify anyway.
type RedisTokenStore struct {
	Client    *redis.Client
	Retention time.Duration
}

const usedTokenPrefix = "usedBookingToken:"

func (s *RedisTokenStore) Consume(ctx context.Context, token string) (bool, error) {
	retention := s.Retention
	if retention <= 0 {
		retention = time.Hour
	}
	inserted, err := s.Client.SetNX(ctx, usedTokenKey(token), 1, retention).Result()
	if err != nil {
		return false, err
	}
	return !inserted, nil
}

func (s *RedisTokenStore) Used(ctx context.Context, token string) (bool, error) {
	n, err := s.Client.Exists(ctx, usedTokenKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// usedTokenKey hashes the token so raw credentials never land in the store.
func usedTokenKey(token string) string {
	digest := sha256.Sum256([]byte(token))
	return usedTokenPrefix + hex.EncodeToString(digest[:])
}
