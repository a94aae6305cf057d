package identity

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// CodeStore holds one-time sign-in code hashes keyed by email, with a TTL.
// Take removes the entry so a code can be redeemed once.
type CodeStore interface {
	Put(ctx context.Context, email, codeHash string, ttl time.Duration) error
	Take(ctx context.Context, email string) (codeHash string, ok bool, err error)
}

type memoryEntry struct {
	hash      string
	expiresAt time.Time
}

// MemoryCodeStore is an in-memory CodeStore suitable for single-instance
// deployment. For multi-instance, use the Redis store.
type MemoryCodeStore struct {
	mu   sync.Mutex
	data map[string]memoryEntry
}

func NewMemoryCodeStore() *MemoryCodeStore {
	return &MemoryCodeStore{data: make(map[string]memoryEntry)}
}

func (s *MemoryCodeStore) Put(ctx context.Context, email, codeHash string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[email] = memoryEntry{hash: codeHash, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryCodeStore) Take(ctx context.Context, email string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data[email]
	if !ok {
		return "", false, nil
	}
	delete(s.data, email)
	if time.Now().After(e.expiresAt) {
		return "", false, nil
	}
	return e.hash, true, nil
}

// RedisCodeStore stores code hashes in Redis with the TTL handled server-side.
type RedisCodeStore struct {
	client *redis.Client
}

func NewRedisCodeStore(client *redis.Client) *RedisCodeStore {
	return &RedisCodeStore{client: client}
}

func (s *RedisCodeStore) key(email string) string { return "otp:" + email }

func (s *RedisCodeStore) Put(ctx context.Context, email, codeHash string, ttl time.Duration) error {
	return s.client.Set(ctx, s.key(email), codeHash, ttl).Err()
}

func (s *RedisCodeStore) Take(ctx context.Context, email string) (string, bool, error) {
	hash, err := s.client.GetDel(ctx, s.key(email)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return hash, true, nil
}

var (
	_ CodeStore = (*MemoryCodeStore)(nil)
	_ CodeStore = (*RedisCodeStore)(nil)
)
