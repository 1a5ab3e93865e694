package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2/log"
)

const (
	keyPrefix     = "revoked:"
	userKeyPrefix = "revoked-user:"
)

type (
	// Store remembers logged out tokens and deleted users until their
	// tokens would have expired anyway.
	Store interface {
		Revoke(ctx context.Context, token string, ttl time.Duration) error
		IsRevoked(ctx context.Context, token string) (bool, error)
		RevokeUser(ctx context.Context, userID string, ttl time.Duration) error
		IsUserRevoked(ctx context.Context, userID string) (bool, error)
	}

	redisStore struct {
		client *redis.Client
	}

	memoryStore struct {
		mu      sync.Mutex
		revoked map[string]time.Time
		now     func() time.Time
	}
)

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return keyPrefix + hex.EncodeToString(sum[:])
}

func userKey(userID string) string {
	return userKeyPrefix + userID
}

func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	return s.mark(ctx, tokenKey(token), ttl)
}

func (s *redisStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	return s.marked(ctx, tokenKey(token))
}

func (s *redisStore) RevokeUser(ctx context.Context, userID string, ttl time.Duration) error {
	return s.mark(ctx, userKey(userID), ttl)
}

func (s *redisStore) IsUserRevoked(ctx context.Context, userID string) (bool, error) {
	return s.marked(ctx, userKey(userID))
}

func (s *redisStore) mark(ctx context.Context, key string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, key, 1, ttl).Err(); err != nil {
		log.Errorf("error revoking %s in redis: %v", key, err)
		return err
	}
	return nil
}

func (s *redisStore) marked(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		log.Errorf("error checking %s in redis: %v", key, err)
		return false, err
	}
	return n > 0, nil
}

func NewMemoryStore() Store {
	return &memoryStore{
		revoked: map[string]time.Time{},
		now:     time.Now,
	}
}

func (s *memoryStore) Revoke(_ context.Context, token string, ttl time.Duration) error {
	s.mark(tokenKey(token), ttl)
	return nil
}

func (s *memoryStore) IsRevoked(_ context.Context, token string) (bool, error) {
	return s.marked(tokenKey(token)), nil
}

func (s *memoryStore) RevokeUser(_ context.Context, userID string, ttl time.Duration) error {
	s.mark(userKey(userID), ttl)
	return nil
}

func (s *memoryStore) IsUserRevoked(_ context.Context, userID string) (bool, error) {
	return s.marked(userKey(userID)), nil
}

func (s *memoryStore) mark(key string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, until := range s.revoked {
		if !until.After(now) {
			delete(s.revoked, k)
		}
	}
	s.revoked[key] = now.Add(ttl)
}

func (s *memoryStore) marked(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	until, ok := s.revoked[key]
	return ok && until.After(s.now())
}
