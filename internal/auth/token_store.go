package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const SessionKeyPrefix = "session:"

// TokenStore is the medium that persists a session token per session id.
//
//go:generate mockgen -source=token_store.go -destination=mock/token_store_mock.go -package=mock
type TokenStore interface {
	// Load returns "" with a nil error when nothing is stored.
	Load(ctx context.Context, sid string) (string, error)
	Save(ctx context.Context, sid, token string, ttl time.Duration) error
	// Delete succeeds when nothing is stored.
	Delete(ctx context.Context, sid string) error
}

type redisTokenStore struct {
	rdb *redis.Client
}

func NewRedisTokenStore(rdb *redis.Client) TokenStore {
	return &redisTokenStore{rdb: rdb}
}

func SessionKey(sid string) string {
	return SessionKeyPrefix + sid
}

func (s *redisTokenStore) Load(ctx context.Context, sid string) (string, error) {
	token, err := s.rdb.Get(ctx, SessionKey(sid)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return token, err
}

func (s *redisTokenStore) Save(ctx context.Context, sid, token string, ttl time.Duration) error {
	return s.rdb.Set(ctx, SessionKey(sid), token, ttl).Err()
}

func (s *redisTokenStore) Delete(ctx context.Context, sid string) error {
	return s.rdb.Del(ctx, SessionKey(sid)).Err()
}

type memoryEntry struct {
	token     string
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// memoryTokenStore keeps tokens until they expire. Expired entries are removed
// on Load and swept on Save. Used when no Redis address is configured.
type memoryTokenStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryTokenStore() TokenStore {
	return &memoryTokenStore{entries: make(map[string]memoryEntry), now: time.Now}
}

func (s *memoryTokenStore) Load(_ context.Context, sid string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[sid]
	if !ok {
		return "", nil
	}
	if e.expired(s.now()) {
		delete(s.entries, sid)
		return "", nil
	}
	return e.token, nil
}

func (s *memoryTokenStore) Save(_ context.Context, sid, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, k)
		}
	}

	e := memoryEntry{token: token}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	}
	s.entries[sid] = e
	return nil
}

func (s *memoryTokenStore) Delete(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sid)
	return nil
}
