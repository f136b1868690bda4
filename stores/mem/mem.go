// Package mem provides in-memory store implementations, suitable for tests
// and zero-configuration development runs. Nothing survives a restart.
package mem

import (
	"context"
	"sync"
	"time"

	"github.com/ackinc/ollert"
)

// UserStore is a mutex-guarded map keyed by username.
type UserStore struct {
	mu    sync.Mutex
	users map[string]ollert.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]ollert.User)}
}

func (s *UserStore) CreateUser(ctx context.Context, user *ollert.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[user.Username]; exists {
		return ollert.ErrDuplicateUsername
	}
	s.users[user.Username] = *user
	return nil
}

func (s *UserStore) GetUser(ctx context.Context, username string) (*ollert.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, exists := s.users[username]
	if !exists {
		return nil, nil
	}
	return &user, nil
}

func (s *UserStore) UpdateUser(ctx context.Context, username string, upd ollert.UserUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, exists := s.users[username]
	if !exists {
		// Matches the durable stores: updating a missing user is a no-op.
		return nil
	}
	if upd.Verified != nil {
		user.Verified = *upd.Verified
	}
	if upd.PasswordHash != nil {
		user.PasswordHash = *upd.PasswordHash
	}
	if upd.Boards != nil {
		user.Boards = *upd.Boards
	}
	s.users[username] = user
	return nil
}

type cacheEntry struct {
	value     string
	expiresAt time.Time
}

// CodeCache is an in-memory TTL cache. Expired entries are dropped lazily on
// read. The clock is injectable so tests can cross expiry without sleeping.
type CodeCache struct {
	// Now returns the current time. Defaults to time.Now
	Now func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

func NewCodeCache() *CodeCache {
	return &CodeCache{entries: make(map[string]cacheEntry)}
}

func (c *CodeCache) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *CodeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, expiresAt: c.now().Add(ttl)}
	return nil
}

func (c *CodeCache) Get(ctx context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, exists := c.entries[key]
	if !exists {
		return "", false, nil
	}
	if !c.now().Before(entry.expiresAt) {
		delete(c.entries, key)
		return "", false, nil
	}
	return entry.value, true, nil
}
