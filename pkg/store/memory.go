package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"mercator-hq/janus/pkg/quota"
)

// MemoryStore implements Store with in-process maps. All data is lost
// when the process exits; intended for tests and throwaway deployments.
type MemoryStore struct {
	mu           sync.RWMutex
	usersByID    map[string]*User
	usersByEmail map[string]*User
	keysByValue  map[string]*APIKey
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		usersByID:    make(map[string]*User),
		usersByEmail: make(map[string]*User),
		keysByValue:  make(map[string]*APIKey),
	}
}

// CreateUser implements Store.
func (m *MemoryStore) CreateUser(ctx context.Context, email, hashedPassword string, tier quota.Tier) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.usersByEmail[email]; ok {
		return nil, ErrDuplicateEmail
	}

	user := &User{
		ID:             uuid.NewString(),
		Email:          email,
		HashedPassword: hashedPassword,
		Tier:           tier,
		CreatedAt:      time.Now().UTC(),
	}
	m.usersByID[user.ID] = user
	m.usersByEmail[user.Email] = user

	clone := *user
	return &clone, nil
}

// UserByEmail implements Store.
func (m *MemoryStore) UserByEmail(ctx context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.usersByEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *user
	return &clone, nil
}

// UserByID implements Store.
func (m *MemoryStore) UserByID(ctx context.Context, id string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.usersByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *user
	return &clone, nil
}

// CreateAPIKey implements Store.
func (m *MemoryStore) CreateAPIKey(ctx context.Context, userID, name, key string) (*APIKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record := &APIKey{
		ID:        uuid.NewString(),
		Key:       key,
		UserID:    userID,
		Name:      name,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	m.keysByValue[key] = record

	clone := *record
	return &clone, nil
}

// APIKeyByValue implements Store.
func (m *MemoryStore) APIKeyByValue(ctx context.Context, key string) (*APIKey, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.keysByValue[key]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *record
	return &clone, nil
}

// SetKeyActive flips a key's active flag. Used by tests to exercise
// revoked-key paths.
func (m *MemoryStore) SetKeyActive(key string, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if record, ok := m.keysByValue[key]; ok {
		record.Active = active
	}
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	return nil
}
