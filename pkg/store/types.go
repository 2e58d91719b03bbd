package store

import (
	"context"
	"errors"
	"time"

	"mercator-hq/janus/pkg/quota"
)

// User is a registered account.
type User struct {
	// ID is the opaque subject identifier.
	ID string

	// Email is the login identifier, unique across users.
	Email string

	// HashedPassword is the bcrypt hash of the login password.
	HashedPassword string

	// Tier sizes the user's quota.
	Tier quota.Tier

	// CreatedAt is when the account was created.
	CreatedAt time.Time
}

// APIKey is an issued static credential owned by a user.
type APIKey struct {
	// ID identifies the key record.
	ID string

	// Key is the secret credential value ("sk-..." format).
	Key string

	// UserID is the owning user.
	UserID string

	// Name is a user-chosen label.
	Name string

	// Active reports whether the key is accepted for authentication.
	Active bool

	// CreatedAt is when the key was issued.
	CreatedAt time.Time
}

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail indicates the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
)

// Store persists accounts and API keys. Implementations must be safe
// for concurrent use.
type Store interface {
	// CreateUser registers a new account. Returns ErrDuplicateEmail if
	// the email is taken.
	CreateUser(ctx context.Context, email, hashedPassword string, tier quota.Tier) (*User, error)

	// UserByEmail returns the user with the given email, or ErrNotFound.
	UserByEmail(ctx context.Context, email string) (*User, error)

	// UserByID returns the user with the given ID, or ErrNotFound.
	UserByID(ctx context.Context, id string) (*User, error)

	// CreateAPIKey issues a key for a user. The key value is minted by
	// the caller.
	CreateAPIKey(ctx context.Context, userID, name, key string) (*APIKey, error)

	// APIKeyByValue returns the key record for the secret value, or
	// ErrNotFound. Inactive keys are returned with Active=false.
	APIKeyByValue(ctx context.Context, key string) (*APIKey, error)

	// Close releases resources held by the store.
	Close() error
}
