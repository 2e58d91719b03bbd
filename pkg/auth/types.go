package auth

import (
	"context"
	"errors"

	"mercator-hq/janus/pkg/quota"
)

// Identity is a resolved caller: an opaque subject plus the tier that
// sizes its quota. Identities are scoped to a single request and never
// shared across requests.
type Identity struct {
	// SubjectID is the opaque account identifier.
	SubjectID string

	// Tier selects the per-subject quota capacity.
	Tier quota.Tier

	// Email is informational only; admission control never reads it.
	Email string
}

// Credential resolution failures. These surface as 401 from
// authenticated handlers; the admission gate never surfaces them.
var (
	// ErrInvalidToken indicates a malformed or badly signed session token.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired indicates a well-formed session token past its expiry.
	ErrTokenExpired = errors.New("token expired")

	// ErrKeyNotFound indicates an API key that is unknown or inactive.
	ErrKeyNotFound = errors.New("api key not found")

	// ErrUserNotFound indicates a subject that no longer resolves to an
	// account.
	ErrUserNotFound = errors.New("user not found")
)

// IdentityStore looks up accounts by subject. Owned by the account
// subsystem; implementations are read-only from this package's view.
type IdentityStore interface {
	// Identity returns the identity for subjectID, or ErrUserNotFound.
	Identity(ctx context.Context, subjectID string) (*Identity, error)
}

// KeyRegistry looks up static API keys.
type KeyRegistry interface {
	// LookupKey returns the owning subject and whether the key is
	// active. Absent keys return ErrKeyNotFound.
	LookupKey(ctx context.Context, key string) (subjectID string, active bool, err error)
}
