package store

import (
	"context"
	"errors"
	"fmt"

	"mercator-hq/janus/pkg/auth"
)

// IdentitySource adapts a Store to the read-only collaborator
// interfaces the credential resolver consumes (auth.IdentityStore and
// auth.KeyRegistry).
type IdentitySource struct {
	store Store
}

// NewIdentitySource wraps store for credential resolution.
func NewIdentitySource(store Store) *IdentitySource {
	return &IdentitySource{store: store}
}

// Identity implements auth.IdentityStore.
func (s *IdentitySource) Identity(ctx context.Context, subjectID string) (*auth.Identity, error) {
	user, err := s.store.UserByID(ctx, subjectID)
	if errors.Is(err, ErrNotFound) {
		return nil, auth.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("identity lookup: %w", err)
	}

	return &auth.Identity{
		SubjectID: user.ID,
		Tier:      user.Tier,
		Email:     user.Email,
	}, nil
}

// LookupKey implements auth.KeyRegistry.
func (s *IdentitySource) LookupKey(ctx context.Context, key string) (string, bool, error) {
	record, err := s.store.APIKeyByValue(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return "", false, auth.ErrKeyNotFound
	}
	if err != nil {
		return "", false, fmt.Errorf("api key lookup: %w", err)
	}

	return record.UserID, record.Active, nil
}
