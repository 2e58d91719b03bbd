package auth

import (
	"context"
	"fmt"
)

// Resolver turns a raw bearer credential into an Identity. It performs
// read-only lookups and never mutates quota state.
type Resolver struct {
	identities IdentityStore
	keys       KeyRegistry
	tokens     *TokenService
}

// NewResolver creates a Resolver over the given collaborators.
func NewResolver(identities IdentityStore, keys KeyRegistry, tokens *TokenService) *Resolver {
	return &Resolver{
		identities: identities,
		keys:       keys,
		tokens:     tokens,
	}
}

// Resolve maps a bearer credential to an Identity.
//
// Credentials with the static key prefix are looked up in the key
// registry; everything else is verified as a signed session token.
// Failures return one of the package's sentinel errors, possibly
// wrapped.
func (r *Resolver) Resolve(ctx context.Context, credential string) (*Identity, error) {
	if IsAPIKey(credential) {
		return r.resolveAPIKey(ctx, credential)
	}
	return r.resolveSessionToken(ctx, credential)
}

func (r *Resolver) resolveAPIKey(ctx context.Context, key string) (*Identity, error) {
	subject, active, err := r.keys.LookupKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, fmt.Errorf("%w: key disabled", ErrKeyNotFound)
	}

	identity, err := r.identities.Identity(ctx, subject)
	if err != nil {
		return nil, err
	}
	return identity, nil
}

func (r *Resolver) resolveSessionToken(ctx context.Context, raw string) (*Identity, error) {
	subject, err := r.tokens.Verify(raw)
	if err != nil {
		return nil, err
	}

	identity, err := r.identities.Identity(ctx, subject)
	if err != nil {
		return nil, err
	}
	return identity, nil
}
