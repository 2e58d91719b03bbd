package auth

import (
	"errors"
	"fmt"
	"time"

	jose "github.com/go-jose/go-jose/v3"
	"github.com/go-jose/go-jose/v3/jwt"
)

// DefaultTokenTTL is the session token lifetime when none is configured.
const DefaultTokenTTL = 30 * time.Minute

// TokenService mints and verifies signed session tokens. Tokens are
// compact JWS (HS256) carrying the subject and an expiry.
type TokenService struct {
	secret []byte
	ttl    time.Duration

	// now is the clock; swapped out by expiry tests.
	now func() time.Time
}

// NewTokenService creates a TokenService signing with secret. A zero
// ttl falls back to DefaultTokenTTL.
func NewTokenService(secret []byte, ttl time.Duration) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("signing secret cannot be empty")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	return &TokenService{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue mints a session token for subjectID.
func (s *TokenService) Issue(subjectID string) (string, error) {
	if subjectID == "" {
		return "", fmt.Errorf("subject cannot be empty")
	}

	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: s.secret},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create signer: %w", err)
	}

	now := s.now()
	claims := jwt.Claims{
		Subject:  subjectID,
		IssuedAt: jwt.NewNumericDate(now),
		Expiry:   jwt.NewNumericDate(now.Add(s.ttl)),
	}

	raw, err := jwt.Signed(signer).Claims(claims).CompactSerialize()
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return raw, nil
}

// Verify checks signature and expiry and returns the embedded subject.
// Failures map to ErrInvalidToken or ErrTokenExpired.
func (s *TokenService) Verify(raw string) (string, error) {
	tok, err := jwt.ParseSigned(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var claims jwt.Claims
	if err := tok.Claims(s.secret, &claims); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if err := claims.Validate(jwt.Expected{Time: s.now()}); err != nil {
		if errors.Is(err, jwt.ErrExpired) {
			return "", ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return claims.Subject, nil
}
