// Package auth resolves bearer credentials into identities.
//
// Two credential forms are accepted on the Authorization header:
//
//   - Static API keys, marked by the "sk-" prefix, looked up in an
//     active-key registry.
//   - Signed session tokens (JWS, HS256) carrying the subject and an
//     expiry, minted at login.
//
// Resolution is read-only: it never touches quota state. Failures are
// reported through the sentinel errors ErrInvalidToken, ErrTokenExpired,
// ErrKeyNotFound and ErrUserNotFound so callers can map them to
// responses without string matching.
//
// The package also provides the password hashing used at signup/login
// and the RequireAuth middleware that guards authenticated handlers.
package auth
