package gateway

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"mercator-hq/janus/pkg/auth"
	"mercator-hq/janus/pkg/quota"
)

// DefaultExemptPaths lists the paths the gate never throttles: service
// surface pages and the credential endpoints callers need to reach before
// they have a credential.
var DefaultExemptPaths = []string{
	"/",
	"/health",
	"/docs",
	"/openapi.json",
	"/redoc",
	"/v1/auth/login",
	"/v1/auth/signup",
	"/v1/auth/api-keys",
}

// Gate is the admission middleware. All collaborators are injected; a Gate
// holds no global state.
type Gate struct {
	resolver   *auth.Resolver
	controller *quota.Controller
	metrics    *quota.Metrics
	exempt     map[string]struct{}
	logger     *slog.Logger
}

// NewGate creates a Gate. exemptPaths replaces DefaultExemptPaths when
// non-nil; pass an empty non-nil slice to exempt nothing. metrics may be
// nil.
func NewGate(resolver *auth.Resolver, controller *quota.Controller, metrics *quota.Metrics, exemptPaths []string) *Gate {
	if exemptPaths == nil {
		exemptPaths = DefaultExemptPaths
	}
	exempt := make(map[string]struct{}, len(exemptPaths))
	for _, p := range exemptPaths {
		exempt[p] = struct{}{}
	}
	return &Gate{
		resolver:   resolver,
		controller: controller,
		metrics:    metrics,
		exempt:     exempt,
		logger:     slog.Default().With("component", "gateway.gate"),
	}
}

// Wrap returns a handler that runs the admission check before next.
//
// The flow per request:
//
//  1. Exempt path: forward untouched.
//  2. No bearer credential: forward untouched. Authentication, where
//     required, is enforced downstream and will reject the request there.
//  3. Credential resolves and the quota check denies: 429 with rate-limit
//     headers. The handler is never reached.
//  4. Resolution or quota check fails operationally: log, count, forward.
//  5. Admitted: forward with limit/remaining snapshot headers.
func (g *Gate) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := g.exempt[r.URL.Path]; ok {
			next.ServeHTTP(w, r)
			return
		}

		credential := auth.BearerCredential(r)
		if credential == "" {
			next.ServeHTTP(w, r)
			return
		}

		identity, err := g.resolver.Resolve(r.Context(), credential)
		if err != nil {
			g.failOpen(r, "credential resolution failed", err)
			next.ServeHTTP(w, r)
			return
		}

		decision, err := g.controller.Check(r.Context(), identity.SubjectID, identity.Tier)
		if err != nil {
			g.failOpen(r, "quota check failed", err)
			next.ServeHTTP(w, r)
			return
		}

		if !decision.Allowed {
			g.deny(w, r, identity, decision)
			return
		}

		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", decision.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", decision.Remaining))
		next.ServeHTTP(w, r)
	})
}

// failOpen logs an operational failure and forwards the request. The error
// is never surfaced to the client.
func (g *Gate) failOpen(r *http.Request, msg string, err error) {
	g.metrics.RecordFailOpen()
	g.logger.ErrorContext(r.Context(), msg,
		"error", err,
		"path", r.URL.Path,
		"policy", "fail-open",
	)
}

func (g *Gate) deny(w http.ResponseWriter, r *http.Request, identity *auth.Identity, decision quota.Decision) {
	g.logger.InfoContext(r.Context(), "request denied by quota",
		"subject", identity.SubjectID,
		"tier", string(identity.Tier),
		"scope", string(decision.Scope),
		"path", r.URL.Path,
	)

	retryAfter := int(decision.RetryAfter.Seconds())
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", decision.Limit))
	w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", decision.Remaining))
	w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
	w.WriteHeader(http.StatusTooManyRequests)

	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":  fmt.Sprintf("%s rate limit exceeded", decision.Scope),
		"detail": fmt.Sprintf("Rate limit exceeded. Try again in %d seconds.", retryAfter),
	})
}
