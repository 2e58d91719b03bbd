// Package gateway implements the admission gate: HTTP middleware that
// resolves the caller's bearer credential to an identity and runs the
// two-scope quota check before the request reaches a handler.
//
// The gate enforces availability over strictness. Requests on exempt paths,
// requests without a credential, and requests whose resolution or quota
// check fails for operational reasons are all forwarded unthrottled. Only a
// genuine quota denial produces a 429.
package gateway
