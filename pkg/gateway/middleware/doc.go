// Package middleware provides HTTP middleware for the gateway server.
//
// The middleware chain handles cross-cutting concerns before requests reach
// the admission gate and handlers:
//
//   - RequestID: unique ID per request for log correlation
//   - Logging: structured request/response logging with latency
//   - Recovery: panic recovery with 500 responses
//   - LoginThrottle: per-client-IP rate limiting on credential endpoints
//
// Middleware is applied outermost-first:
//
//	handler = middleware.Recovery(
//	    middleware.Logging(
//	        middleware.RequestID(handler)))
package middleware
