// Package server assembles the gateway's HTTP surface: routes, the
// middleware chain, and graceful lifecycle management.
//
// The middleware chain, outermost first:
//
//	recovery -> logging -> request ID -> admission gate -> mux
//
// Authenticated routes additionally run the authentication middleware,
// and the credential endpoints run the per-IP login throttle. All
// collaborators are injected through Deps; the server holds no global
// state.
package server
