// Package handlers implements the gateway's HTTP endpoints: the service
// banner and health check, the account endpoints (signup, login, API key
// minting, whoami), and the chat completion endpoint with optional SSE
// streaming.
//
// Handlers receive their collaborators through constructors and hold no
// package-level state. Authentication and admission control happen in
// middleware before a handler runs; authenticated handlers read the caller's
// identity from the request context.
package handlers
