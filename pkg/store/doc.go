// Package store persists accounts and API keys.
//
// The Store interface covers the account subsystem's needs: user
// creation and lookup for signup/login, and key issuance and lookup for
// API key authentication. Two implementations are provided:
//
//   - SQLiteStore: durable single-instance storage (WAL mode, prepared
//     statements)
//   - MemoryStore: volatile storage for tests and throwaway deployments
//
// The IdentitySource adapter exposes a Store through the read-only
// collaborator interfaces the credential resolver consumes.
package store
