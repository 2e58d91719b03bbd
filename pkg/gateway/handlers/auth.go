package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"time"

	"mercator-hq/janus/pkg/auth"
	"mercator-hq/janus/pkg/quota"
	"mercator-hq/janus/pkg/store"
)

// minPasswordLength is the floor enforced at signup.
const minPasswordLength = 8

// AuthHandler serves the account endpoints: signup, login, API key minting
// and whoami.
type AuthHandler struct {
	accounts store.Store
	tokens   *auth.TokenService
	tokenTTL time.Duration
	logger   *slog.Logger
}

// NewAuthHandler creates an AuthHandler. tokenTTL is reported to clients in
// login responses and should match the TokenService's TTL.
func NewAuthHandler(accounts store.Store, tokens *auth.TokenService, tokenTTL time.Duration) *AuthHandler {
	if tokenTTL <= 0 {
		tokenTTL = auth.DefaultTokenTTL
	}
	return &AuthHandler{
		accounts: accounts,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		logger:   slog.Default().With("component", "handlers.auth"),
	}
}

// Signup handles POST /v1/auth/signup. New accounts start on the free tier.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", "Request body must be valid JSON.")
		return
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", "A valid email address is required.")
		return
	}
	if len(req.Password) < minPasswordLength {
		writeError(w, http.StatusBadRequest, "invalid request", "Password must be at least 8 characters.")
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "password hashing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error", "Could not create account.")
		return
	}

	user, err := h.accounts.CreateUser(r.Context(), req.Email, hashed, quota.TierFree)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			writeError(w, http.StatusConflict, "email already registered", "An account with this email already exists.")
			return
		}
		h.logger.ErrorContext(r.Context(), "account creation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error", "Could not create account.")
		return
	}

	h.logger.InfoContext(r.Context(), "account created", "user_id", user.ID, "tier", string(user.Tier))
	writeJSON(w, http.StatusCreated, UserResponse{
		ID:    user.ID,
		Email: user.Email,
		Tier:  string(user.Tier),
	})
}

// Login handles POST /v1/auth/login and issues a session token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", "Request body must be valid JSON.")
		return
	}

	user, err := h.accounts.UserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Same response as a wrong password so the endpoint does not
			// reveal which emails are registered.
			writeError(w, http.StatusUnauthorized, "unauthorized", "Incorrect email or password.")
			return
		}
		h.logger.ErrorContext(r.Context(), "user lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error", "Could not log in.")
		return
	}

	if !auth.VerifyPassword(req.Password, user.HashedPassword) {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Incorrect email or password.")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "token issuance failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error", "Could not log in.")
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(h.tokenTTL.Seconds()),
	})
}

// CreateAPIKey handles POST /v1/auth/api-keys. Requires authentication.
func (h *AuthHandler) CreateAPIKey(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required.")
		return
	}

	var req CreateKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", "Request body must be valid JSON.")
		return
	}
	if req.Name == "" {
		req.Name = "default"
	}

	key, err := auth.GenerateAPIKey()
	if err != nil {
		h.logger.ErrorContext(r.Context(), "key generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error", "Could not create API key.")
		return
	}

	record, err := h.accounts.CreateAPIKey(r.Context(), identity.SubjectID, req.Name, key)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "key persistence failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error", "Could not create API key.")
		return
	}

	h.logger.InfoContext(r.Context(), "api key created",
		"user_id", identity.SubjectID,
		"key_id", record.ID,
		"name", record.Name,
	)
	writeJSON(w, http.StatusCreated, KeyResponse{
		ID:   record.ID,
		Key:  record.Key,
		Name: record.Name,
	})
}

// Me handles GET /v1/auth/me. Requires authentication.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required.")
		return
	}

	user, err := h.accounts.UserByID(r.Context(), identity.SubjectID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "user lookup failed", "error", err, "user_id", identity.SubjectID)
		writeError(w, http.StatusInternalServerError, "internal server error", "Could not load account.")
		return
	}

	writeJSON(w, http.StatusOK, UserResponse{
		ID:    user.ID,
		Email: user.Email,
		Tier:  string(user.Tier),
	})
}
