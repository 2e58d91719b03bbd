package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBearerCredential(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"bearer token", "Bearer sk-abc", "sk-abc"},
		{"missing header", "", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz", ""},
		{"bare token", "sk-abc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			if got := BearerCredential(r); got != tt.want {
				t.Errorf("BearerCredential() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	resolver, _, tokens := newTestResolver(t)

	var gotIdentity *Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIdentity, _ = IdentityFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	handler := RequireAuth(resolver)(next)

	t.Run("valid api key", func(t *testing.T) {
		gotIdentity = nil
		r := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
		r.Header.Set("Authorization", "Bearer sk-active")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if gotIdentity == nil || gotIdentity.SubjectID != "u1" {
			t.Errorf("expected identity u1 in context, got %+v", gotIdentity)
		}
	})

	t.Run("valid session token", func(t *testing.T) {
		raw, err := tokens.Issue("u1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		r := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
		r.Header.Set("Authorization", "Bearer "+raw)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
	})

	t.Run("missing credential", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("revoked key", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
		r.Header.Set("Authorization", "Bearer sk-revoked")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})
}
