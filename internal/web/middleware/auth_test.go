package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/celltrail/internal/auth"
)

func protectedEcho(t *testing.T) http.Handler {
	t.Helper()
	return Authentication("topsecret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name, ok := Username(r.Context())
		if !ok {
			t.Error("username missing from context")
		}
		w.Write([]byte(name))
	}))
}

func TestAuthenticationAllowsValidToken(t *testing.T) {
	token, err := auth.CreateAccessToken("alice", "topsecret")
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protectedEcho(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "alice" {
		t.Errorf("body = %q, want alice", rec.Body.String())
	}
}

func TestAuthenticationRejects(t *testing.T) {
	wrongSecret, err := auth.CreateAccessToken("alice", "othersecret")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc"},
		{"empty token", "Bearer "},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong secret", "Bearer " + wrongSecret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			Authentication("topsecret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler reached without valid token")
			})).ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}
