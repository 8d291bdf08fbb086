package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Profanor/scello-commerce/internal/models"
)

func newTestIssuer(t *testing.T) *TokenIssuer {
	t.Helper()
	issuer, err := NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	return issuer
}

func claimsEcho(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok, "claims must be attached to the request context")
		w.Write([]byte(claims.Username))
	})
}

func TestRequireAuth_MissingToken(t *testing.T) {
	t.Parallel()

	issuer := newTestIssuer(t)
	handler := RequireAuth(issuer)(claimsEcho(t))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	t.Parallel()

	issuer := newTestIssuer(t)
	handler := RequireAuth(issuer)(claimsEcho(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	t.Parallel()

	issuer := newTestIssuer(t)
	handler := RequireAuth(issuer)(claimsEcho(t))

	token, err := issuer.Issue(models.User{ID: "u1", Username: "alice"})
	require.NoError(t, err)

	// A valid token behind a malformed scheme must not authenticate.
	for _, header := range []string{
		"XBearer " + token,
		"bearer " + token,
		token,
		"Bearer ",
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestRequireAuth_ValidToken(t *testing.T) {
	t.Parallel()

	issuer := newTestIssuer(t)
	handler := RequireAuth(issuer)(claimsEcho(t))

	token, err := issuer.Issue(models.User{ID: "u1", Username: "alice"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "alice", rec.Body.String())
}

func TestRequireAdmin_ComposedAfterAuth(t *testing.T) {
	t.Parallel()

	issuer := newTestIssuer(t)
	handler := RequireAuth(issuer)(RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	adminToken, err := issuer.Issue(models.User{ID: "a", Username: "root", IsAdmin: true})
	require.NoError(t, err)
	userToken, err := issuer.Issue(models.User{ID: "b", Username: "bob"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"admin allowed", adminToken, http.StatusOK},
		{"regular user forbidden", userToken, http.StatusForbidden},
		{"no token unauthorized", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			require.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequireAdmin_WithoutAuthContext(t *testing.T) {
	t.Parallel()

	handler := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without claims")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
