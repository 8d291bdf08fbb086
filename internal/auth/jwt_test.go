package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Profanor/scello-commerce/internal/models"
)

func TestNewTokenIssuer_NoSecret(t *testing.T) {
	t.Parallel()

	_, err := NewTokenIssuer("", time.Hour)
	require.ErrorIs(t, err, ErrNoSecret)
}

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	issuer, err := NewTokenIssuer("super-secret", time.Hour)
	require.NoError(t, err)

	user := models.User{ID: "user-123", Username: "alice", IsAdmin: true}
	token, err := issuer.Issue(user)
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-123", claims.Subject)
	require.Equal(t, "alice", claims.Username)
	require.True(t, claims.IsAdmin)
	require.NotNil(t, claims.IssuedAt)
	require.NotNil(t, claims.ExpiresAt)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	issuer, err := NewTokenIssuer("secret", time.Hour)
	require.NoError(t, err)
	issuer.ttl = -1 * time.Minute

	token, err := issuer.Issue(models.User{ID: "u1", Username: "bob"})
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	require.Error(t, err)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	right, err := NewTokenIssuer("right-secret", time.Hour)
	require.NoError(t, err)
	wrong, err := NewTokenIssuer("wrong-secret", time.Hour)
	require.NoError(t, err)

	token, err := right.Issue(models.User{ID: "u2", Username: "carol"})
	require.NoError(t, err)

	_, err = wrong.Verify(token)
	require.Error(t, err)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	issuer, err := NewTokenIssuer("k", time.Hour)
	require.NoError(t, err)

	_, err = issuer.Verify("not.a.jwt")
	require.Error(t, err)
}
