package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword_SaltedAndVerifiable(t *testing.T) {
	t.Parallel()

	first, err := HashPassword("pw123")
	require.NoError(t, err)
	second, err := HashPassword("pw123")
	require.NoError(t, err)

	require.NotEqual(t, "pw123", first, "hash must never equal the plaintext")
	require.NotEqual(t, first, second, "two hashes of the same plaintext must differ")

	require.True(t, CheckPassword("pw123", first))
	require.True(t, CheckPassword("pw123", second))
}

func TestCheckPassword_WrongPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct")
	require.NoError(t, err)

	require.False(t, CheckPassword("wrong", hash))
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	t.Parallel()

	require.False(t, CheckPassword("anything", "not-a-bcrypt-hash"))
}
