package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost is fixed; changing it only affects newly stored hashes.
const bcryptCost = 10

// HashPassword produces a salted bcrypt digest of the plaintext.
// Hashing the same plaintext twice yields different digests.
func HashPassword(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
// A malformed stored hash is an internal fault and reads as a mismatch.
func CheckPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
