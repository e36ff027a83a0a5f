// Package password wraps bcrypt hashing for account credentials
package password

import "golang.org/x/crypto/bcrypt"

// Hash produces a salted bcrypt hash of the plaintext password.
// bcrypt generates a fresh random salt on every call.
func Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether the plaintext password matches the stored hash.
// Any failure, including a malformed hash, is treated as a non-match.
func Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
