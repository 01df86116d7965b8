// Package password isolates password hashing behind a small capability so
// the scheme can be swapped without touching the lifecycle controller.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes secrets and verifies candidates against stored hashes.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// Bcrypt implements Hasher using bcrypt with the default cost.
type Bcrypt struct{}

// Hash returns the bcrypt hash of the given password.
func (Bcrypt) Hash(password string) (string, error) {
	sum, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(sum), nil
}

// Verify reports whether the password matches the stored hash. Malformed
// hashes verify as false rather than erroring past the caller.
func (Bcrypt) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

var _ Hasher = Bcrypt{}
