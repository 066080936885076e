// Package crypto wraps the password hashing primitive used for stored
// credentials. Hashing is bcrypt: the salt lives inside the hash string and
// comparison is constant-time, so callers only ever see hash/verify.
package crypto

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when config does not override it.
const DefaultCost = bcrypt.DefaultCost

// HashPassword hashes a plaintext password with a per-call random salt.
// cost values outside bcrypt's supported range fall back to DefaultCost.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored bcrypt hash.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
