// Package auth implements the credential and token lifecycle: password
// hashing and verification, session token issuance and validation, and the
// Authenticator that binds requests to live account records.
package auth

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt rejects inputs longer than 72 bytes.
const bcryptInputLimit = 72

// NormalizePassword condenses oversized passwords to a fixed-length
// surrogate before hashing. bcrypt would otherwise refuse (or silently
// truncate) anything past 72 bytes, losing the entropy of the tail.
// Passwords at or under the limit pass through unchanged, so existing
// stored hashes stay valid.
func NormalizePassword(password string) string {
	if len(password) > bcryptInputLimit {
		sum := sha256.Sum256([]byte(password))
		return hex.EncodeToString(sum[:])
	}
	return password
}

// HashPassword returns a salted bcrypt hash of the normalized password.
// The output is self-describing: algorithm, cost, and salt are embedded in
// the hash string, so verification needs no side channel.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(NormalizePassword(password)), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored hash.
// A malformed hash is a verification failure, never an error.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(NormalizePassword(password))) == nil
}
