// Package cryptox holds the password digests used by the admin client's
// fallback credential store and the server's verifiers.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/argon2"
)

// Hasher turns a plaintext password into the digest stored in a credential
// record.
type Hasher interface {
	Hash(plaintext string) string
}

// SHA256Hasher produces the unsalted, lowercase hex SHA-256 digest stored by
// the local credential store. The same plaintext always yields the same
// digest; existing stored hashes depend on that.
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// EqualDigests compares two hex digests in constant time.
func EqualDigests(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// DeriveKey stretches password with salt using argon2id. The server stores
// MakeVerifier(DeriveKey(password, salt)) instead of the password.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// MakeVerifier returns the SHA-256 of a derived key.
func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}

// CheckVerifier reports whether candidate matches verifier, in constant time.
func CheckVerifier(verifier, candidate []byte) bool {
	return subtle.ConstantTimeCompare(verifier, candidate) == 1
}
