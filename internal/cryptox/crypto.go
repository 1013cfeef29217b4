// Package cryptox implements the credential scheme shared by the reader
// client and the identity backend.
//
// The plain password never leaves the client. A key is derived from
// (password, salt) with Argon2id and hashed into a verifier; the backend
// stores only salt and verifier, and login compares verifier candidates
// in constant time.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

const (
	// SaltSize is the number of random bytes generated per account.
	SaltSize = 32

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// DeriveKey derives a 32-byte key from the password and salt using Argon2id.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// MakeVerifier hashes a derived key into the value stored server-side.
func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}

// CheckVerifier compares a stored verifier with a candidate in constant time.
func CheckVerifier(verifier, candidate []byte) bool {
	return subtle.ConstantTimeCompare(verifier, candidate) == 1
}
