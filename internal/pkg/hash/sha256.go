package hash

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// SHA256 implements Hash using a plain (unkeyed) SHA-256 digest.
//
// It is meant for hashing high-entropy values like reset tokens, where the
// input is already random and a keyed hash adds nothing. Do not use it for
// passwords.
type SHA256 struct{}

// NewSHA256 creates a plain SHA-256 hasher.
func NewSHA256() *SHA256 {
	return &SHA256{}
}

// Hash returns the hex-encoded SHA-256 digest of the input string.
func (s *SHA256) Hash(str string) ([]byte, error) {
	return s.gen(str), nil
}

// Verify checks whether the plaintext string matches the given hex digest.
func (s *SHA256) Verify(hashed, str string) bool {
	expected := s.gen(str)
	return subtle.ConstantTimeCompare([]byte(hashed), expected) == 1
}

func (s *SHA256) gen(str string) []byte {
	sum := sha256.Sum256([]byte(str))
	result := make([]byte, hex.EncodedLen(len(sum)))
	hex.Encode(result, sum[:])
	return result
}
