package hash

// Hash abstracts one-way hashing of secrets.
//
// Implementations decide the algorithm and encoding; callers only rely on the
// Hash/Verify pair.
type Hash interface {
	// Hash hashes the plaintext and returns the encoded digest.
	Hash(plaintext string) ([]byte, error)
	// Verify returns true when plaintext matches the hashed value.
	Verify(hashed, plaintext string) bool
}
