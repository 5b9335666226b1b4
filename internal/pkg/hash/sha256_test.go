package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSHA256Hash(t *testing.T) {
	h := NewSHA256()

	digest, err := h.Hash("hello")
	require.NoError(t, err)

	// hex-encoded sha256 is 64 characters and deterministic
	assert.Len(t, digest, 64)
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", string(digest))

	again, err := h.Hash("hello")
	require.NoError(t, err)
	assert.Equal(t, digest, again)
}

func TestSHA256Verify(t *testing.T) {
	h := NewSHA256()

	digest, err := h.Hash("reset-token-value")
	require.NoError(t, err)

	assert.True(t, h.Verify(string(digest), "reset-token-value"))
	assert.False(t, h.Verify(string(digest), "reset-token-valuE"))
	assert.False(t, h.Verify("not-a-digest", "reset-token-value"))
}
