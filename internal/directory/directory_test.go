package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUserType(t *testing.T) {
	for _, raw := range []string{"student", "teacher", "admin", "parent"} {
		got, err := ParseUserType(raw)
		require.NoError(t, err)
		assert.Equal(t, UserType(raw), got)
	}

	got, err := ParseUserType(" Student ")
	require.NoError(t, err)
	assert.Equal(t, UserTypeStudent, got, "input is trimmed and lowercased")

	_, err = ParseUserType("superuser")
	assert.Error(t, err)

	_, err = ParseUserType("")
	assert.Error(t, err)
}

func TestUserTypeValid(t *testing.T) {
	assert.True(t, UserTypeStudent.Valid())
	assert.True(t, UserTypeParent.Valid())
	assert.False(t, UserType("root").Valid())
	assert.False(t, UserType("").Valid())
}
