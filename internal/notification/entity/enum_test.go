package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	got, err := ParseType("assignment_created")
	require.NoError(t, err)
	assert.Equal(t, TypeAssignmentCreated, got)

	got, err = ParseType("  grade_posted ")
	require.NoError(t, err)
	assert.Equal(t, TypeGradePosted, got)

	_, err = ParseType("not_a_type")
	assert.Error(t, err)

	_, err = ParseType("")
	assert.Error(t, err)
}

func TestAllTypesValid(t *testing.T) {
	for _, typ := range AllTypes() {
		assert.True(t, typ.Valid(), typ.String())
	}
	assert.False(t, Type("bogus").Valid())
}

func TestParsePriority(t *testing.T) {
	got, err := ParsePriority("")
	require.NoError(t, err)
	assert.Equal(t, PriorityMedium, got, "empty input defaults to medium")

	for _, p := range []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent} {
		got, err := ParsePriority(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	_, err = ParsePriority("critical")
	assert.Error(t, err)
}
