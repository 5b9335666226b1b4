package entity

import (
	"testing"

	"github.com/collegeprep/notifier/internal/directory"
	"github.com/stretchr/testify/assert"
)

func TestDefaultPreference(t *testing.T) {
	pref := DefaultPreference(42, directory.UserTypeStudent, TypeAnnouncement)

	assert.Equal(t, int64(42), pref.UserID)
	assert.Equal(t, directory.UserTypeStudent, pref.UserType)
	assert.Equal(t, TypeAnnouncement, pref.Type)
	assert.True(t, pref.InAppEnabled)
	assert.True(t, pref.EmailEnabled)
	assert.False(t, pref.SMSEnabled)
	assert.True(t, pref.PushEnabled)
	assert.False(t, pref.DigestMode)
	assert.Equal(t, "daily", pref.DigestFrequency)
}

func TestPreferencePatchApply(t *testing.T) {
	pref := DefaultPreference(1, directory.UserTypeTeacher, TypeCourseUpdate)

	off := false
	weekly := "weekly"
	start := "22:00"

	PreferencePatch{
		EmailEnabled:    &off,
		DigestFrequency: &weekly,
		QuietHoursStart: &start,
	}.Apply(&pref)

	assert.False(t, pref.EmailEnabled)
	assert.Equal(t, "weekly", pref.DigestFrequency)
	assert.Equal(t, "22:00", pref.QuietHoursStart)

	// untouched fields keep their values
	assert.True(t, pref.InAppEnabled)
	assert.True(t, pref.PushEnabled)
	assert.Equal(t, "", pref.QuietHoursEnd)
}

func TestPreferencePatchApplyEmpty(t *testing.T) {
	pref := DefaultPreference(1, directory.UserTypeStudent, TypePaymentDue)
	before := pref

	PreferencePatch{}.Apply(&pref)

	assert.Equal(t, before, pref)
}
