package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultEmailPreference(t *testing.T) {
	pref := DefaultEmailPreference("a@b.com")

	assert.Equal(t, "a@b.com", pref.Email)
	assert.True(t, pref.EmailNotificationsEnabled)
	assert.True(t, pref.ReportEmailsEnabled)
	assert.False(t, pref.MarketingEnabled, "marketing is opt-in")
	assert.Nil(t, pref.UnsubscribedAt)
}

func TestEmailPreferencePatchApply(t *testing.T) {
	pref := DefaultEmailPreference("a@b.com")

	off := false
	on := true
	EmailPreferencePatch{
		ReportEmailsEnabled: &off,
		MarketingEnabled:    &on,
	}.Apply(&pref)

	assert.True(t, pref.EmailNotificationsEnabled, "untouched field keeps its value")
	assert.False(t, pref.ReportEmailsEnabled)
	assert.True(t, pref.MarketingEnabled)
}

func TestEmailPreferencePatchApplyEmpty(t *testing.T) {
	pref := DefaultEmailPreference("a@b.com")
	before := pref

	EmailPreferencePatch{}.Apply(&pref)

	assert.Equal(t, before, pref)
}
