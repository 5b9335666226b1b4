package entity

import "time"

// EmailPreference is a per-address switchboard for outbound email. An absent
// row means everything enabled.
type EmailPreference struct {
	Email string

	EmailNotificationsEnabled bool
	ReportEmailsEnabled       bool
	MarketingEnabled          bool

	UnsubscribedAt *time.Time
	UpdatedAt      time.Time
}

// DefaultEmailPreference is the row shape seeded on first update.
func DefaultEmailPreference(email string) EmailPreference {
	return EmailPreference{
		Email:                     email,
		EmailNotificationsEnabled: true,
		ReportEmailsEnabled:       true,
		MarketingEnabled:          false,
	}
}

// EmailPreferencePatch is a partial update; nil fields are untouched.
type EmailPreferencePatch struct {
	EmailNotificationsEnabled *bool
	ReportEmailsEnabled       *bool
	MarketingEnabled          *bool
}

// Apply overlays the patch on top of a preference row.
func (p EmailPreferencePatch) Apply(pref *EmailPreference) {
	if p.EmailNotificationsEnabled != nil {
		pref.EmailNotificationsEnabled = *p.EmailNotificationsEnabled
	}
	if p.ReportEmailsEnabled != nil {
		pref.ReportEmailsEnabled = *p.ReportEmailsEnabled
	}
	if p.MarketingEnabled != nil {
		pref.MarketingEnabled = *p.MarketingEnabled
	}
}
