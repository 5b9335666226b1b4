package entity

import "github.com/collegeprep/notifier/internal/directory"

// Preference is one user's channel opt-ins for a single notification type.
// At most one row exists per (user, type) tuple; an absent row means the
// priority-based defaults apply.
type Preference struct {
	UserID   int64
	UserType directory.UserType
	Type     Type

	InAppEnabled bool
	EmailEnabled bool
	SMSEnabled   bool
	PushEnabled  bool

	QuietHoursStart string
	QuietHoursEnd   string

	DigestMode      bool
	DigestFrequency string
}

// DefaultPreference is the row shape used when creating a preference from a
// partial update: in-app and email on, sms off, push on, daily digest off.
func DefaultPreference(userID int64, userType directory.UserType, t Type) Preference {
	return Preference{
		UserID:          userID,
		UserType:        userType,
		Type:            t,
		InAppEnabled:    true,
		EmailEnabled:    true,
		SMSEnabled:      false,
		PushEnabled:     true,
		DigestFrequency: "daily",
	}
}

// PreferencePatch is a partial preference update; nil fields are untouched.
type PreferencePatch struct {
	InAppEnabled *bool
	EmailEnabled *bool
	SMSEnabled   *bool
	PushEnabled  *bool

	QuietHoursStart *string
	QuietHoursEnd   *string

	DigestMode      *bool
	DigestFrequency *string
}

// Apply overlays the patch on top of a preference row.
func (p PreferencePatch) Apply(pref *Preference) {
	if p.InAppEnabled != nil {
		pref.InAppEnabled = *p.InAppEnabled
	}
	if p.EmailEnabled != nil {
		pref.EmailEnabled = *p.EmailEnabled
	}
	if p.SMSEnabled != nil {
		pref.SMSEnabled = *p.SMSEnabled
	}
	if p.PushEnabled != nil {
		pref.PushEnabled = *p.PushEnabled
	}
	if p.QuietHoursStart != nil {
		pref.QuietHoursStart = *p.QuietHoursStart
	}
	if p.QuietHoursEnd != nil {
		pref.QuietHoursEnd = *p.QuietHoursEnd
	}
	if p.DigestMode != nil {
		pref.DigestMode = *p.DigestMode
	}
	if p.DigestFrequency != nil {
		pref.DigestFrequency = *p.DigestFrequency
	}
}
