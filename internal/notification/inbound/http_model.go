package inbound

import (
	"time"

	"github.com/collegeprep/notifier/internal/notification/entity"
)

type NotificationResponse struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"user_id"`
	UserType   string     `json:"user_type"`
	Type       string     `json:"type"`
	Title      string     `json:"title"`
	Message    string     `json:"message"`
	Priority   string     `json:"priority"`
	Category   string     `json:"category,omitempty"`
	ActionURL  string     `json:"action_url,omitempty"`
	ActionText string     `json:"action_text,omitempty"`
	IsRead     bool       `json:"is_read"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
	SentVia    string     `json:"sent_via,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

func toNotificationResponse(n *entity.Notification) NotificationResponse {
	return NotificationResponse{
		ID:         n.ID,
		UserID:     n.UserID,
		UserType:   n.UserType.String(),
		Type:       n.Type.String(),
		Title:      n.Title,
		Message:    n.Message,
		Priority:   n.Priority.String(),
		Category:   n.Category,
		ActionURL:  n.ActionURL,
		ActionText: n.ActionText,
		IsRead:     n.IsRead,
		ReadAt:     n.ReadAt,
		SentVia:    n.SentVia,
		CreatedAt:  n.CreatedAt,
		ExpiresAt:  n.ExpiresAt,
	}
}

type NotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

type MarkAllReadResponse struct {
	MarkedRead int64 `json:"marked_read"`
}

type CreateNotificationRequest struct {
	UserID   int64  `json:"user_id"`
	UserType string `json:"user_type"`
	Type     string `json:"type"`

	Title    string `json:"title"`
	Message  string `json:"message"`
	Priority string `json:"priority"`
	Category string `json:"category"`

	ActionURL  string `json:"action_url"`
	ActionText string `json:"action_text"`

	RelatedCourseID     *int64 `json:"related_course_id"`
	RelatedAssignmentID *int64 `json:"related_assignment_id"`
	RelatedEnrollmentID *int64 `json:"related_enrollment_id"`
	RelatedPaymentID    *int64 `json:"related_payment_id"`

	ExpiresInDays int32 `json:"expires_in_days"`

	Variables map[string]any `json:"variables"`
}

type NotifyCourseRequest struct {
	CourseID int64  `json:"course_id"`
	Type     string `json:"type"`

	Title    string `json:"title"`
	Message  string `json:"message"`
	Priority string `json:"priority"`

	ActionURL string `json:"action_url"`

	Variables map[string]any `json:"variables"`
}

type NotifyCourseResponse struct {
	Targeted int `json:"targeted"`
}

type NotificationTypesResponse struct {
	Types []string `json:"types"`
}

type TemplateResponse struct {
	ID                   int64    `json:"id"`
	Type                 string   `json:"type"`
	Name                 string   `json:"name"`
	TitleTemplate        string   `json:"title_template"`
	MessageTemplate      string   `json:"message_template"`
	EmailSubjectTemplate string   `json:"email_subject_template,omitempty"`
	EmailBodyTemplate    string   `json:"email_body_template,omitempty"`
	SMSTemplate          string   `json:"sms_template,omitempty"`
	DefaultPriority      string   `json:"default_priority"`
	DefaultChannels      []string `json:"default_channels"`
	IsActive             bool     `json:"is_active"`
}

type TemplatesResponse struct {
	Templates []TemplateResponse `json:"templates"`
}

type UpdateTemplateRequest struct {
	Name                 *string `json:"name"`
	TitleTemplate        *string `json:"title_template"`
	MessageTemplate      *string `json:"message_template"`
	EmailSubjectTemplate *string `json:"email_subject_template"`
	EmailBodyTemplate    *string `json:"email_body_template"`
	SMSTemplate          *string `json:"sms_template"`
	DefaultPriority      *string `json:"default_priority"`
	IsActive             *bool   `json:"is_active"`
}

type PreferenceResponse struct {
	Type            string `json:"type"`
	InAppEnabled    bool   `json:"in_app_enabled"`
	EmailEnabled    bool   `json:"email_enabled"`
	SMSEnabled      bool   `json:"sms_enabled"`
	PushEnabled     bool   `json:"push_enabled"`
	QuietHoursStart string `json:"quiet_hours_start,omitempty"`
	QuietHoursEnd   string `json:"quiet_hours_end,omitempty"`
	DigestMode      bool   `json:"digest_mode"`
	DigestFrequency string `json:"digest_frequency"`
}

func toPreferenceResponse(p *entity.Preference) PreferenceResponse {
	return PreferenceResponse{
		Type:            p.Type.String(),
		InAppEnabled:    p.InAppEnabled,
		EmailEnabled:    p.EmailEnabled,
		SMSEnabled:      p.SMSEnabled,
		PushEnabled:     p.PushEnabled,
		QuietHoursStart: p.QuietHoursStart,
		QuietHoursEnd:   p.QuietHoursEnd,
		DigestMode:      p.DigestMode,
		DigestFrequency: p.DigestFrequency,
	}
}

type PreferencesResponse struct {
	Preferences []PreferenceResponse `json:"preferences"`
}

type UpdatePreferenceRequest struct {
	InAppEnabled    *bool   `json:"in_app_enabled"`
	EmailEnabled    *bool   `json:"email_enabled"`
	SMSEnabled      *bool   `json:"sms_enabled"`
	PushEnabled     *bool   `json:"push_enabled"`
	QuietHoursStart *string `json:"quiet_hours_start"`
	QuietHoursEnd   *string `json:"quiet_hours_end"`
	DigestMode      *bool   `json:"digest_mode"`
	DigestFrequency *string `json:"digest_frequency"`
}
