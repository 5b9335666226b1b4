package inbound

import (
	"time"

	"github.com/collegeprep/notifier/internal/mailer/entity"
)

type PasswordForgotRequest struct {
	Email string `json:"email"`
}

type PasswordResetRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type EmailPreferenceResponse struct {
	Email                     string     `json:"email"`
	EmailNotificationsEnabled bool       `json:"email_notifications_enabled"`
	ReportEmailsEnabled       bool       `json:"report_emails_enabled"`
	MarketingEnabled          bool       `json:"marketing_enabled"`
	UnsubscribedAt            *time.Time `json:"unsubscribed_at,omitempty"`
}

func toEmailPreferenceResponse(p *entity.EmailPreference) EmailPreferenceResponse {
	return EmailPreferenceResponse{
		Email:                     p.Email,
		EmailNotificationsEnabled: p.EmailNotificationsEnabled,
		ReportEmailsEnabled:       p.ReportEmailsEnabled,
		MarketingEnabled:          p.MarketingEnabled,
		UnsubscribedAt:            p.UnsubscribedAt,
	}
}

type UpdateEmailPreferenceRequest struct {
	EmailNotificationsEnabled *bool `json:"email_notifications_enabled"`
	ReportEmailsEnabled       *bool `json:"report_emails_enabled"`
	MarketingEnabled          *bool `json:"marketing_enabled"`
}

type UnsubscribeRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

type EmailLogResponse struct {
	ID             int64      `json:"id"`
	RecipientEmail string     `json:"recipient_email"`
	RecipientName  string     `json:"recipient_name,omitempty"`
	Subject        string     `json:"subject"`
	EmailType      string     `json:"email_type"`
	Status         string     `json:"status"`
	ErrorMessage   string     `json:"error_message,omitempty"`
	RetryCount     int32      `json:"retry_count"`
	CreatedAt      time.Time  `json:"created_at"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
}

type EmailLogsResponse struct {
	Logs []EmailLogResponse `json:"logs"`
}

type EmailStatsResponse struct {
	Total   int64            `json:"total"`
	Sent    int64            `json:"sent"`
	Failed  int64            `json:"failed"`
	Pending int64            `json:"pending"`
	ByType  map[string]int64 `json:"by_type"`
}

type TriggerReportsRequest struct {
	Year  int32  `json:"year"`
	Month int32  `json:"month"`
	Type  string `json:"type"`
}

type SweepResponse struct {
	TokensDeleted int64 `json:"tokens_deleted"`
	EmailsRetried int   `json:"emails_retried"`
}
