package entity

import (
	"strings"

	"github.com/collegeprep/notifier/internal/pkg/goerror"
)

// EmailStatus is the lifecycle state of one email log row.
type EmailStatus string

const (
	EmailStatusPending EmailStatus = "pending"
	EmailStatusSent    EmailStatus = "sent"
	EmailStatusFailed  EmailStatus = "failed"
)

func (s EmailStatus) String() string {
	return string(s)
}

// EmailType classifies what kind of email was sent.
type EmailType string

const (
	EmailTypeWelcome       EmailType = "welcome"
	EmailTypePasswordReset EmailType = "password_reset"
	EmailTypeNotification  EmailType = "notification"
	EmailTypeMonthlyReport EmailType = "monthly_report"
)

func (t EmailType) String() string {
	return string(t)
}

// ReportType identifies which audience a monthly report targets.
type ReportType string

const (
	ReportTypeStudentMonthly ReportType = "student_monthly"
	ReportTypeTeacherMonthly ReportType = "teacher_monthly"
	ReportTypeAdminMonthly   ReportType = "admin_monthly"
)

// AllReportTypes lists every report type in generation order.
func AllReportTypes() []ReportType {
	return []ReportType{ReportTypeStudentMonthly, ReportTypeTeacherMonthly, ReportTypeAdminMonthly}
}

// ParseReportType validates a raw value against the closed set.
func ParseReportType(raw string) (ReportType, error) {
	t := ReportType(strings.TrimSpace(raw))
	for _, known := range AllReportTypes() {
		if t == known {
			return t, nil
		}
	}
	return "", goerror.NewInvalidInput(nil, "report_type", "must be one of student_monthly, teacher_monthly, admin_monthly")
}

func (t ReportType) String() string {
	return string(t)
}

// ReportStatus is the lifecycle state of a monthly report row.
type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusGenerated ReportStatus = "generated"
	ReportStatusSent      ReportStatus = "sent"
	ReportStatusFailed    ReportStatus = "failed"
)

func (s ReportStatus) String() string {
	return string(s)
}
