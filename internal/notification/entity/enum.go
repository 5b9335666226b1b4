package entity

import (
	"strings"

	"github.com/collegeprep/notifier/internal/pkg/goerror"
)

// Type is the closed set of notification kinds the platform produces.
type Type string

const (
	// Academic
	TypeAssignmentCreated Type = "assignment_created"
	TypeAssignmentGraded  Type = "assignment_graded"
	TypeAssignmentDueSoon Type = "assignment_due_soon"
	TypeCourseUpdate      Type = "course_update"
	TypeGradePosted       Type = "grade_posted"

	// Attendance
	TypeAttendanceMarked  Type = "attendance_marked"
	TypeAttendanceWarning Type = "attendance_warning"
	TypeAbsenceReported   Type = "absence_reported"

	// Payment
	TypePaymentDue      Type = "payment_due"
	TypePaymentReceived Type = "payment_received"
	TypePaymentOverdue  Type = "payment_overdue"
	TypePaymentReminder Type = "payment_reminder"

	// Enrollment
	TypeEnrollmentApproved Type = "enrollment_approved"
	TypeEnrollmentRejected Type = "enrollment_rejected"
	TypeCourseFull         Type = "course_full"
	TypeWaitlistAvailable  Type = "waitlist_available"

	// Communication
	TypeAnnouncement    Type = "announcement"
	TypeMessageReceived Type = "message_received"
	TypeChatMention     Type = "chat_mention"

	// Calendar
	TypeEventReminder  Type = "event_reminder"
	TypeClassCancelled Type = "class_cancelled"
	TypeScheduleChange Type = "schedule_change"

	// System
	TypeAccountCreated    Type = "account_created"
	TypePasswordReset     Type = "password_reset"
	TypeProfileUpdated    Type = "profile_updated"
	TypeSystemMaintenance Type = "system_maintenance"

	// Admin
	TypeNewEnrollment      Type = "new_enrollment"
	TypePaymentPending     Type = "payment_pending"
	TypeLowAttendanceAlert Type = "low_attendance_alert"
)

// AllTypes lists every notification type in declaration order.
func AllTypes() []Type {
	return []Type{
		TypeAssignmentCreated, TypeAssignmentGraded, TypeAssignmentDueSoon,
		TypeCourseUpdate, TypeGradePosted,
		TypeAttendanceMarked, TypeAttendanceWarning, TypeAbsenceReported,
		TypePaymentDue, TypePaymentReceived, TypePaymentOverdue, TypePaymentReminder,
		TypeEnrollmentApproved, TypeEnrollmentRejected, TypeCourseFull, TypeWaitlistAvailable,
		TypeAnnouncement, TypeMessageReceived, TypeChatMention,
		TypeEventReminder, TypeClassCancelled, TypeScheduleChange,
		TypeAccountCreated, TypePasswordReset, TypeProfileUpdated, TypeSystemMaintenance,
		TypeNewEnrollment, TypePaymentPending, TypeLowAttendanceAlert,
	}
}

// ParseType validates a raw value against the closed set.
func ParseType(raw string) (Type, error) {
	t := Type(strings.TrimSpace(raw))
	if !t.Valid() {
		return "", goerror.NewInvalidInput(nil, "notification_type", "unknown notification type: "+raw)
	}
	return t, nil
}

// Valid reports whether the value is a known notification type.
func (t Type) Valid() bool {
	for _, known := range AllTypes() {
		if t == known {
			return true
		}
	}
	return false
}

func (t Type) String() string {
	return string(t)
}

// Priority orders notifications by urgency.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// ParsePriority validates a raw value; empty input defaults to medium.
func ParsePriority(raw string) (Priority, error) {
	switch Priority(strings.TrimSpace(raw)) {
	case "":
		return PriorityMedium, nil
	case PriorityLow:
		return PriorityLow, nil
	case PriorityMedium:
		return PriorityMedium, nil
	case PriorityHigh:
		return PriorityHigh, nil
	case PriorityUrgent:
		return PriorityUrgent, nil
	default:
		return "", goerror.NewInvalidInput(nil, "priority", "must be one of low, medium, high, urgent")
	}
}

func (p Priority) String() string {
	return string(p)
}

// Channel is a delivery mechanism for a notification.
type Channel string

const (
	ChannelInApp Channel = "in_app"
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelPush  Channel = "push"
)

func (c Channel) String() string {
	return string(c)
}

// DeliveryStatus is the state of one channel attempt in the delivery log.
type DeliveryStatus string

const (
	DeliveryStatusPending DeliveryStatus = "pending"
	DeliveryStatusSent    DeliveryStatus = "sent"
	DeliveryStatusFailed  DeliveryStatus = "failed"
)

func (s DeliveryStatus) String() string {
	return string(s)
}
