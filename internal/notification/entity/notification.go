package entity

import (
	"time"

	"github.com/collegeprep/notifier/internal/directory"
)

// Notification is the durable ledger record of one user-facing alert.
type Notification struct {
	ID       int64
	UserID   int64
	UserType directory.UserType

	Type     Type
	Title    string
	Message  string
	Priority Priority
	Category string

	ActionURL  string
	ActionText string

	RelatedCourseID     *int64
	RelatedAssignmentID *int64
	RelatedEnrollmentID *int64
	RelatedPaymentID    *int64

	IsRead    bool
	ReadAt    *time.Time
	IsDeleted bool

	SentVia     string
	EmailSent   bool
	EmailSentAt *time.Time
	SMSSent     bool
	SMSSentAt   *time.Time
	PushSent    bool
	PushSentAt  *time.Time

	CreatedAt time.Time
	ExpiresAt *time.Time
}

// CreateNotification carries the fields needed to insert a ledger row.
type CreateNotification struct {
	ID       int64
	UserID   int64
	UserType directory.UserType
	Type     Type
	Title    string
	Message  string
	Priority Priority
	Category string

	ActionURL  string
	ActionText string

	RelatedCourseID     *int64
	RelatedAssignmentID *int64
	RelatedEnrollmentID *int64
	RelatedPaymentID    *int64

	ExpiresAt *time.Time
}

// ListFilter narrows a ledger listing. Soft-deleted and expired rows are
// always excluded regardless of the filter values.
type ListFilter struct {
	UnreadOnly bool
	Type       Type
	Priority   Priority
	Since      *time.Time
	Limit      int32
	Offset     int32
}

// ChannelSent marks one channel as attempted on the ledger row.
type ChannelSent struct {
	NotificationID int64
	Channel        Channel
	SentAt         time.Time
	SentVia        string
}
