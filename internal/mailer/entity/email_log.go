package entity

import "time"

// EmailLog is the audit record of one outbound email.
type EmailLog struct {
	ID int64

	RecipientEmail string
	RecipientName  string

	Subject string
	Body    string

	EmailType EmailType
	Status    EmailStatus

	ErrorMessage string
	RetryCount   int32

	// ContentHash is the SHA-256 digest of recipient, subject and body; it
	// backs the duplicate-send suppression window.
	ContentHash string

	RelatedUserID   *int64
	RelatedUserType string

	CreatedAt time.Time
	SentAt    *time.Time
}

// CreateEmailLog carries the fields needed to insert an email log row.
type CreateEmailLog struct {
	RecipientEmail string
	RecipientName  string
	Subject        string
	Body           string
	EmailType      EmailType
	ContentHash    string

	RelatedUserID   *int64
	RelatedUserType string
}

// EmailLogFilter narrows the admin log listing.
type EmailLogFilter struct {
	Status    EmailStatus
	EmailType EmailType
	Recipient string
	Limit     int32
	Offset    int32
}

// EmailStats aggregates delivery outcomes over a window.
type EmailStats struct {
	Total   int64
	Sent    int64
	Failed  int64
	Pending int64

	ByType map[string]int64
}
