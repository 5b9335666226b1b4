package entity

import "time"

// DeliveryLog is one append-only audit row per (notification, channel,
// attempt). Terminal rows are never mutated; a retry appends a new row.
type DeliveryLog struct {
	ID             int64
	NotificationID int64

	Channel      Channel
	Status       DeliveryStatus
	ErrorMessage string

	RecipientEmail string
	RecipientPhone string

	ExternalID string
	Provider   string

	AttemptedAt time.Time
	DeliveredAt *time.Time
}

// CreateDeliveryLog carries the fields for a new audit row. The row is
// written before the external send so a crash mid-send still leaves a trace.
type CreateDeliveryLog struct {
	NotificationID int64
	Channel        Channel
	Status         DeliveryStatus
	RecipientEmail string
	RecipientPhone string
	Provider       string
}
