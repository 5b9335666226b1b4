package db

import (
	"context"

	"github.com/collegeprep/notifier/internal/notification/entity"
)

func (s *DB) CreateNotification(ctx context.Context, data entity.CreateNotification) (err error) {
	ctx, span := s.startSpan(ctx, "CreateNotification")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		INSERT INTO notifications (
			notification_id, user_id, user_type, notification_type,
			title, message, priority, category,
			action_url, action_text,
			related_course_id, related_assignment_id, related_enrollment_id, related_payment_id,
			expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		data.ID, data.UserID, data.UserType.String(), data.Type.String(),
		data.Title, data.Message, data.Priority.String(), data.Category,
		data.ActionURL, data.ActionText,
		data.RelatedCourseID, data.RelatedAssignmentID, data.RelatedEnrollmentID, data.RelatedPaymentID,
		data.ExpiresAt,
	)
	return s.mapError(err)
}

func (s *DB) CreateDeliveryLog(ctx context.Context, dl entity.CreateDeliveryLog) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "CreateDeliveryLog")
	defer func() { s.endSpan(span, err) }()

	var logID int64
	err = s.conn.QueryRow(ctx, `
		INSERT INTO notification_logs (
			notification_id, channel, status, recipient_email, recipient_phone, provider
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING log_id`,
		dl.NotificationID, dl.Channel.String(), dl.Status.String(),
		dl.RecipientEmail, dl.RecipientPhone, dl.Provider,
	).Scan(&logID)
	if err != nil {
		return 0, s.mapError(err)
	}

	return logID, nil
}
