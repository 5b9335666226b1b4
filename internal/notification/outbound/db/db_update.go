package db

import (
	"context"
	"time"

	"github.com/collegeprep/notifier/internal/directory"
	"github.com/collegeprep/notifier/internal/notification/entity"
)

func (s *DB) MarkNotificationRead(ctx context.Context, userID int64, userType directory.UserType, notificationID int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "MarkNotificationRead")
	defer func() { s.endSpan(span, err) }()

	// Re-marking an already-read row is allowed; is_read never regresses.
	tag, err := s.conn.Exec(ctx, `
		UPDATE notifications
		SET is_read = TRUE, read_at = now()
		WHERE notification_id = $1 AND user_id = $2 AND user_type = $3 AND `+visiblePredicate,
		notificationID, userID, userType.String())
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() > 0, nil
}

func (s *DB) MarkAllNotificationsRead(ctx context.Context, userID int64, userType directory.UserType) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "MarkAllNotificationsRead")
	defer func() { s.endSpan(span, err) }()

	// Single conditional UPDATE; safe under concurrent writers and
	// idempotent, a second call matches zero rows.
	tag, err := s.conn.Exec(ctx, `
		UPDATE notifications
		SET is_read = TRUE, read_at = now()
		WHERE user_id = $1 AND user_type = $2 AND is_read = FALSE AND `+visiblePredicate,
		userID, userType.String())
	if err != nil {
		return 0, s.mapError(err)
	}

	return tag.RowsAffected(), nil
}

func (s *DB) SoftDeleteNotification(ctx context.Context, userID int64, userType directory.UserType, notificationID int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "SoftDeleteNotification")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		UPDATE notifications
		SET is_deleted = TRUE
		WHERE notification_id = $1 AND user_id = $2 AND user_type = $3 AND is_deleted = FALSE`,
		notificationID, userID, userType.String())
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() > 0, nil
}

func (s *DB) MarkChannelSent(ctx context.Context, cs entity.ChannelSent) (err error) {
	ctx, span := s.startSpan(ctx, "MarkChannelSent")
	defer func() { s.endSpan(span, err) }()

	const appendSentVia = `sent_via = CASE WHEN COALESCE(sent_via, '') = '' THEN $2 ELSE sent_via || ',' || $2 END`

	switch cs.Channel {
	case entity.ChannelEmail:
		_, err = s.conn.Exec(ctx, `
			UPDATE notifications SET `+appendSentVia+`, email_sent = TRUE, email_sent_at = $3
			WHERE notification_id = $1`,
			cs.NotificationID, cs.Channel.String(), cs.SentAt)
	case entity.ChannelSMS:
		_, err = s.conn.Exec(ctx, `
			UPDATE notifications SET `+appendSentVia+`, sms_sent = TRUE, sms_sent_at = $3
			WHERE notification_id = $1`,
			cs.NotificationID, cs.Channel.String(), cs.SentAt)
	case entity.ChannelPush:
		_, err = s.conn.Exec(ctx, `
			UPDATE notifications SET `+appendSentVia+`, push_sent = TRUE, push_sent_at = $3
			WHERE notification_id = $1`,
			cs.NotificationID, cs.Channel.String(), cs.SentAt)
	default:
		// in_app has no dedicated flag column; only the summary changes.
		_, err = s.conn.Exec(ctx, `
			UPDATE notifications SET `+appendSentVia+`
			WHERE notification_id = $1`,
			cs.NotificationID, cs.Channel.String())
	}

	return s.mapError(err)
}

// UpdateDeliveryLog finalizes a pending audit row. Terminal rows stay as
// they are; a retry appends a fresh row instead of mutating this one.
func (s *DB) UpdateDeliveryLog(ctx context.Context, logID int64, status entity.DeliveryStatus, errorMessage string, deliveredAt *time.Time) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateDeliveryLog")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		UPDATE notification_logs
		SET status = $2, error_message = NULLIF($3, ''), delivered_at = $4
		WHERE log_id = $1 AND status = 'pending'`,
		logID, status.String(), errorMessage, deliveredAt)
	return s.mapError(err)
}

func (s *DB) UpdateTemplate(ctx context.Context, t entity.Type, patch entity.TemplatePatch) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "UpdateTemplate")
	defer func() { s.endSpan(span, err) }()

	var priority *string
	if patch.DefaultPriority != nil {
		v := patch.DefaultPriority.String()
		priority = &v
	}

	tag, err := s.conn.Exec(ctx, `
		UPDATE notification_templates
		SET name = COALESCE($2, name),
			title_template = COALESCE($3, title_template),
			message_template = COALESCE($4, message_template),
			email_subject_template = COALESCE($5, email_subject_template),
			email_body_template = COALESCE($6, email_body_template),
			sms_template = COALESCE($7, sms_template),
			default_priority = COALESCE($8, default_priority),
			is_active = COALESCE($9, is_active),
			updated_at = now()
		WHERE notification_type = $1`,
		t.String(),
		patch.Name, patch.TitleTemplate, patch.MessageTemplate,
		patch.EmailSubjectTemplate, patch.EmailBodyTemplate, patch.SMSTemplate,
		priority, patch.IsActive)
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() > 0, nil
}
