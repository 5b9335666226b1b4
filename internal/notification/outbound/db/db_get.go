package db

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/collegeprep/notifier/internal/directory"
	"github.com/collegeprep/notifier/internal/notification/entity"
)

const notificationColumns = `
	notification_id, user_id, user_type, notification_type,
	title, message, priority, COALESCE(category, ''),
	COALESCE(action_url, ''), COALESCE(action_text, ''),
	related_course_id, related_assignment_id, related_enrollment_id, related_payment_id,
	is_read, read_at, is_deleted,
	COALESCE(sent_via, ''), email_sent, email_sent_at, sms_sent, sms_sent_at, push_sent, push_sent_at,
	created_at, expires_at`

func scanNotification(row pgx.Row) (*entity.Notification, error) {
	var n entity.Notification
	var userType, notifType, priority string

	err := row.Scan(
		&n.ID, &n.UserID, &userType, &notifType,
		&n.Title, &n.Message, &priority, &n.Category,
		&n.ActionURL, &n.ActionText,
		&n.RelatedCourseID, &n.RelatedAssignmentID, &n.RelatedEnrollmentID, &n.RelatedPaymentID,
		&n.IsRead, &n.ReadAt, &n.IsDeleted,
		&n.SentVia, &n.EmailSent, &n.EmailSentAt, &n.SMSSent, &n.SMSSentAt, &n.PushSent, &n.PushSentAt,
		&n.CreatedAt, &n.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}

	n.UserType = directory.UserType(userType)
	n.Type = entity.Type(notifType)
	n.Priority = entity.Priority(priority)
	return &n, nil
}

func (s *DB) ListNotifications(ctx context.Context, userID int64, userType directory.UserType, filter entity.ListFilter) (_ []*entity.Notification, err error) {
	ctx, span := s.startSpan(ctx, "ListNotifications")
	defer func() { s.endSpan(span, err) }()

	var sb strings.Builder
	sb.WriteString(`SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1 AND user_type = $2 AND ` + visiblePredicate)

	args := []any{userID, userType.String()}
	if filter.UnreadOnly {
		sb.WriteString(" AND is_read = FALSE")
	}
	if filter.Type != "" {
		args = append(args, filter.Type.String())
		sb.WriteString(" AND notification_type = $" + strconv.Itoa(len(args)))
	}
	if filter.Priority != "" {
		args = append(args, filter.Priority.String())
		sb.WriteString(" AND priority = $" + strconv.Itoa(len(args)))
	}
	if filter.Since != nil {
		args = append(args, *filter.Since)
		sb.WriteString(" AND created_at >= $" + strconv.Itoa(len(args)))
	}

	sb.WriteString(" ORDER BY created_at DESC")

	args = append(args, filter.Limit)
	sb.WriteString(" LIMIT $" + strconv.Itoa(len(args)))
	args = append(args, filter.Offset)
	sb.WriteString(" OFFSET $" + strconv.Itoa(len(args)))

	rows, err := s.conn.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	items := make([]*entity.Notification, 0, filter.Limit)
	for rows.Next() {
		n, scanErr := scanNotification(rows)
		if scanErr != nil {
			return nil, s.mapError(scanErr)
		}
		items = append(items, n)
	}

	return items, s.mapError(rows.Err())
}

func (s *DB) CountUnreadNotifications(ctx context.Context, userID int64, userType directory.UserType) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "CountUnreadNotifications")
	defer func() { s.endSpan(span, err) }()

	var count int64
	err = s.conn.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM notifications
		WHERE user_id = $1 AND user_type = $2 AND is_read = FALSE AND `+visiblePredicate,
		userID, userType.String()).Scan(&count)

	return count, s.mapError(err)
}

func (s *DB) GetTemplateByType(ctx context.Context, t entity.Type) (_ *entity.Template, err error) {
	ctx, span := s.startSpan(ctx, "GetTemplateByType")
	defer func() { s.endSpan(span, err) }()

	row := s.conn.QueryRow(ctx, `
		SELECT template_id, notification_type, name,
			title_template, message_template,
			COALESCE(email_subject_template, ''), COALESCE(email_body_template, ''), COALESCE(sms_template, ''),
			default_priority, COALESCE(default_channels, ''), is_active
		FROM notification_templates
		WHERE notification_type = $1 AND is_active = TRUE`, t.String())

	tpl, err := scanTemplate(row)
	if err != nil {
		return nil, s.mapError(err)
	}

	return tpl, nil
}

func (s *DB) ListTemplates(ctx context.Context) (_ []*entity.Template, err error) {
	ctx, span := s.startSpan(ctx, "ListTemplates")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		SELECT template_id, notification_type, name,
			title_template, message_template,
			COALESCE(email_subject_template, ''), COALESCE(email_body_template, ''), COALESCE(sms_template, ''),
			default_priority, COALESCE(default_channels, ''), is_active
		FROM notification_templates
		ORDER BY notification_type`)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	items := make([]*entity.Template, 0, 32)
	for rows.Next() {
		tpl, scanErr := scanTemplate(rows)
		if scanErr != nil {
			return nil, s.mapError(scanErr)
		}
		items = append(items, tpl)
	}

	return items, s.mapError(rows.Err())
}

func scanTemplate(row pgx.Row) (*entity.Template, error) {
	var tpl entity.Template
	var notifType, priority, channels string

	err := row.Scan(
		&tpl.ID, &notifType, &tpl.Name,
		&tpl.TitleTemplate, &tpl.MessageTemplate,
		&tpl.EmailSubjectTemplate, &tpl.EmailBodyTemplate, &tpl.SMSTemplate,
		&priority, &channels, &tpl.IsActive,
	)
	if err != nil {
		return nil, err
	}

	tpl.Type = entity.Type(notifType)
	tpl.DefaultPriority = entity.Priority(priority)
	for _, raw := range strings.Split(channels, ",") {
		if raw = strings.TrimSpace(raw); raw != "" {
			tpl.DefaultChannels = append(tpl.DefaultChannels, entity.Channel(raw))
		}
	}

	return &tpl, nil
}

func (s *DB) GetPreference(ctx context.Context, userID int64, userType directory.UserType, t entity.Type) (_ *entity.Preference, err error) {
	ctx, span := s.startSpan(ctx, "GetPreference")
	defer func() { s.endSpan(span, err) }()

	row := s.conn.QueryRow(ctx, `
		SELECT user_id, user_type, notification_type,
			in_app_enabled, email_enabled, sms_enabled, push_enabled,
			COALESCE(quiet_hours_start, ''), COALESCE(quiet_hours_end, ''),
			digest_mode, COALESCE(digest_frequency, 'daily')
		FROM notification_preferences
		WHERE user_id = $1 AND user_type = $2 AND notification_type = $3`,
		userID, userType.String(), t.String())

	pref, err := scanPreference(row)
	if err != nil {
		return nil, s.mapError(err)
	}

	return pref, nil
}

func (s *DB) ListPreferences(ctx context.Context, userID int64, userType directory.UserType) (_ []*entity.Preference, err error) {
	ctx, span := s.startSpan(ctx, "ListPreferences")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		SELECT user_id, user_type, notification_type,
			in_app_enabled, email_enabled, sms_enabled, push_enabled,
			COALESCE(quiet_hours_start, ''), COALESCE(quiet_hours_end, ''),
			digest_mode, COALESCE(digest_frequency, 'daily')
		FROM notification_preferences
		WHERE user_id = $1 AND user_type = $2
		ORDER BY notification_type`,
		userID, userType.String())
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	items := make([]*entity.Preference, 0, 8)
	for rows.Next() {
		pref, scanErr := scanPreference(rows)
		if scanErr != nil {
			return nil, s.mapError(scanErr)
		}
		items = append(items, pref)
	}

	return items, s.mapError(rows.Err())
}

func scanPreference(row pgx.Row) (*entity.Preference, error) {
	var pref entity.Preference
	var userType, notifType string

	err := row.Scan(
		&pref.UserID, &userType, &notifType,
		&pref.InAppEnabled, &pref.EmailEnabled, &pref.SMSEnabled, &pref.PushEnabled,
		&pref.QuietHoursStart, &pref.QuietHoursEnd,
		&pref.DigestMode, &pref.DigestFrequency,
	)
	if err != nil {
		return nil, err
	}

	pref.UserType = directory.UserType(userType)
	pref.Type = entity.Type(notifType)
	return &pref, nil
}

// IsEmailOptedOut reports whether the address disabled email delivery or
// unsubscribed entirely. An absent email preference row means opted in.
func (s *DB) IsEmailOptedOut(ctx context.Context, email string) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "IsEmailOptedOut")
	defer func() { s.endSpan(span, err) }()

	var optedOut bool
	err = s.conn.QueryRow(ctx, `
		SELECT COALESCE(
			(SELECT email_notifications_enabled = FALSE OR unsubscribed_at IS NOT NULL
			 FROM email_preferences
			 WHERE lower(email) = lower($1)),
			FALSE)`, email).Scan(&optedOut)

	return optedOut, s.mapError(err)
}
