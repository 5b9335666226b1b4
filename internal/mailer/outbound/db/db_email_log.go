package db

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/collegeprep/notifier/internal/mailer/entity"
	"github.com/jackc/pgx/v5"
)

const emailLogColumns = `
	email_log_id, recipient_email, COALESCE(recipient_name, ''),
	subject, body, email_type, status,
	COALESCE(error_message, ''), retry_count, COALESCE(content_hash, ''),
	related_user_id, COALESCE(related_user_type, ''),
	created_at, sent_at`

func scanEmailLog(row pgx.Row) (*entity.EmailLog, error) {
	var l entity.EmailLog
	var emailType, status string

	err := row.Scan(
		&l.ID, &l.RecipientEmail, &l.RecipientName,
		&l.Subject, &l.Body, &emailType, &status,
		&l.ErrorMessage, &l.RetryCount, &l.ContentHash,
		&l.RelatedUserID, &l.RelatedUserType,
		&l.CreatedAt, &l.SentAt,
	)
	if err != nil {
		return nil, err
	}

	l.EmailType = entity.EmailType(emailType)
	l.Status = entity.EmailStatus(status)
	return &l, nil
}

func (s *DB) CreateEmailLog(ctx context.Context, data entity.CreateEmailLog) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "CreateEmailLog")
	defer func() { s.endSpan(span, err) }()

	var id int64
	err = s.conn.QueryRow(ctx, `
		INSERT INTO email_logs (
			recipient_email, recipient_name, subject, body,
			email_type, status, content_hash, related_user_id, related_user_type
		) VALUES ($1, NULLIF($2, ''), $3, $4, $5, 'pending', NULLIF($6, ''), $7, NULLIF($8, ''))
		RETURNING email_log_id`,
		data.RecipientEmail, data.RecipientName, data.Subject, data.Body,
		data.EmailType.String(), data.ContentHash, data.RelatedUserID, data.RelatedUserType,
	).Scan(&id)
	if err != nil {
		return 0, s.mapError(err)
	}

	return id, nil
}

func (s *DB) MarkEmailSent(ctx context.Context, logID int64) (err error) {
	ctx, span := s.startSpan(ctx, "MarkEmailSent")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		UPDATE email_logs
		SET status = 'sent', sent_at = now(), error_message = NULL
		WHERE email_log_id = $1`, logID)

	return s.mapError(err)
}

func (s *DB) MarkEmailFailed(ctx context.Context, logID int64, errorMessage string) (err error) {
	ctx, span := s.startSpan(ctx, "MarkEmailFailed")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		UPDATE email_logs
		SET status = 'failed', error_message = $2, updated_at = now()
		WHERE email_log_id = $1`, logID, errorMessage)

	return s.mapError(err)
}

// HasRecentDuplicate reports whether the same content was already sent to
// the same address within the suppression window.
func (s *DB) HasRecentDuplicate(ctx context.Context, contentHash string, since time.Time) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "HasRecentDuplicate")
	defer func() { s.endSpan(span, err) }()

	var exists bool
	err = s.conn.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM email_logs
			WHERE content_hash = $1 AND status = 'sent' AND created_at >= $2)`,
		contentHash, since).Scan(&exists)

	return exists, s.mapError(err)
}

// ListRetryableEmails returns failed rows whose exponential backoff window
// has elapsed and whose retry budget is not exhausted.
func (s *DB) ListRetryableEmails(ctx context.Context, maxRetries int32, baseBackoff time.Duration, limit int32) (_ []*entity.EmailLog, err error) {
	ctx, span := s.startSpan(ctx, "ListRetryableEmails")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		SELECT `+emailLogColumns+`
		FROM email_logs
		WHERE status = 'failed'
			AND retry_count < $1
			AND updated_at <= now() - ($2 * interval '1 second' * power(2, retry_count))
		ORDER BY updated_at
		LIMIT $3`,
		maxRetries, int64(baseBackoff.Seconds()), limit)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	items := make([]*entity.EmailLog, 0, limit)
	for rows.Next() {
		l, scanErr := scanEmailLog(rows)
		if scanErr != nil {
			return nil, s.mapError(scanErr)
		}
		items = append(items, l)
	}

	return items, s.mapError(rows.Err())
}

// MarkEmailRetrying moves a failed row back to pending and spends one retry.
func (s *DB) MarkEmailRetrying(ctx context.Context, logID int64) (err error) {
	ctx, span := s.startSpan(ctx, "MarkEmailRetrying")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		UPDATE email_logs
		SET status = 'pending', retry_count = retry_count + 1, updated_at = now()
		WHERE email_log_id = $1 AND status = 'failed'`, logID)

	return s.mapError(err)
}

func (s *DB) ListEmailLogs(ctx context.Context, filter entity.EmailLogFilter) (_ []*entity.EmailLog, err error) {
	ctx, span := s.startSpan(ctx, "ListEmailLogs")
	defer func() { s.endSpan(span, err) }()

	var sb strings.Builder
	sb.WriteString(`SELECT ` + emailLogColumns + ` FROM email_logs WHERE TRUE`)

	args := []any{}
	if filter.Status != "" {
		args = append(args, filter.Status.String())
		sb.WriteString(" AND status = $" + strconv.Itoa(len(args)))
	}
	if filter.EmailType != "" {
		args = append(args, filter.EmailType.String())
		sb.WriteString(" AND email_type = $" + strconv.Itoa(len(args)))
	}
	if filter.Recipient != "" {
		args = append(args, filter.Recipient)
		sb.WriteString(" AND lower(recipient_email) = lower($" + strconv.Itoa(len(args)) + ")")
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

	items := make([]*entity.EmailLog, 0, filter.Limit)
	for rows.Next() {
		l, scanErr := scanEmailLog(rows)
		if scanErr != nil {
			return nil, s.mapError(scanErr)
		}
		items = append(items, l)
	}

	return items, s.mapError(rows.Err())
}

func (s *DB) EmailStats(ctx context.Context, since time.Time) (_ *entity.EmailStats, err error) {
	ctx, span := s.startSpan(ctx, "EmailStats")
	defer func() { s.endSpan(span, err) }()

	stats := &entity.EmailStats{ByType: map[string]int64{}}
	err = s.conn.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'sent'),
			COUNT(*) FILTER (WHERE status = 'failed'),
			COUNT(*) FILTER (WHERE status = 'pending')
		FROM email_logs
		WHERE created_at >= $1`, since,
	).Scan(&stats.Total, &stats.Sent, &stats.Failed, &stats.Pending)
	if err != nil {
		return nil, s.mapError(err)
	}

	rows, err := s.conn.Query(ctx, `
		SELECT email_type, COUNT(*)
		FROM email_logs
		WHERE created_at >= $1
		GROUP BY email_type`, since)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var emailType string
		var count int64
		if scanErr := rows.Scan(&emailType, &count); scanErr != nil {
			return nil, s.mapError(scanErr)
		}
		stats.ByType[emailType] = count
	}

	return stats, s.mapError(rows.Err())
}
