package db

import (
	"context"
	"errors"

	"github.com/collegeprep/notifier/internal/mailer/entity"
	"github.com/jackc/pgx/v5"
)

func (s *DB) GetEmailPreference(ctx context.Context, email string) (_ *entity.EmailPreference, err error) {
	ctx, span := s.startSpan(ctx, "GetEmailPreference")
	defer func() { s.endSpan(span, err) }()

	var pref entity.EmailPreference
	err = s.conn.QueryRow(ctx, `
		SELECT email, email_notifications_enabled, report_emails_enabled, marketing_enabled,
			unsubscribed_at, updated_at
		FROM email_preferences
		WHERE lower(email) = lower($1)`, email,
	).Scan(&pref.Email, &pref.EmailNotificationsEnabled, &pref.ReportEmailsEnabled,
		&pref.MarketingEnabled, &pref.UnsubscribedAt, &pref.UpdatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &pref, nil
}

// UpsertEmailPreference merges a partial patch over the stored row, seeding
// from defaults when the address has no row yet.
func (s *DB) UpsertEmailPreference(ctx context.Context, email string, patch entity.EmailPreferencePatch) (_ *entity.EmailPreference, err error) {
	ctx, span := s.startSpan(ctx, "UpsertEmailPreference")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	pref := entity.DefaultEmailPreference(email)
	err = tx.QueryRow(ctx, `
		SELECT email, email_notifications_enabled, report_emails_enabled, marketing_enabled
		FROM email_preferences
		WHERE lower(email) = lower($1)
		FOR UPDATE`, email,
	).Scan(&pref.Email, &pref.EmailNotificationsEnabled, &pref.ReportEmailsEnabled, &pref.MarketingEnabled)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, s.mapError(err)
	}

	patch.Apply(&pref)

	_, err = tx.Exec(ctx, `
		INSERT INTO email_preferences (email, email_notifications_enabled, report_emails_enabled, marketing_enabled, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (email) DO UPDATE SET
			email_notifications_enabled = EXCLUDED.email_notifications_enabled,
			report_emails_enabled = EXCLUDED.report_emails_enabled,
			marketing_enabled = EXCLUDED.marketing_enabled,
			updated_at = now()`,
		pref.Email, pref.EmailNotificationsEnabled, pref.ReportEmailsEnabled, pref.MarketingEnabled)
	if err != nil {
		return nil, s.mapError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, s.mapError(err)
	}

	return &pref, nil
}

// Unsubscribe stamps unsubscribed_at and turns every switch off. It is
// idempotent; unsubscribing twice keeps the first timestamp.
func (s *DB) Unsubscribe(ctx context.Context, email string) (err error) {
	ctx, span := s.startSpan(ctx, "Unsubscribe")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		INSERT INTO email_preferences (email, email_notifications_enabled, report_emails_enabled, marketing_enabled, unsubscribed_at, updated_at)
		VALUES ($1, FALSE, FALSE, FALSE, now(), now())
		ON CONFLICT (email) DO UPDATE SET
			email_notifications_enabled = FALSE,
			report_emails_enabled = FALSE,
			marketing_enabled = FALSE,
			unsubscribed_at = COALESCE(email_preferences.unsubscribed_at, now()),
			updated_at = now()`, email)

	return s.mapError(err)
}
