package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/collegeprep/notifier/internal/directory"
	"github.com/collegeprep/notifier/internal/notification/entity"
)

// UpsertPreference merges a partial update into the (user, type) preference
// row, creating the row from defaults when it does not exist. Last write
// wins across concurrent upserts; the row is locked for the merge.
func (s *DB) UpsertPreference(ctx context.Context, userID int64, userType directory.UserType, t entity.Type, patch entity.PreferencePatch) (_ *entity.Preference, err error) {
	ctx, span := s.startSpan(ctx, "UpsertPreference")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	pref := entity.DefaultPreference(userID, userType, t)
	row := tx.QueryRow(ctx, `
		SELECT in_app_enabled, email_enabled, sms_enabled, push_enabled,
			COALESCE(quiet_hours_start, ''), COALESCE(quiet_hours_end, ''),
			digest_mode, COALESCE(digest_frequency, 'daily')
		FROM notification_preferences
		WHERE user_id = $1 AND user_type = $2 AND notification_type = $3
		FOR UPDATE`,
		userID, userType.String(), t.String())

	scanErr := row.Scan(
		&pref.InAppEnabled, &pref.EmailEnabled, &pref.SMSEnabled, &pref.PushEnabled,
		&pref.QuietHoursStart, &pref.QuietHoursEnd,
		&pref.DigestMode, &pref.DigestFrequency,
	)
	if scanErr != nil && !errors.Is(scanErr, pgx.ErrNoRows) {
		err = scanErr
		return nil, s.mapError(err)
	}

	patch.Apply(&pref)

	_, err = tx.Exec(ctx, `
		INSERT INTO notification_preferences (
			user_id, user_type, notification_type,
			in_app_enabled, email_enabled, sms_enabled, push_enabled,
			quiet_hours_start, quiet_hours_end, digest_mode, digest_frequency
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''), $10, $11)
		ON CONFLICT (user_id, user_type, notification_type) DO UPDATE SET
			in_app_enabled = EXCLUDED.in_app_enabled,
			email_enabled = EXCLUDED.email_enabled,
			sms_enabled = EXCLUDED.sms_enabled,
			push_enabled = EXCLUDED.push_enabled,
			quiet_hours_start = EXCLUDED.quiet_hours_start,
			quiet_hours_end = EXCLUDED.quiet_hours_end,
			digest_mode = EXCLUDED.digest_mode,
			digest_frequency = EXCLUDED.digest_frequency,
			updated_at = now()`,
		pref.UserID, pref.UserType.String(), pref.Type.String(),
		pref.InAppEnabled, pref.EmailEnabled, pref.SMSEnabled, pref.PushEnabled,
		pref.QuietHoursStart, pref.QuietHoursEnd, pref.DigestMode, pref.DigestFrequency)
	if err != nil {
		return nil, s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, s.mapError(err)
	}

	return &pref, nil
}
