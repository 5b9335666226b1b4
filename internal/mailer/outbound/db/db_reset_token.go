package db

import (
	"context"
	"fmt"
	"time"

	"github.com/collegeprep/notifier/internal/directory"
	"github.com/collegeprep/notifier/internal/mailer/entity"
	"github.com/jackc/pgx/v5"
)

func errUnknownUserType(userType directory.UserType) error {
	return fmt.Errorf("unknown user type: %s", userType)
}

func (s *DB) CreateResetToken(ctx context.Context, t entity.PasswordResetToken) (err error) {
	ctx, span := s.startSpan(ctx, "CreateResetToken")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		INSERT INTO password_reset_tokens (token_id, email, token_hash, ip_address, user_agent, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.Email, t.TokenHash, t.IPAddress, t.UserAgent, t.ExpiresAt)

	return s.mapError(err)
}

// CountRecentResetTokens counts reset requests for one address since the
// cutoff; the rate limit builds on it.
func (s *DB) CountRecentResetTokens(ctx context.Context, email string, since time.Time) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "CountRecentResetTokens")
	defer func() { s.endSpan(span, err) }()

	var count int64
	err = s.conn.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM password_reset_tokens
		WHERE lower(email) = lower($1) AND created_at >= $2`,
		email, since).Scan(&count)

	return count, s.mapError(err)
}

// GetValidResetToken looks up an unused, unexpired token by its digest.
func (s *DB) GetValidResetToken(ctx context.Context, tokenHash string) (_ *entity.PasswordResetToken, err error) {
	ctx, span := s.startSpan(ctx, "GetValidResetToken")
	defer func() { s.endSpan(span, err) }()

	var t entity.PasswordResetToken
	err = s.conn.QueryRow(ctx, `
		SELECT token_id, email, token_hash, is_used, used_at, created_at, expires_at
		FROM password_reset_tokens
		WHERE token_hash = $1 AND is_used = FALSE AND expires_at > now()`,
		tokenHash).Scan(&t.ID, &t.Email, &t.TokenHash, &t.IsUsed, &t.UsedAt, &t.CreatedAt, &t.ExpiresAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &t, nil
}

// ConsumeResetToken flips is_used exactly once. A false return means another
// request already consumed the token.
func (s *DB) ConsumeResetToken(ctx context.Context, tokenID int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "ConsumeResetToken")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		UPDATE password_reset_tokens
		SET is_used = TRUE, used_at = now()
		WHERE token_id = $1 AND is_used = FALSE`, tokenID)
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() > 0, nil
}

// DeleteExpiredResetTokens removes expired tokens that were never used; used
// tokens stay for audit.
func (s *DB) DeleteExpiredResetTokens(ctx context.Context) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "DeleteExpiredResetTokens")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		DELETE FROM password_reset_tokens
		WHERE expires_at <= now() AND is_used = FALSE`)
	if err != nil {
		return 0, s.mapError(err)
	}

	return tag.RowsAffected(), nil
}

// roleTable maps user types onto their account tables. Identifiers come from
// this closed map, never from input.
var roleTable = map[directory.UserType]struct {
	table string
	id    string
}{
	directory.UserTypeStudent: {table: "students", id: "student_id"},
	directory.UserTypeTeacher: {table: "teachers", id: "teacher_id"},
	directory.UserTypeAdmin:   {table: "admins", id: "admin_id"},
	directory.UserTypeParent:  {table: "parents", id: "parent_id"},
}

// UpdateUserPassword writes a new password hash to the role's account table.
func (s *DB) UpdateUserPassword(ctx context.Context, userType directory.UserType, userID int64, passwordHash string) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateUserPassword")
	defer func() { s.endSpan(span, err) }()

	rt, ok := roleTable[userType]
	if !ok {
		return s.mapError(errUnknownUserType(userType))
	}

	tag, err := s.conn.Exec(ctx,
		`UPDATE `+rt.table+` SET password_hash = $1, updated_at = now() WHERE `+rt.id+` = $2`,
		passwordHash, userID)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return s.mapError(pgx.ErrNoRows)
	}

	return nil
}

// GetUserPasswordHash reads the current password hash of the role's account.
func (s *DB) GetUserPasswordHash(ctx context.Context, userType directory.UserType, userID int64) (_ string, err error) {
	ctx, span := s.startSpan(ctx, "GetUserPasswordHash")
	defer func() { s.endSpan(span, err) }()

	rt, ok := roleTable[userType]
	if !ok {
		return "", s.mapError(errUnknownUserType(userType))
	}

	var hash string
	err = s.conn.QueryRow(ctx,
		`SELECT COALESCE(password_hash, '') FROM `+rt.table+` WHERE `+rt.id+` = $1`,
		userID).Scan(&hash)
	if err != nil {
		return "", s.mapError(err)
	}

	return hash, nil
}
