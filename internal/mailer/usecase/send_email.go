package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/collegeprep/notifier/internal/mailer/entity"
	"github.com/collegeprep/notifier/internal/pkg/mail"
	"github.com/sethvargo/go-retry"
)

// sendTimeout bounds one SMTP conversation.
const sendTimeout = 30 * time.Second

// dedupWindow is how long an identical (recipient, subject, body) send
// suppresses a repeat.
const dedupWindow = 24 * time.Hour

type sendInput struct {
	RecipientEmail string
	RecipientName  string
	Subject        string
	Body           string
	EmailType      entity.EmailType

	RelatedUserID   *int64
	RelatedUserType string

	// SkipOptOutCheck lets transactional mail (password resets) through
	// even for unsubscribed addresses.
	SkipOptOutCheck bool
}

// sendEmail is the single funnel every outbound email passes through: the
// opt-out check, the duplicate window, the audit row, the send itself and
// the final status flip all happen here.
func (s *Usecase) sendEmail(ctx context.Context, in sendInput) error {
	if !in.SkipOptOutCheck {
		pref, err := s.repoDB.GetEmailPreference(ctx, in.RecipientEmail)
		if err == nil && pref != nil && (!pref.EmailNotificationsEnabled || pref.UnsubscribedAt != nil) {
			slog.InfoContext(ctx, "recipient opted out, skipping email", "email", in.RecipientEmail, "email_type", in.EmailType.String())
			return nil
		}
	}

	digest, err := s.sha.Hash(in.RecipientEmail + "\x00" + in.Subject + "\x00" + in.Body)
	if err != nil {
		return err
	}
	contentHash := string(digest)

	duplicate, err := s.repoDB.HasRecentDuplicate(ctx, contentHash, s.clock.Now().UTC().Add(-dedupWindow))
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo check duplicate email", "email", in.RecipientEmail, "error", err)
	}
	if duplicate {
		slog.InfoContext(ctx, "duplicate email suppressed", "email", in.RecipientEmail, "email_type", in.EmailType.String())
		return nil
	}

	logID, err := s.repoDB.CreateEmailLog(ctx, entity.CreateEmailLog{
		RecipientEmail:  in.RecipientEmail,
		RecipientName:   in.RecipientName,
		Subject:         in.Subject,
		Body:            in.Body,
		EmailType:       in.EmailType,
		ContentHash:     contentHash,
		RelatedUserID:   in.RelatedUserID,
		RelatedUserType: in.RelatedUserType,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create email log", "email", in.RecipientEmail, "error", err)
		return err
	}

	return s.deliver(ctx, logID, in.RecipientEmail, in.Subject, in.Body)
}

// deliver runs the SMTP send for an already-logged email and records the
// outcome on its log row.
func (s *Usecase) deliver(ctx context.Context, logID int64, recipient, subject, body string) error {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	backoff := retry.WithMaxRetries(2, retry.NewFibonacci(500*time.Millisecond))
	sendErr := retry.Do(sendCtx, backoff, func(ctx context.Context) error {
		if err := s.repoMail.Send(ctx, mail.Message{
			To:       []string{recipient},
			Subject:  subject,
			HTMLBody: body,
		}); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})

	if sendErr != nil {
		if err := s.repoDB.MarkEmailFailed(ctx, logID, sendErr.Error()); err != nil {
			slog.ErrorContext(ctx, "failed to repo mark email failed", "email_log_id", logID, "error", err)
		}
		slog.ErrorContext(ctx, "email delivery failed", "email_log_id", logID, "email", recipient, "error", sendErr)
		return sendErr
	}

	if err := s.repoDB.MarkEmailSent(ctx, logID); err != nil {
		slog.ErrorContext(ctx, "failed to repo mark email sent", "email_log_id", logID, "error", err)
	}

	return nil
}
