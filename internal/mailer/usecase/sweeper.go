package usecase

import (
	"context"
	"log/slog"
	"time"
)

// retryBaseBackoff seeds the 60s, 120s, 240s retry schedule.
const retryBaseBackoff = time.Minute

// retryMaxAttempts caps resends of a failed email.
const retryMaxAttempts = 3

// retryBatchSize bounds one sweep so a backlog cannot hog the worker.
const retryBatchSize = 50

// SweepResult reports what one sweeper pass did.
type SweepResult struct {
	TokensDeleted int64
	EmailsRetried int
}

// RunSweep deletes expired unused reset tokens and resends failed emails
// whose backoff window elapsed. It is safe to run on a schedule and on
// demand at the same time; both paths go through conditional updates.
func (s *Usecase) RunSweep(ctx context.Context) (*SweepResult, error) {
	ctx, span := s.startSpan(ctx, "RunSweep")
	defer span.End()

	result := &SweepResult{}

	deleted, err := s.repoDB.DeleteExpiredResetTokens(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete expired reset tokens", "error", err)
	} else {
		result.TokensDeleted = deleted
	}

	retryable, err := s.repoDB.ListRetryableEmails(ctx, retryMaxAttempts, retryBaseBackoff, retryBatchSize)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list retryable emails", "error", err)
		return result, err
	}

	for _, email := range retryable {
		if err := s.repoDB.MarkEmailRetrying(ctx, email.ID); err != nil {
			slog.ErrorContext(ctx, "failed to repo mark email retrying", "email_log_id", email.ID, "error", err)
			continue
		}

		if err := s.deliver(ctx, email.ID, email.RecipientEmail, email.Subject, email.Body); err != nil {
			slog.WarnContext(ctx, "email retry failed",
				"email_log_id", email.ID, "retry_count", email.RetryCount+1, "error", err)
			continue
		}

		result.EmailsRetried++
	}

	if result.TokensDeleted > 0 || result.EmailsRetried > 0 {
		slog.InfoContext(ctx, "sweep finished",
			"tokens_deleted", result.TokensDeleted, "emails_retried", result.EmailsRetried)
	}

	return result, nil
}

// AdminRunSweep is the HTTP-facing trigger; admin only.
func (s *Usecase) AdminRunSweep(ctx context.Context) (*SweepResult, error) {
	ctx, span := s.startSpan(ctx, "AdminRunSweep")
	defer span.End()

	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}

	return s.RunSweep(ctx)
}
