package usecase

import (
	"context"
	"log/slog"

	"github.com/collegeprep/notifier/internal/pkg/goerror"
)

type MarkReadInput struct {
	ID int64 `validate:"required,gt=0"`
}

// MarkRead flips a single visible notification to read. Re-marking an
// already-read notification succeeds without changing read_at.
func (s *Usecase) MarkRead(ctx context.Context, in MarkReadInput) error {
	ctx, span := s.startSpan(ctx, "MarkRead")
	defer span.End()

	ident, err := s.requireAuth(ctx)
	if err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	found, err := s.repoDB.MarkNotificationRead(ctx, ident.UserID, ident.UserType, in.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo mark notification read", "user_id", ident.UserID, "notification_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}
	if !found {
		return goerror.NewBusiness("notification not found", goerror.CodeNotFound)
	}

	return nil
}

// MarkAllRead marks every visible unread notification of the caller and
// returns how many changed. Zero is a valid outcome, not an error.
func (s *Usecase) MarkAllRead(ctx context.Context) (int64, error) {
	ctx, span := s.startSpan(ctx, "MarkAllRead")
	defer span.End()

	ident, err := s.requireAuth(ctx)
	if err != nil {
		return 0, err
	}

	count, err := s.repoDB.MarkAllNotificationsRead(ctx, ident.UserID, ident.UserType)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo mark all notifications read", "user_id", ident.UserID, "error", err)
		return 0, goerror.NewServer(err)
	}

	return count, nil
}

type DeleteInput struct {
	ID int64 `validate:"required,gt=0"`
}

// Delete soft-deletes one of the caller's notifications. The row stays in
// the ledger but disappears from every read path.
func (s *Usecase) Delete(ctx context.Context, in DeleteInput) error {
	ctx, span := s.startSpan(ctx, "Delete")
	defer span.End()

	ident, err := s.requireAuth(ctx)
	if err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	found, err := s.repoDB.SoftDeleteNotification(ctx, ident.UserID, ident.UserType, in.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete notification", "user_id", ident.UserID, "notification_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}
	if !found {
		return goerror.NewBusiness("notification not found", goerror.CodeNotFound)
	}

	return nil
}
