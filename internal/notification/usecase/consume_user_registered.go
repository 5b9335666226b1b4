package usecase

import (
	"context"
	"log/slog"

	"github.com/collegeprep/notifier/internal/notification/entity"
)

type ConsumeUserRegisteredInput struct {
	UserID   int64  `validate:"required,gt=0"`
	UserType string `validate:"required"`
	Email    string `validate:"required,email"`
	FullName string `validate:"required"`
}

// ConsumeUserRegistered creates the in-app welcome notification for a fresh
// account. The welcome email itself is sent by the mailer's own consumer of
// the same event.
func (s *Usecase) ConsumeUserRegistered(ctx context.Context, in ConsumeUserRegisteredInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeUserRegistered")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "invalid user registered event, dropping", "error", err)
		return nil
	}

	_, err := s.Create(ctx, CreateInput{
		UserID:   in.UserID,
		UserType: in.UserType,
		Type:     entity.TypeAccountCreated.String(),
		Variables: map[string]any{
			"full_name": in.FullName,
		},
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create account created notification", "user_id", in.UserID, "error", err)
		return err
	}

	return nil
}
