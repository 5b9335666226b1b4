package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/collegeprep/notifier/internal/mailer/entity"
)

type ConsumeUserRegisteredInput struct {
	UserID   int64  `validate:"required,gt=0"`
	UserType string `validate:"required"`
	Email    string `validate:"required,email"`
	FullName string `validate:"required"`
}

// ConsumeUserRegistered sends the welcome email to a fresh account.
// Malformed events are dropped, not retried.
func (s *Usecase) ConsumeUserRegistered(ctx context.Context, in ConsumeUserRegisteredInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeUserRegistered")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "invalid user registered event, dropping", "error", err)
		return nil
	}

	body := fmt.Sprintf(`<p>Hi %s,</p>
<p>Welcome to CollegePrep! Your account is ready.</p>
<p><a href="%s/login">Sign in</a> to browse courses and track your progress.</p>`,
		in.FullName, s.cfg.GetString("app.web"))

	if err := s.sendEmail(ctx, sendInput{
		RecipientEmail:  in.Email,
		RecipientName:   in.FullName,
		Subject:         "Welcome to CollegePrep",
		Body:            body,
		EmailType:       entity.EmailTypeWelcome,
		RelatedUserID:   &in.UserID,
		RelatedUserType: in.UserType,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to send welcome email", "user_id", in.UserID, "error", err)
		return err
	}

	return nil
}
