package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/collegeprep/notifier/internal/mailer/entity"
	"github.com/collegeprep/notifier/internal/pkg/goerror"
)

type PasswordResetInput struct {
	Token       string `validate:"required"`
	NewPassword string `validate:"required,min=8,max=128"`
}

// PasswordReset consumes a reset token exactly once and writes the new
// password hash. Reusing a consumed token fails the same way as a bogus one.
func (s *Usecase) PasswordReset(ctx context.Context, in PasswordResetInput) error {
	ctx, span := s.startSpan(ctx, "PasswordReset")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	tokenHash, err := s.sha.Hash(in.Token)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash reset token", "error", err)
		return goerror.NewServer(err)
	}

	token, err := s.repoDB.GetValidResetToken(ctx, string(tokenHash))
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("invalid or expired reset token", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get reset token", "error", err)
		return goerror.NewServer(err)
	}

	ref, err := s.directory.FindByEmail(ctx, token.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("invalid or expired reset token", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo resolve user by email", "email", token.Email, "error", err)
		return goerror.NewServer(err)
	}

	currentHash, err := s.repoDB.GetUserPasswordHash(ctx, ref.Type, ref.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get current password hash", "user_id", ref.ID, "error", err)
		return goerror.NewServer(err)
	}
	if currentHash != "" && s.bcrypt.Verify(currentHash, in.NewPassword) {
		return goerror.NewBusiness("new password must differ from the current one", goerror.CodeInvalidInput)
	}

	consumed, err := s.repoDB.ConsumeResetToken(ctx, token.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo consume reset token", "token_id", token.ID, "error", err)
		return goerror.NewServer(err)
	}
	if !consumed {
		return goerror.NewBusiness("invalid or expired reset token", goerror.CodeUnauthorized)
	}

	newHash, err := s.bcrypt.Hash(in.NewPassword)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash new password", "user_id", ref.ID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.UpdateUserPassword(ctx, ref.Type, ref.ID, string(newHash)); err != nil {
		slog.ErrorContext(ctx, "failed to repo update user password", "user_id", ref.ID, "error", err)
		return goerror.NewServer(err)
	}

	// the password is already changed; a lost confirmation must not undo it
	body := fmt.Sprintf(`<p>Hi %s,</p>
<p>Your password was just changed. If this was not you, reset it again immediately and contact support.</p>`, ref.Name)
	if err := s.sendEmail(ctx, sendInput{
		RecipientEmail:  token.Email,
		RecipientName:   ref.Name,
		Subject:         "Your password was changed",
		Body:            body,
		EmailType:       entity.EmailTypePasswordReset,
		RelatedUserID:   &ref.ID,
		RelatedUserType: ref.Type.String(),
		SkipOptOutCheck: true,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to send password change confirmation", "email", token.Email, "error", err)
	}

	return nil
}
