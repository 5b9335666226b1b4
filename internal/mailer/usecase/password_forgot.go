package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/collegeprep/notifier/internal/mailer/entity"
	"github.com/collegeprep/notifier/internal/pkg/goerror"
)

// resetRateLimit caps reset requests per address per window.
const resetRateLimit = 3
const resetRateWindow = time.Hour

type PasswordForgotInput struct {
	Email     string `validate:"required,email"`
	IPAddress string `validate:"omitempty"`
	UserAgent string `validate:"omitempty,max=512"`
}

// PasswordForgot issues a reset token and emails it. The response never
// reveals whether the address exists; only the rate limit is surfaced.
func (s *Usecase) PasswordForgot(ctx context.Context, in PasswordForgotInput) error {
	ctx, span := s.startSpan(ctx, "PasswordForgot")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	recent, err := s.repoDB.CountRecentResetTokens(ctx, in.Email, s.clock.Now().UTC().Add(-resetRateWindow))
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo count recent reset tokens", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}
	if recent >= resetRateLimit {
		return goerror.NewBusiness("too many reset requests, try again later", goerror.CodeTooManyRequest)
	}

	ref, err := s.directory.FindByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "password reset requested for unknown email", "email", in.Email)
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo resolve user by email", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	rawToken := s.oid.Generate() + s.oid.Generate()
	tokenHash, err := s.sha.Hash(rawToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash reset token", "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.CreateResetToken(ctx, entity.PasswordResetToken{
		ID:        s.uid.Generate(),
		Email:     in.Email,
		TokenHash: string(tokenHash),
		IPAddress: in.IPAddress,
		UserAgent: in.UserAgent,
		ExpiresAt: s.clock.Now().UTC().Add(s.cfg.GetHour("modules.mailer.reset_token_ttl_hours")),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo create reset token", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	resetURL := s.cfg.GetString("app.web") + "/reset-password?token=" + url.QueryEscape(rawToken)
	body := fmt.Sprintf(`<p>Hi %s,</p>
<p>We received a request to reset your password. Click the link below to choose a new one:</p>
<p><a href="%s">Reset your password</a></p>
<p>The link expires in %d hours. If you did not request this, you can ignore this email.</p>`,
		ref.Name, resetURL, int(s.cfg.GetHour("modules.mailer.reset_token_ttl_hours").Hours()))

	if err := s.sendEmail(ctx, sendInput{
		RecipientEmail:  in.Email,
		RecipientName:   ref.Name,
		Subject:         "Reset your password",
		Body:            body,
		EmailType:       entity.EmailTypePasswordReset,
		RelatedUserID:   &ref.ID,
		RelatedUserType: ref.Type.String(),
		SkipOptOutCheck: true,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to send password reset email", "email", in.Email, "error", err)
	}

	return nil
}
