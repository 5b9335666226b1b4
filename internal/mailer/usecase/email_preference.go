package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/collegeprep/notifier/internal/mailer/entity"
	"github.com/collegeprep/notifier/internal/pkg/goerror"
)

// GetEmailPreference returns the caller's email switchboard; an address with
// no stored row gets the defaults back.
func (s *Usecase) GetEmailPreference(ctx context.Context) (_ *entity.EmailPreference, err error) {
	ctx, span := s.startSpan(ctx, "GetEmailPreference")
	defer span.End()

	ident, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	pref, err := s.repoDB.GetEmailPreference(ctx, ident.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		def := entity.DefaultEmailPreference(ident.Email)
		return &def, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get email preference", "email", ident.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	return pref, nil
}

type UpdateEmailPreferenceInput struct {
	Patch entity.EmailPreferencePatch
}

// UpdateEmailPreference applies a partial update to the caller's switches.
func (s *Usecase) UpdateEmailPreference(ctx context.Context, in UpdateEmailPreferenceInput) (_ *entity.EmailPreference, err error) {
	ctx, span := s.startSpan(ctx, "UpdateEmailPreference")
	defer span.End()

	ident, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	pref, err := s.repoDB.UpsertEmailPreference(ctx, ident.Email, in.Patch)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo upsert email preference", "email", ident.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	return pref, nil
}

type UnsubscribeInput struct {
	Email string `validate:"required,email"`
	Token string `validate:"required"`
}

// Unsubscribe is the public one-click opt-out reached from email footers.
// The token is the digest of the address and a server-side secret, so a link
// only works for the address it was minted for.
func (s *Usecase) Unsubscribe(ctx context.Context, in UnsubscribeInput) error {
	ctx, span := s.startSpan(ctx, "Unsubscribe")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	if !s.sha.Verify(in.Token, in.Email+s.cfg.GetString("modules.mailer.unsubscribe_secret")) {
		return goerror.NewBusiness("invalid unsubscribe token", goerror.CodeUnauthorized)
	}

	if err := s.repoDB.Unsubscribe(ctx, in.Email); err != nil {
		slog.ErrorContext(ctx, "failed to repo unsubscribe", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
