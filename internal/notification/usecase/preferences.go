package usecase

import (
	"context"
	"log/slog"

	"github.com/collegeprep/notifier/internal/notification/entity"
	"github.com/collegeprep/notifier/internal/pkg/goerror"
)

// ListPreferences returns the caller's stored preference rows. Types with no
// row fall back to priority-based defaults at delivery time and are not
// materialized here.
func (s *Usecase) ListPreferences(ctx context.Context) (_ []*entity.Preference, err error) {
	ctx, span := s.startSpan(ctx, "ListPreferences")
	defer span.End()

	ident, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.repoDB.ListPreferences(ctx, ident.UserID, ident.UserType)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list preferences", "user_id", ident.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return items, nil
}

type UpdatePreferenceInput struct {
	Type  string `validate:"required"`
	Patch entity.PreferencePatch
}

// UpdatePreference applies a partial update to the caller's preference for
// one notification type. A first-time update seeds the row from defaults
// before overlaying the patch, so untouched fields keep their default values.
func (s *Usecase) UpdatePreference(ctx context.Context, in UpdatePreferenceInput) (_ *entity.Preference, err error) {
	ctx, span := s.startSpan(ctx, "UpdatePreference")
	defer span.End()

	ident, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	t, err := entity.ParseType(in.Type)
	if err != nil {
		return nil, err
	}

	pref, err := s.repoDB.UpsertPreference(ctx, ident.UserID, ident.UserType, t, in.Patch)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo upsert preference", "user_id", ident.UserID, "notification_type", t.String(), "error", err)
		return nil, goerror.NewServer(err)
	}

	return pref, nil
}
