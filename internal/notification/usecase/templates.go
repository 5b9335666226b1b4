package usecase

import (
	"context"
	"log/slog"

	"github.com/collegeprep/notifier/internal/notification/entity"
	"github.com/collegeprep/notifier/internal/pkg/goerror"
)

// ListTypes returns every notification type the system knows about.
func (s *Usecase) ListTypes(ctx context.Context) ([]entity.Type, error) {
	_, span := s.startSpan(ctx, "ListTypes")
	defer span.End()

	return entity.AllTypes(), nil
}

// ListTemplates returns all content templates; admin only.
func (s *Usecase) ListTemplates(ctx context.Context) (_ []*entity.Template, err error) {
	ctx, span := s.startSpan(ctx, "ListTemplates")
	defer span.End()

	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}

	items, err := s.repoDB.ListTemplates(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list templates", "error", err)
		return nil, goerror.NewServer(err)
	}

	return items, nil
}

type UpdateTemplateInput struct {
	Type  string `validate:"required"`
	Patch entity.TemplatePatch
}

// UpdateTemplate applies a partial update to a type's template; admin only.
func (s *Usecase) UpdateTemplate(ctx context.Context, in UpdateTemplateInput) error {
	ctx, span := s.startSpan(ctx, "UpdateTemplate")
	defer span.End()

	if _, err := s.requireAdmin(ctx); err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	t, err := entity.ParseType(in.Type)
	if err != nil {
		return err
	}

	if in.Patch.DefaultPriority != nil {
		if _, err := entity.ParsePriority(in.Patch.DefaultPriority.String()); err != nil {
			return err
		}
	}

	found, err := s.repoDB.UpdateTemplate(ctx, t, in.Patch)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo update template", "notification_type", t.String(), "error", err)
		return goerror.NewServer(err)
	}
	if !found {
		return goerror.NewBusiness("template not found", goerror.CodeNotFound)
	}

	return nil
}
