package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/collegeprep/notifier/internal/directory"
	"github.com/collegeprep/notifier/internal/notification/entity"
	"github.com/collegeprep/notifier/internal/pkg/goerror"
)

type CreateInput struct {
	UserID   int64  `validate:"required,gt=0"`
	UserType string `validate:"required"`
	Type     string `validate:"required"`

	// Title and Message may be empty when Variables is set; the type's
	// template produces them instead.
	Title    string `validate:"omitempty,max=200"`
	Message  string
	Priority string
	Category string

	ActionURL  string `validate:"omitempty,max=500"`
	ActionText string `validate:"omitempty,max=100"`

	RelatedCourseID     *int64
	RelatedAssignmentID *int64
	RelatedEnrollmentID *int64
	RelatedPaymentID    *int64

	// ExpiresInDays, when positive, sets the expiry to now + N days (UTC).
	ExpiresInDays int32 `validate:"omitempty,gte=1,lte=365"`

	// Variables feeds the template engine. A referenced placeholder missing
	// from this map aborts the creation.
	Variables map[string]any
}

// Create validates, optionally renders from the type's template, persists
// the ledger row, then dispatches channel delivery. Delivery failures never
// fail the creation; render and validation failures always do.
func (s *Usecase) Create(ctx context.Context, in CreateInput) (_ *entity.Notification, err error) {
	ctx, span := s.startSpan(ctx, "Create")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	userType, err := directory.ParseUserType(in.UserType)
	if err != nil {
		return nil, err
	}

	notifType, err := entity.ParseType(in.Type)
	if err != nil {
		return nil, err
	}

	priority, err := entity.ParsePriority(in.Priority)
	if err != nil {
		return nil, err
	}

	title, message := in.Title, in.Message
	var content deliverContent

	if in.Variables != nil {
		tpl, tplErr := s.repoDB.GetTemplateByType(ctx, notifType)
		if tplErr != nil && !errors.Is(tplErr, goerror.ErrNotFound) {
			slog.ErrorContext(ctx, "failed to repo get template by type", "notification_type", notifType.String(), "error", tplErr)
			return nil, goerror.NewServer(tplErr)
		}
		if tpl == nil {
			return nil, goerror.NewBusiness("no template registered for type "+notifType.String(), goerror.CodeNotFound)
		}

		rendered, renderErr := tpl.Render(in.Variables)
		if renderErr != nil {
			return nil, goerror.NewInvalidInput(renderErr)
		}
		title, message = rendered.Title, rendered.Message

		if in.Priority == "" && tpl.DefaultPriority != "" {
			priority = tpl.DefaultPriority
		}

		content, renderErr = renderChannelContent(tpl, in.Variables)
		if renderErr != nil {
			return nil, goerror.NewInvalidInput(renderErr)
		}
	}

	if title == "" || message == "" {
		return nil, goerror.NewInvalidInput(nil, "title", "title and message are required when no template variables are given")
	}

	var expiresAt *time.Time
	if in.ExpiresInDays > 0 {
		t := s.clock.Now().UTC().AddDate(0, 0, int(in.ExpiresInDays))
		expiresAt = &t
	}

	data := entity.CreateNotification{
		ID:                  s.uid.Generate(),
		UserID:              in.UserID,
		UserType:            userType,
		Type:                notifType,
		Title:               title,
		Message:             message,
		Priority:            priority,
		Category:            in.Category,
		ActionURL:           in.ActionURL,
		ActionText:          in.ActionText,
		RelatedCourseID:     in.RelatedCourseID,
		RelatedAssignmentID: in.RelatedAssignmentID,
		RelatedEnrollmentID: in.RelatedEnrollmentID,
		RelatedPaymentID:    in.RelatedPaymentID,
		ExpiresAt:           expiresAt,
	}

	if err := s.repoDB.CreateNotification(ctx, data); err != nil {
		slog.ErrorContext(ctx, "failed to repo create notification", "user_id", in.UserID, "notification_type", notifType.String(), "error", err)
		return nil, goerror.NewServer(err)
	}

	n := &entity.Notification{
		ID:        data.ID,
		UserID:    data.UserID,
		UserType:  data.UserType,
		Type:      data.Type,
		Title:     data.Title,
		Message:   data.Message,
		Priority:  data.Priority,
		Category:  data.Category,
		CreatedAt: s.clock.Now().UTC(),
		ExpiresAt: data.ExpiresAt,
	}

	n.SentVia = joinChannels(s.deliver(ctx, n, content))

	return n, nil
}

// AdminCreateInput is the manual creation payload used by admins.
type AdminCreateInput struct {
	CreateInput
}

// AdminCreate is the HTTP-facing manual creation; only admins may call it.
func (s *Usecase) AdminCreate(ctx context.Context, in AdminCreateInput) (*entity.Notification, error) {
	ctx, span := s.startSpan(ctx, "AdminCreate")
	defer span.End()

	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}

	return s.Create(ctx, in.CreateInput)
}

func renderChannelContent(tpl *entity.Template, vars map[string]any) (deliverContent, error) {
	var content deliverContent
	var err error

	if tpl.EmailSubjectTemplate != "" {
		if content.EmailSubject, err = entity.RenderText(tpl.EmailSubjectTemplate, vars); err != nil {
			return deliverContent{}, err
		}
	}
	if tpl.EmailBodyTemplate != "" {
		if content.EmailBody, err = entity.RenderText(tpl.EmailBodyTemplate, vars); err != nil {
			return deliverContent{}, err
		}
	}
	if tpl.SMSTemplate != "" {
		if content.SMSText, err = entity.RenderText(tpl.SMSTemplate, vars); err != nil {
			return deliverContent{}, err
		}
	}

	return content, nil
}
