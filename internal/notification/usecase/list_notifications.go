package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/collegeprep/notifier/internal/notification/entity"
	"github.com/collegeprep/notifier/internal/pkg/goerror"
)

type ListInput struct {
	UnreadOnly bool
	Type       string
	Priority   string
	SinceDays  int32 `validate:"omitempty,gte=1,lte=365"`
	Limit      int32 `validate:"omitempty,gte=1,lte=100"`
	Offset     int32 `validate:"omitempty,gte=0"`
}

// List returns the caller's visible notifications, newest first. Deleted and
// expired rows never appear regardless of filters.
func (s *Usecase) List(ctx context.Context, in ListInput) (_ []*entity.Notification, err error) {
	ctx, span := s.startSpan(ctx, "List")
	defer span.End()

	ident, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	if in.Limit == 0 {
		in.Limit = 20
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	filter := entity.ListFilter{
		UnreadOnly: in.UnreadOnly,
		Limit:      in.Limit,
		Offset:     in.Offset,
	}

	if in.Type != "" {
		t, parseErr := entity.ParseType(in.Type)
		if parseErr != nil {
			return nil, parseErr
		}
		filter.Type = t
	}
	if in.Priority != "" {
		p, parseErr := entity.ParsePriority(in.Priority)
		if parseErr != nil {
			return nil, parseErr
		}
		filter.Priority = p
	}
	if in.SinceDays > 0 {
		since := s.clock.Now().UTC().Add(-time.Duration(in.SinceDays) * 24 * time.Hour)
		filter.Since = &since
	}

	items, err := s.repoDB.ListNotifications(ctx, ident.UserID, ident.UserType, filter)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list notifications", "user_id", ident.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return items, nil
}

// UnreadCount counts the caller's visible unread notifications.
func (s *Usecase) UnreadCount(ctx context.Context) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "UnreadCount")
	defer span.End()

	ident, err := s.requireAuth(ctx)
	if err != nil {
		return 0, err
	}

	count, err := s.repoDB.CountUnreadNotifications(ctx, ident.UserID, ident.UserType)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo count unread notifications", "user_id", ident.UserID, "error", err)
		return 0, goerror.NewServer(err)
	}

	return count, nil
}
