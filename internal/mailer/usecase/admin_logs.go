package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/collegeprep/notifier/internal/mailer/entity"
	"github.com/collegeprep/notifier/internal/pkg/goerror"
)

type ListEmailLogsInput struct {
	Status    string `validate:"omitempty,oneof=pending sent failed"`
	EmailType string `validate:"omitempty,oneof=welcome password_reset notification monthly_report"`
	Recipient string `validate:"omitempty,email"`
	Limit     int32  `validate:"omitempty,gte=1,lte=100"`
	Offset    int32  `validate:"omitempty,gte=0"`
}

// ListEmailLogs returns the delivery audit trail; admin only.
func (s *Usecase) ListEmailLogs(ctx context.Context, in ListEmailLogsInput) (_ []*entity.EmailLog, err error) {
	ctx, span := s.startSpan(ctx, "ListEmailLogs")
	defer span.End()

	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}

	if in.Limit == 0 {
		in.Limit = 20
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	items, err := s.repoDB.ListEmailLogs(ctx, entity.EmailLogFilter{
		Status:    entity.EmailStatus(in.Status),
		EmailType: entity.EmailType(in.EmailType),
		Recipient: in.Recipient,
		Limit:     in.Limit,
		Offset:    in.Offset,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list email logs", "error", err)
		return nil, goerror.NewServer(err)
	}

	return items, nil
}

type EmailStatsInput struct {
	SinceDays int32 `validate:"omitempty,gte=1,lte=365"`
}

// EmailStats aggregates delivery outcomes over a trailing window; admin only.
func (s *Usecase) EmailStats(ctx context.Context, in EmailStatsInput) (_ *entity.EmailStats, err error) {
	ctx, span := s.startSpan(ctx, "EmailStats")
	defer span.End()

	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}

	if in.SinceDays == 0 {
		in.SinceDays = 30
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	stats, err := s.repoDB.EmailStats(ctx, s.clock.Now().UTC().Add(-time.Duration(in.SinceDays)*24*time.Hour))
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get email stats", "error", err)
		return nil, goerror.NewServer(err)
	}

	return stats, nil
}
