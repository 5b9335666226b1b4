package inbound

import (
	"context"

	"github.com/collegeprep/notifier/internal/mailer/entity"
	"github.com/collegeprep/notifier/internal/mailer/usecase"
)

type ucConsumer interface {
	ConsumeUserRegistered(ctx context.Context, in usecase.ConsumeUserRegisteredInput) error
}

type uc interface {
	ucConsumer

	PasswordForgot(ctx context.Context, in usecase.PasswordForgotInput) error
	PasswordReset(ctx context.Context, in usecase.PasswordResetInput) error

	GetEmailPreference(ctx context.Context) (*entity.EmailPreference, error)
	UpdateEmailPreference(ctx context.Context, in usecase.UpdateEmailPreferenceInput) (*entity.EmailPreference, error)
	Unsubscribe(ctx context.Context, in usecase.UnsubscribeInput) error

	ListEmailLogs(ctx context.Context, in usecase.ListEmailLogsInput) ([]*entity.EmailLog, error)
	EmailStats(ctx context.Context, in usecase.EmailStatsInput) (*entity.EmailStats, error)

	TriggerReports(ctx context.Context, in usecase.TriggerReportsInput) error
	AdminRunSweep(ctx context.Context) (*usecase.SweepResult, error)
}
