package usecase

import (
	"context"
	"time"

	"github.com/collegeprep/notifier/internal/directory"
	"github.com/collegeprep/notifier/internal/notification/entity"
	"github.com/collegeprep/notifier/internal/pkg/clock"
	"github.com/collegeprep/notifier/internal/pkg/config"
	"github.com/collegeprep/notifier/internal/pkg/goroutine"
	"github.com/collegeprep/notifier/internal/pkg/instrument"
	"github.com/collegeprep/notifier/internal/pkg/mail"
	"github.com/collegeprep/notifier/internal/pkg/uid"
	"github.com/collegeprep/notifier/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	CreateNotification(ctx context.Context, data entity.CreateNotification) error
	ListNotifications(ctx context.Context, userID int64, userType directory.UserType, filter entity.ListFilter) ([]*entity.Notification, error)
	CountUnreadNotifications(ctx context.Context, userID int64, userType directory.UserType) (int64, error)
	MarkNotificationRead(ctx context.Context, userID int64, userType directory.UserType, notificationID int64) (bool, error)
	MarkAllNotificationsRead(ctx context.Context, userID int64, userType directory.UserType) (int64, error)
	SoftDeleteNotification(ctx context.Context, userID int64, userType directory.UserType, notificationID int64) (bool, error)
	MarkChannelSent(ctx context.Context, cs entity.ChannelSent) error

	CreateDeliveryLog(ctx context.Context, dl entity.CreateDeliveryLog) (int64, error)
	UpdateDeliveryLog(ctx context.Context, logID int64, status entity.DeliveryStatus, errorMessage string, deliveredAt *time.Time) error

	GetTemplateByType(ctx context.Context, t entity.Type) (*entity.Template, error)
	ListTemplates(ctx context.Context) ([]*entity.Template, error)
	UpdateTemplate(ctx context.Context, t entity.Type, patch entity.TemplatePatch) (bool, error)

	GetPreference(ctx context.Context, userID int64, userType directory.UserType, t entity.Type) (*entity.Preference, error)
	ListPreferences(ctx context.Context, userID int64, userType directory.UserType) ([]*entity.Preference, error)
	UpsertPreference(ctx context.Context, userID int64, userType directory.UserType, t entity.Type, patch entity.PreferencePatch) (*entity.Preference, error)

	IsEmailOptedOut(ctx context.Context, email string) (bool, error)
}

type repoMail interface {
	Send(ctx context.Context, msg mail.Message) error
}

type Usecase struct {
	repoDB    repoDB
	cfg       config.Config
	uid       uid.NumberID
	clock     clock.Clocker
	validator validator.Validator
	repoMail  repoMail
	directory directory.Directory
	routine   *goroutine.Manager
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoDB     repoDB
	Config     config.Config
	UID        uid.NumberID
	Clock      clock.Clocker
	Validator  validator.Validator
	RepoMail   repoMail
	Directory  directory.Directory
	Goroutine  *goroutine.Manager
	Instrument instrument.Instrumentation
}

func NewNotification(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		cfg:       dep.Config,
		uid:       dep.UID,
		clock:     dep.Clock,
		validator: dep.Validator,
		repoMail:  dep.RepoMail,
		directory: dep.Directory,
		routine:   dep.Goroutine,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.usecase").Start(ctx, name)
}
