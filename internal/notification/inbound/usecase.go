package inbound

import (
	"context"

	"github.com/collegeprep/notifier/internal/notification/entity"
	"github.com/collegeprep/notifier/internal/notification/usecase"
)

type ucConsumer interface {
	ConsumeAssignmentCreated(ctx context.Context, in usecase.ConsumeAssignmentCreatedInput) error
	ConsumeGradePosted(ctx context.Context, in usecase.ConsumeGradePostedInput) error
	ConsumeAttendanceWarning(ctx context.Context, in usecase.ConsumeAttendanceWarningInput) error
	ConsumeUserRegistered(ctx context.Context, in usecase.ConsumeUserRegisteredInput) error
}

type uc interface {
	ucConsumer

	List(ctx context.Context, in usecase.ListInput) ([]*entity.Notification, error)
	UnreadCount(ctx context.Context) (int64, error)
	MarkRead(ctx context.Context, in usecase.MarkReadInput) error
	MarkAllRead(ctx context.Context) (int64, error)
	Delete(ctx context.Context, in usecase.DeleteInput) error

	AdminCreate(ctx context.Context, in usecase.AdminCreateInput) (*entity.Notification, error)
	NotifyCourse(ctx context.Context, in usecase.NotifyCourseInput) (int, error)

	ListTypes(ctx context.Context) ([]entity.Type, error)
	ListTemplates(ctx context.Context) ([]*entity.Template, error)
	UpdateTemplate(ctx context.Context, in usecase.UpdateTemplateInput) error

	ListPreferences(ctx context.Context) ([]*entity.Preference, error)
	UpdatePreference(ctx context.Context, in usecase.UpdatePreferenceInput) (*entity.Preference, error)
}
