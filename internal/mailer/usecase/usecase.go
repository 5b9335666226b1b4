package usecase

import (
	"context"
	"time"

	"github.com/collegeprep/notifier/internal/directory"
	"github.com/collegeprep/notifier/internal/mailer/entity"
	"github.com/collegeprep/notifier/internal/pkg/clock"
	"github.com/collegeprep/notifier/internal/pkg/config"
	"github.com/collegeprep/notifier/internal/pkg/goerror"
	"github.com/collegeprep/notifier/internal/pkg/goroutine"
	"github.com/collegeprep/notifier/internal/pkg/hash"
	"github.com/collegeprep/notifier/internal/pkg/idempotency"
	"github.com/collegeprep/notifier/internal/pkg/instrument"
	"github.com/collegeprep/notifier/internal/pkg/jwt"
	"github.com/collegeprep/notifier/internal/pkg/mail"
	"github.com/collegeprep/notifier/internal/pkg/uid"
	"github.com/collegeprep/notifier/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	CreateResetToken(ctx context.Context, t entity.PasswordResetToken) error
	CountRecentResetTokens(ctx context.Context, email string, since time.Time) (int64, error)
	GetValidResetToken(ctx context.Context, tokenHash string) (*entity.PasswordResetToken, error)
	ConsumeResetToken(ctx context.Context, tokenID int64) (bool, error)
	DeleteExpiredResetTokens(ctx context.Context) (int64, error)
	UpdateUserPassword(ctx context.Context, userType directory.UserType, userID int64, passwordHash string) error
	GetUserPasswordHash(ctx context.Context, userType directory.UserType, userID int64) (string, error)

	CreateEmailLog(ctx context.Context, data entity.CreateEmailLog) (int64, error)
	MarkEmailSent(ctx context.Context, logID int64) error
	MarkEmailFailed(ctx context.Context, logID int64, errorMessage string) error
	HasRecentDuplicate(ctx context.Context, contentHash string, since time.Time) (bool, error)
	ListRetryableEmails(ctx context.Context, maxRetries int32, baseBackoff time.Duration, limit int32) ([]*entity.EmailLog, error)
	MarkEmailRetrying(ctx context.Context, logID int64) error
	ListEmailLogs(ctx context.Context, filter entity.EmailLogFilter) ([]*entity.EmailLog, error)
	EmailStats(ctx context.Context, since time.Time) (*entity.EmailStats, error)

	CreateReport(ctx context.Context, r entity.MonthlyReport) (int64, error)
	MarkReportGenerated(ctx context.Context, reportID int64, storageKey string, stats entity.ReportStats) error
	MarkReportSent(ctx context.Context, reportID int64) error
	FailReport(ctx context.Context, reportID int64, errorMessage string) error
	StudentMonthlyStats(ctx context.Context, studentID int64, from, to time.Time) (*entity.StudentMonthlyStats, error)
	TeacherMonthlyStats(ctx context.Context, teacherID int64, from, to time.Time) (*entity.TeacherMonthlyStats, error)
	AdminMonthlyStats(ctx context.Context, from, to time.Time) (*entity.AdminMonthlyStats, error)

	GetEmailPreference(ctx context.Context, email string) (*entity.EmailPreference, error)
	UpsertEmailPreference(ctx context.Context, email string, patch entity.EmailPreferencePatch) (*entity.EmailPreference, error)
	Unsubscribe(ctx context.Context, email string) error
}

type repoMail interface {
	Send(ctx context.Context, msg mail.Message) error
}

type repoArchive interface {
	PutHTML(ctx context.Context, key, html string) (string, error)
}

type Usecase struct {
	repoDB    repoDB
	cfg       config.Config
	uid       uid.NumberID
	oid       uid.StringID
	clock     clock.Clocker
	validator validator.Validator
	repoMail  repoMail
	archive   repoArchive
	directory directory.Directory
	idemp     idempotency.Idempotency
	sha       hash.Hash
	bcrypt    hash.Hash
	routine   *goroutine.Manager
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoDB      repoDB
	Config      config.Config
	UID         uid.NumberID
	OID         uid.StringID
	Clock       clock.Clocker
	Validator   validator.Validator
	RepoMail    repoMail
	Archive     repoArchive
	Directory   directory.Directory
	Idempotency idempotency.Idempotency
	SHA         hash.Hash
	Bcrypt      hash.Hash
	Goroutine   *goroutine.Manager
	Instrument  instrument.Instrumentation
}

func NewMailer(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		cfg:       dep.Config,
		uid:       dep.UID,
		oid:       dep.OID,
		clock:     dep.Clock,
		validator: dep.Validator,
		repoMail:  dep.RepoMail,
		archive:   dep.Archive,
		directory: dep.Directory,
		idemp:     dep.Idempotency,
		sha:       dep.SHA,
		bcrypt:    dep.Bcrypt,
		routine:   dep.Goroutine,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("mailer.usecase").Start(ctx, name)
}

type authIdentity struct {
	UserID   int64
	UserType directory.UserType
	Email    string
}

func (s *Usecase) requireAuth(ctx context.Context) (*authIdentity, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

	userType, err := directory.ParseUserType(clm.UserType)
	if err != nil {
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

	return &authIdentity{UserID: clm.UserID, UserType: userType, Email: clm.UserEmail}, nil
}

func (s *Usecase) requireAdmin(ctx context.Context) (*authIdentity, error) {
	ident, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	if ident.UserType != directory.UserTypeAdmin {
		return nil, goerror.NewBusiness("admin access required", goerror.CodeForbidden)
	}

	return ident, nil
}
