package mailer

import (
	"context"

	"github.com/collegeprep/notifier/internal/directory"
	"github.com/collegeprep/notifier/internal/mailer/inbound"
	"github.com/collegeprep/notifier/internal/mailer/outbound/archive"
	"github.com/collegeprep/notifier/internal/mailer/outbound/db"
	"github.com/collegeprep/notifier/internal/mailer/outbound/email"
	"github.com/collegeprep/notifier/internal/mailer/usecase"
	"github.com/collegeprep/notifier/internal/pkg/clock"
	"github.com/collegeprep/notifier/internal/pkg/config"
	"github.com/collegeprep/notifier/internal/pkg/goroutine"
	"github.com/collegeprep/notifier/internal/pkg/hash"
	"github.com/collegeprep/notifier/internal/pkg/idempotency"
	"github.com/collegeprep/notifier/internal/pkg/instrument"
	"github.com/collegeprep/notifier/internal/pkg/mail"
	"github.com/collegeprep/notifier/internal/pkg/messaging"
	"github.com/collegeprep/notifier/internal/pkg/router"
	"github.com/collegeprep/notifier/internal/pkg/storage"
	"github.com/collegeprep/notifier/internal/pkg/uid"
	"github.com/collegeprep/notifier/internal/pkg/validator"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Dependency struct {
	Ctx         context.Context
	DBConn      *pgxpool.Pool
	Messaging   messaging.Messaging
	Config      config.Config
	Instrument  instrument.Instrumentation
	UID         uid.NumberID
	OID         uid.StringID
	UUID        uid.StringID
	Clock       clock.Clocker
	Goroutine   *goroutine.Manager
	Validator   validator.Validator
	Router      *router.Router
	Mail        mail.Mail
	Storage     storage.Storage
	Idempotency idempotency.Idempotency
	Directory   directory.Directory
	SHA         hash.Hash
	Bcrypt      hash.Hash
}

// Usecase is the mailer's business layer, exported so the scheduler can
// reach the sweep and report jobs.
type Usecase = usecase.Usecase

func New(dep Dependency) (*Usecase, error) {
	dbMailer := db.NewDB(dep.DBConn, dep.Instrument)
	repoMail := email.New(dep.Mail, dep.Instrument)
	reportArchive := archive.New(dep.Storage, dep.Config.GetString("modules.mailer.report_bucket"), dep.Instrument)

	uc := usecase.NewMailer(usecase.Dependency{
		RepoDB:      dbMailer,
		Config:      dep.Config,
		UID:         dep.UID,
		OID:         dep.OID,
		Clock:       dep.Clock,
		Validator:   dep.Validator,
		RepoMail:    repoMail,
		Archive:     reportArchive,
		Directory:   dep.Directory,
		Idempotency: dep.Idempotency,
		SHA:         dep.SHA,
		Bcrypt:      dep.Bcrypt,
		Goroutine:   dep.Goroutine,
		Instrument:  dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)
	if dep.Ctx != nil {
		inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)
	}

	return uc, nil
}
