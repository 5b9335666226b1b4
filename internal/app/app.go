package app

import (
	"context"
	"net/http"

	"github.com/collegeprep/notifier/internal/pkg/clock"
	"github.com/collegeprep/notifier/internal/pkg/config"
	"github.com/collegeprep/notifier/internal/pkg/goroutine"
	"github.com/collegeprep/notifier/internal/pkg/hash"
	"github.com/collegeprep/notifier/internal/pkg/idempotency"
	"github.com/collegeprep/notifier/internal/pkg/instrument"
	"github.com/collegeprep/notifier/internal/pkg/jwt"
	"github.com/collegeprep/notifier/internal/pkg/mail"
	"github.com/collegeprep/notifier/internal/pkg/messaging"
	"github.com/collegeprep/notifier/internal/pkg/router"
	"github.com/collegeprep/notifier/internal/pkg/scheduler"
	"github.com/collegeprep/notifier/internal/pkg/storage"
	"github.com/collegeprep/notifier/internal/pkg/uid"
	"github.com/collegeprep/notifier/internal/pkg/validator"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	sha       hash.Hash
	bcrypt    hash.Hash
	uid       uid.NumberID
	oid       uid.StringID
	uuid      uid.StringID
	jwt       jwt.JWT

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	idemp     idempotency.Idempotency
	mail      mail.Mail
	messaging messaging.Messaging
	storage   storage.Storage

	// server
	router     *router.Router
	httpServer *http.Server
	scheduler  *scheduler.Runner

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initDatabase()
	app.initCache()
	app.initMail()
	app.initStorage()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
