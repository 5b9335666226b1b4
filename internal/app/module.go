package app

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/collegeprep/notifier/internal/directory"
	"github.com/collegeprep/notifier/internal/mailer"
	"github.com/collegeprep/notifier/internal/notification"
	"github.com/collegeprep/notifier/internal/pkg/scheduler"
)

func (a *App) initModules() {
	dir := directory.NewDB(a.dbConn, a.ins)

	if a.config.GetBool("modules.notification.enabled") {
		if err := notification.New(notification.Dependency{
			Ctx:        a.ctx,
			DBConn:     a.dbConn,
			Messaging:  a.messaging,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			UUID:       a.uuid,
			Clock:      a.clock,
			Goroutine:  a.goroutine,
			Validator:  a.validator,
			Router:     a.router,
			Mail:       a.mail,
			Directory:  dir,
		}); err != nil {
			slog.Error("failed to init module notification", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.mailer.enabled") {
		mailerUC, err := mailer.New(mailer.Dependency{
			Ctx:         a.ctx,
			DBConn:      a.dbConn,
			Messaging:   a.messaging,
			Config:      a.config,
			Instrument:  a.ins,
			UID:         a.uid,
			OID:         a.oid,
			UUID:        a.uuid,
			Clock:       a.clock,
			Goroutine:   a.goroutine,
			Validator:   a.validator,
			Router:      a.router,
			Mail:        a.mail,
			Storage:     a.storage,
			Idempotency: a.idemp,
			Directory:   dir,
			SHA:         a.sha,
			Bcrypt:      a.bcrypt,
		})
		if err != nil {
			slog.Error("failed to init module mailer", "error", err)
			os.Exit(1)
		}

		a.initScheduler(mailerUC)
	}
}

func (a *App) initScheduler(mailerUC *mailer.Usecase) {
	if !a.config.GetBool("modules.mailer.scheduler_enabled") {
		return
	}

	sweepEvery := a.config.GetMinute("modules.mailer.sweep_interval_minutes")
	if sweepEvery <= 0 {
		sweepEvery = 15 * time.Minute
	}
	reportHour := a.config.GetInt("modules.mailer.report_hour")

	a.scheduler = scheduler.New(a.clock, a.goroutine)
	a.scheduler.Register(
		scheduler.Job{
			Name:  "mailer.sweep",
			Every: sweepEvery,
			Run: func(ctx context.Context) error {
				_, err := mailerUC.RunSweep(ctx)
				return err
			},
		},
		scheduler.Job{
			Name:  "mailer.monthly_reports",
			Every: time.Hour,
			When: func(now time.Time) bool {
				return now.Day() == 1 && now.Hour() == reportHour
			},
			Run: mailerUC.GenerateDueReports,
		},
	)
	a.scheduler.Start(a.ctx)
}
