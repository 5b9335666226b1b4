package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/collegeprep/notifier/internal/pkg/clock"
	"github.com/collegeprep/notifier/internal/pkg/goroutine"
)

// Job is a named background task executed on a fixed interval.
type Job struct {
	// Name identifies the job in logs.
	Name string
	// Every is the tick interval.
	Every time.Duration
	// When, if set, gates each tick; the job body runs only when it returns
	// true for the tick time. Use it for calendar conditions like "first day
	// of the month".
	When func(now time.Time) bool
	// Run is the job body. Errors are logged, not propagated; the job keeps
	// its schedule.
	Run func(ctx context.Context) error
}

// Runner executes registered jobs on their intervals until the context ends.
type Runner struct {
	clock   clock.Clocker
	routine *goroutine.Manager
	jobs    []Job
}

// New creates a Runner.
func New(clk clock.Clocker, routine *goroutine.Manager) *Runner {
	return &Runner{clock: clk, routine: routine}
}

// Register adds a job. Register before Start; jobs added later are ignored.
func (r *Runner) Register(jobs ...Job) {
	r.jobs = append(r.jobs, jobs...)
}

// Start launches one goroutine per job through the goroutine manager.
func (r *Runner) Start(ctx context.Context) {
	for _, job := range r.jobs {
		r.routine.Go(ctx, func(pCtx context.Context) error {
			slog.InfoContext(pCtx, "scheduler job started", "job", job.Name, "every", job.Every.String())

			ticker := time.NewTicker(job.Every)
			defer ticker.Stop()

			for {
				select {
				case <-pCtx.Done():
					slog.InfoContext(pCtx, "scheduler job stopped", "job", job.Name)
					return nil
				case <-ticker.C:
					r.tick(pCtx, job)
				}
			}
		})
	}
}

func (r *Runner) tick(ctx context.Context, job Job) {
	now := r.clock.Now()
	if job.When != nil && !job.When(now) {
		return
	}

	if err := job.Run(ctx); err != nil {
		slog.ErrorContext(ctx, "scheduler job failed", "job", job.Name, "error", err)
	}
}
