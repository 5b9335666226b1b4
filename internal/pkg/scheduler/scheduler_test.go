package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/collegeprep/notifier/internal/pkg/goroutine"
	"github.com/stretchr/testify/assert"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func TestTickRunsWithoutGate(t *testing.T) {
	r := New(fixedClock{now: time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)}, goroutine.NewManager(1))

	ran := false
	r.tick(context.Background(), Job{
		Name: "always",
		Run: func(context.Context) error {
			ran = true
			return nil
		},
	})

	assert.True(t, ran)
}

func TestTickGatedByWhen(t *testing.T) {
	midMonth := fixedClock{now: time.Date(2026, 8, 15, 6, 0, 0, 0, time.UTC)}
	firstOfMonth := fixedClock{now: time.Date(2026, 9, 1, 6, 0, 0, 0, time.UTC)}

	job := func(ran *bool) Job {
		return Job{
			Name: "monthly",
			When: func(now time.Time) bool { return now.Day() == 1 },
			Run: func(context.Context) error {
				*ran = true
				return nil
			},
		}
	}

	var ran bool
	New(midMonth, goroutine.NewManager(1)).tick(context.Background(), job(&ran))
	assert.False(t, ran, "gate rejects mid-month ticks")

	New(firstOfMonth, goroutine.NewManager(1)).tick(context.Background(), job(&ran))
	assert.True(t, ran)
}

func TestTickSwallowsRunError(t *testing.T) {
	r := New(fixedClock{now: time.Now()}, goroutine.NewManager(1))

	// must not panic or propagate; the job keeps its schedule
	r.tick(context.Background(), Job{
		Name: "failing",
		Run:  func(context.Context) error { return errors.New("boom") },
	})
}
