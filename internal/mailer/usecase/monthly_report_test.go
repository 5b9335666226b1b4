package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/collegeprep/notifier/internal/directory"
	"github.com/collegeprep/notifier/internal/mailer/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodWindow(t *testing.T) {
	from, to := periodWindow(2026, 3)

	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), to)
}

func TestPeriodWindowYearBoundary(t *testing.T) {
	from, to := periodWindow(2025, 12)

	assert.Equal(t, time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), to)
}

type fakeArchive struct {
	keys   []string
	putErr error
}

func (f *fakeArchive) PutHTML(_ context.Context, key, _ string) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	f.keys = append(f.keys, key)
	return key, nil
}

func newReportUsecase(t *testing.T, repo *fakeMailerRepo, smtp *fakeSMTP, arch *fakeArchive) *Usecase {
	t.Helper()

	s := newPasswordUsecase(t, repo, &fakeDir{}, smtp)
	s.archive = arch
	return s
}

func reportRecipient() *directory.UserRef {
	return &directory.UserRef{ID: 7, Type: directory.UserTypeStudent, Email: "ada@example.com", Name: "Ada"}
}

func TestGenerateOneMarksSent(t *testing.T) {
	repo := newFakeMailerRepo()
	repo.studentStats = entity.StudentMonthlyStats{TotalClasses: 8, ClassesAttended: 6, AssignmentsCompleted: 4, AverageGrade: 87.5}
	smtp := &fakeSMTP{}
	arch := &fakeArchive{}
	s := newReportUsecase(t, repo, smtp, arch)

	err := s.generateOne(context.Background(), entity.ReportTypeStudentMonthly, reportRecipient(), 2026, 7)
	require.NoError(t, err)

	require.Len(t, repo.reports, 1)
	assert.Equal(t, "ada@example.com", repo.reports[0].RecipientEmail)

	require.Contains(t, repo.generatedReports, int64(1), "stats land on the row before delivery")
	stats := repo.generatedReports[1]
	assert.Equal(t, int64(8), stats.TotalClasses)
	assert.Equal(t, int64(6), stats.ClassesAttended)
	assert.InDelta(t, 75.0, stats.AttendancePercentage, 0.001)
	assert.Equal(t, 87.5, stats.AverageGrade)

	assert.Len(t, arch.keys, 1)
	require.Len(t, smtp.sent, 1)
	assert.Equal(t, []int64{1}, repo.sentReports)
	assert.Empty(t, repo.failedReports)
}

func TestGenerateOneEmailFailureMarksFailed(t *testing.T) {
	repo := newFakeMailerRepo()
	smtp := &fakeSMTP{sendErr: errors.New("smtp down")}
	arch := &fakeArchive{}
	s := newReportUsecase(t, repo, smtp, arch)

	err := s.generateOne(context.Background(), entity.ReportTypeStudentMonthly, reportRecipient(), 2026, 7)
	require.Error(t, err)

	assert.Empty(t, repo.sentReports, "an undelivered report never reads as sent")
	require.Contains(t, repo.failedReports, int64(1))
	assert.Contains(t, repo.failedReports[1], "smtp down")
}

func TestGenerateOneArchiveFailureMarksFailed(t *testing.T) {
	repo := newFakeMailerRepo()
	smtp := &fakeSMTP{}
	arch := &fakeArchive{putErr: errors.New("bucket gone")}
	s := newReportUsecase(t, repo, smtp, arch)

	err := s.generateOne(context.Background(), entity.ReportTypeStudentMonthly, reportRecipient(), 2026, 7)
	require.Error(t, err)

	assert.Empty(t, smtp.sent, "nothing goes out without an archived report")
	require.Contains(t, repo.failedReports, int64(1))
	assert.Contains(t, repo.failedReports[1], "bucket gone")
}

func TestGenerateOneOptOutStaysGenerated(t *testing.T) {
	repo := newFakeMailerRepo()
	repo.emailPref = &entity.EmailPreference{Email: "ada@example.com", EmailNotificationsEnabled: true, ReportEmailsEnabled: false}
	smtp := &fakeSMTP{}
	arch := &fakeArchive{}
	s := newReportUsecase(t, repo, smtp, arch)

	err := s.generateOne(context.Background(), entity.ReportTypeStudentMonthly, reportRecipient(), 2026, 7)
	require.NoError(t, err)

	assert.Empty(t, smtp.sent)
	assert.Empty(t, repo.sentReports)
	assert.Empty(t, repo.failedReports)
	assert.Contains(t, repo.generatedReports, int64(1), "a skipped recipient keeps the generated row")
}
