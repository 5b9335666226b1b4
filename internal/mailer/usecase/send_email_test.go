package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/collegeprep/notifier/internal/mailer/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendEmail(t *testing.T) {
	repo := newFakeMailerRepo()
	smtp := &fakeSMTP{}
	s := newPasswordUsecase(t, repo, &fakeDir{}, smtp)

	err := s.sendEmail(context.Background(), sendInput{
		RecipientEmail: "ada@example.com",
		RecipientName:  "Ada",
		Subject:        "Hello",
		Body:           "<p>Hi</p>",
		EmailType:      entity.EmailTypeNotification,
	})
	require.NoError(t, err)

	require.Len(t, repo.emailLogs, 1)
	assert.Len(t, repo.emailLogs[0].ContentHash, 64)
	assert.Equal(t, []int64{1}, repo.sentLogIDs, "the audit row is flipped to sent")
	require.Len(t, smtp.sent, 1)
	assert.Equal(t, []string{"ada@example.com"}, smtp.sent[0].To)
}

func TestSendEmailDuplicateSuppressed(t *testing.T) {
	repo := newFakeMailerRepo()
	repo.duplicate = true
	smtp := &fakeSMTP{}
	s := newPasswordUsecase(t, repo, &fakeDir{}, smtp)

	err := s.sendEmail(context.Background(), sendInput{
		RecipientEmail: "ada@example.com",
		Subject:        "Hello",
		Body:           "<p>Hi</p>",
		EmailType:      entity.EmailTypeNotification,
	})
	require.NoError(t, err)

	assert.Empty(t, repo.emailLogs, "a suppressed send leaves no log row")
	assert.Empty(t, smtp.sent)
}

func TestSendEmailRespectsOptOut(t *testing.T) {
	repo := newFakeMailerRepo()
	unsubscribed := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	repo.emailPref = &entity.EmailPreference{
		Email:          "ada@example.com",
		UnsubscribedAt: &unsubscribed,
	}
	smtp := &fakeSMTP{}
	s := newPasswordUsecase(t, repo, &fakeDir{}, smtp)

	err := s.sendEmail(context.Background(), sendInput{
		RecipientEmail: "ada@example.com",
		Subject:        "Hello",
		Body:           "<p>Hi</p>",
		EmailType:      entity.EmailTypeNotification,
	})
	require.NoError(t, err)
	assert.Empty(t, smtp.sent)
}

func TestSendEmailSkipOptOutCheck(t *testing.T) {
	repo := newFakeMailerRepo()
	unsubscribed := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	repo.emailPref = &entity.EmailPreference{
		Email:          "ada@example.com",
		UnsubscribedAt: &unsubscribed,
	}
	smtp := &fakeSMTP{}
	s := newPasswordUsecase(t, repo, &fakeDir{}, smtp)

	// transactional mail goes through regardless of the unsubscribe
	err := s.sendEmail(context.Background(), sendInput{
		RecipientEmail:  "ada@example.com",
		Subject:         "Reset your password",
		Body:            "<p>link</p>",
		EmailType:       entity.EmailTypePasswordReset,
		SkipOptOutCheck: true,
	})
	require.NoError(t, err)
	assert.Len(t, smtp.sent, 1)
}
