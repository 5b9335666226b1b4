package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/collegeprep/notifier/internal/directory"
	"github.com/collegeprep/notifier/internal/mailer/entity"
	"github.com/collegeprep/notifier/internal/pkg/goerror"
	"github.com/collegeprep/notifier/internal/pkg/hash"
	"github.com/collegeprep/notifier/internal/pkg/instrument"
	"github.com/collegeprep/notifier/internal/pkg/mail"
	"github.com/collegeprep/notifier/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type seqStringID struct{ n int }

func (s *seqStringID) Generate() string {
	s.n++
	return fmt.Sprintf("oid%08d", s.n)
}

type seqNumberID struct{ n int64 }

func (s *seqNumberID) Generate() int64 {
	s.n++
	return s.n
}

// stubConfig serves string and duration keys from maps; everything else is a
// zero value.
type stubConfig struct {
	strings map[string]string
	hours   map[string]int
}

func (c *stubConfig) Close() error                      { return nil }
func (c *stubConfig) GetSecond(string) time.Duration    { return 0 }
func (c *stubConfig) GetMinute(string) time.Duration    { return 0 }
func (c *stubConfig) GetHour(key string) time.Duration  { return time.Duration(c.hours[key]) * time.Hour }
func (c *stubConfig) GetDay(string) time.Duration       { return 0 }
func (c *stubConfig) GetInt(string) int                 { return 0 }
func (c *stubConfig) GetInt32(string) int32             { return 0 }
func (c *stubConfig) GetInt64(string) int64             { return 0 }
func (c *stubConfig) GetUint(string) uint               { return 0 }
func (c *stubConfig) GetUint16(string) uint16           { return 0 }
func (c *stubConfig) GetUint32(string) uint32           { return 0 }
func (c *stubConfig) GetUint64(string) uint64           { return 0 }
func (c *stubConfig) GetFloat32(string) float32         { return 0 }
func (c *stubConfig) GetFloat64(string) float64         { return 0 }
func (c *stubConfig) GetBool(string) bool               { return false }
func (c *stubConfig) GetString(key string) string       { return c.strings[key] }
func (c *stubConfig) GetBinary(string) []byte           { return nil }
func (c *stubConfig) GetArray(string) []string          { return nil }
func (c *stubConfig) GetMap(string) map[string]string   { return nil }

type fakeMailerRepo struct {
	recentTokens int64
	createdToken *entity.PasswordResetToken
	validToken   *entity.PasswordResetToken
	consumed     bool
	consumeOK    bool

	passwordHash    string
	updatedPassword string

	emailPref   *entity.EmailPreference
	duplicate   bool
	emailLogs   []entity.CreateEmailLog
	sentLogIDs  []int64
	failedLogs  map[int64]string

	reports          []entity.MonthlyReport
	generatedReports map[int64]entity.ReportStats
	reportKeys       map[int64]string
	sentReports      []int64
	failedReports    map[int64]string
	studentStats     entity.StudentMonthlyStats
}

func newFakeMailerRepo() *fakeMailerRepo {
	return &fakeMailerRepo{
		consumeOK:        true,
		failedLogs:       map[int64]string{},
		generatedReports: map[int64]entity.ReportStats{},
		reportKeys:       map[int64]string{},
		failedReports:    map[int64]string{},
	}
}

func (f *fakeMailerRepo) CreateResetToken(_ context.Context, t entity.PasswordResetToken) error {
	f.createdToken = &t
	return nil
}

func (f *fakeMailerRepo) CountRecentResetTokens(context.Context, string, time.Time) (int64, error) {
	return f.recentTokens, nil
}

func (f *fakeMailerRepo) GetValidResetToken(_ context.Context, tokenHash string) (*entity.PasswordResetToken, error) {
	if f.validToken == nil || f.validToken.TokenHash != tokenHash {
		return nil, goerror.ErrNotFound
	}
	return f.validToken, nil
}

func (f *fakeMailerRepo) ConsumeResetToken(context.Context, int64) (bool, error) {
	if !f.consumeOK {
		return false, nil
	}
	f.consumed = true
	return true, nil
}

func (f *fakeMailerRepo) DeleteExpiredResetTokens(context.Context) (int64, error) { return 0, nil }

func (f *fakeMailerRepo) UpdateUserPassword(_ context.Context, _ directory.UserType, _ int64, passwordHash string) error {
	f.updatedPassword = passwordHash
	return nil
}

func (f *fakeMailerRepo) GetUserPasswordHash(context.Context, directory.UserType, int64) (string, error) {
	return f.passwordHash, nil
}

func (f *fakeMailerRepo) CreateEmailLog(_ context.Context, data entity.CreateEmailLog) (int64, error) {
	f.emailLogs = append(f.emailLogs, data)
	return int64(len(f.emailLogs)), nil
}

func (f *fakeMailerRepo) MarkEmailSent(_ context.Context, logID int64) error {
	f.sentLogIDs = append(f.sentLogIDs, logID)
	return nil
}

func (f *fakeMailerRepo) MarkEmailFailed(_ context.Context, logID int64, errorMessage string) error {
	f.failedLogs[logID] = errorMessage
	return nil
}

func (f *fakeMailerRepo) HasRecentDuplicate(context.Context, string, time.Time) (bool, error) {
	return f.duplicate, nil
}

func (f *fakeMailerRepo) ListRetryableEmails(context.Context, int32, time.Duration, int32) ([]*entity.EmailLog, error) {
	return nil, nil
}

func (f *fakeMailerRepo) MarkEmailRetrying(context.Context, int64) error { return nil }

func (f *fakeMailerRepo) ListEmailLogs(context.Context, entity.EmailLogFilter) ([]*entity.EmailLog, error) {
	return nil, nil
}

func (f *fakeMailerRepo) EmailStats(context.Context, time.Time) (*entity.EmailStats, error) {
	return &entity.EmailStats{}, nil
}

func (f *fakeMailerRepo) CreateReport(_ context.Context, r entity.MonthlyReport) (int64, error) {
	f.reports = append(f.reports, r)
	return int64(len(f.reports)), nil
}

func (f *fakeMailerRepo) MarkReportGenerated(_ context.Context, reportID int64, storageKey string, stats entity.ReportStats) error {
	f.generatedReports[reportID] = stats
	f.reportKeys[reportID] = storageKey
	return nil
}

func (f *fakeMailerRepo) MarkReportSent(_ context.Context, reportID int64) error {
	f.sentReports = append(f.sentReports, reportID)
	return nil
}

func (f *fakeMailerRepo) FailReport(_ context.Context, reportID int64, errorMessage string) error {
	f.failedReports[reportID] = errorMessage
	return nil
}

func (f *fakeMailerRepo) StudentMonthlyStats(context.Context, int64, time.Time, time.Time) (*entity.StudentMonthlyStats, error) {
	st := f.studentStats
	return &st, nil
}

func (f *fakeMailerRepo) TeacherMonthlyStats(context.Context, int64, time.Time, time.Time) (*entity.TeacherMonthlyStats, error) {
	return &entity.TeacherMonthlyStats{}, nil
}

func (f *fakeMailerRepo) AdminMonthlyStats(context.Context, time.Time, time.Time) (*entity.AdminMonthlyStats, error) {
	return &entity.AdminMonthlyStats{}, nil
}

func (f *fakeMailerRepo) GetEmailPreference(context.Context, string) (*entity.EmailPreference, error) {
	if f.emailPref == nil {
		return nil, goerror.ErrNotFound
	}
	return f.emailPref, nil
}

func (f *fakeMailerRepo) UpsertEmailPreference(context.Context, string, entity.EmailPreferencePatch) (*entity.EmailPreference, error) {
	return nil, nil
}

func (f *fakeMailerRepo) Unsubscribe(context.Context, string) error { return nil }

type fakeDir struct {
	ref *directory.UserRef
}

func (f *fakeDir) Resolve(context.Context, directory.UserType, int64) (*directory.UserRef, error) {
	if f.ref == nil {
		return nil, goerror.ErrNotFound
	}
	return f.ref, nil
}

func (f *fakeDir) ResolveByEmail(context.Context, directory.UserType, string) (*directory.UserRef, error) {
	if f.ref == nil {
		return nil, goerror.ErrNotFound
	}
	return f.ref, nil
}

func (f *fakeDir) FindByEmail(context.Context, string) (*directory.UserRef, error) {
	if f.ref == nil {
		return nil, goerror.ErrNotFound
	}
	return f.ref, nil
}

func (f *fakeDir) ListCourseStudents(context.Context, int64) ([]directory.UserRef, error) {
	return nil, nil
}

func (f *fakeDir) ListActive(context.Context, directory.UserType) ([]directory.UserRef, error) {
	return nil, nil
}

type fakeSMTP struct {
	sent    []mail.Message
	sendErr error
}

func (f *fakeSMTP) Send(_ context.Context, msg mail.Message) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, msg)
	return nil
}

func newPasswordUsecase(t *testing.T, repo *fakeMailerRepo, dir *fakeDir, smtp *fakeSMTP) *Usecase {
	t.Helper()

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	return NewMailer(Dependency{
		RepoDB: repo,
		Config: &stubConfig{
			strings: map[string]string{"app.web": "https://app.collegeprep.io"},
			hours:   map[string]int{"modules.mailer.reset_token_ttl_hours": 24},
		},
		UID:        &seqNumberID{},
		OID:        &seqStringID{},
		Clock:      fixedClock{now: time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)},
		Validator:  v,
		RepoMail:   smtp,
		Directory:  dir,
		SHA:        hash.NewSHA256(),
		Bcrypt:     hash.NewBcrypt(4, ""),
		Instrument: instrument.NewNoop(),
	})
}

func errCode(t *testing.T, err error) goerror.Code {
	t.Helper()

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	return gerr.Code()
}

func TestPasswordForgot(t *testing.T) {
	repo := newFakeMailerRepo()
	smtp := &fakeSMTP{}
	dir := &fakeDir{ref: &directory.UserRef{ID: 5, Type: directory.UserTypeStudent, Email: "ada@example.com", Name: "Ada"}}
	s := newPasswordUsecase(t, repo, dir, smtp)

	err := s.PasswordForgot(context.Background(), PasswordForgotInput{
		Email:     "Ada@Example.com",
		IPAddress: "203.0.113.9",
		UserAgent: "Mozilla/5.0",
	})
	require.NoError(t, err)

	require.NotNil(t, repo.createdToken)
	assert.Equal(t, "ada@example.com", repo.createdToken.Email, "email is normalized")
	assert.Len(t, repo.createdToken.TokenHash, 64, "only the digest is stored")
	assert.Equal(t, time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC), repo.createdToken.ExpiresAt)
	assert.Equal(t, "203.0.113.9", repo.createdToken.IPAddress)
	assert.Equal(t, "Mozilla/5.0", repo.createdToken.UserAgent)

	require.Len(t, smtp.sent, 1)
	assert.Contains(t, smtp.sent[0].HTMLBody, "https://app.collegeprep.io/reset-password?token=")
	assert.NotContains(t, smtp.sent[0].HTMLBody, repo.createdToken.TokenHash, "the digest never leaves the database")
}

func TestPasswordForgotRateLimited(t *testing.T) {
	repo := newFakeMailerRepo()
	repo.recentTokens = 3
	s := newPasswordUsecase(t, repo, &fakeDir{}, &fakeSMTP{})

	err := s.PasswordForgot(context.Background(), PasswordForgotInput{Email: "ada@example.com"})
	require.Error(t, err)
	assert.Equal(t, goerror.CodeTooManyRequest, errCode(t, err))
	assert.Nil(t, repo.createdToken)
}

func TestPasswordForgotUnknownEmail(t *testing.T) {
	repo := newFakeMailerRepo()
	smtp := &fakeSMTP{}
	s := newPasswordUsecase(t, repo, &fakeDir{}, smtp)

	// anti-enumeration: an unknown address gets the same nil response
	err := s.PasswordForgot(context.Background(), PasswordForgotInput{Email: "nobody@example.com"})
	require.NoError(t, err)
	assert.Nil(t, repo.createdToken)
	assert.Empty(t, smtp.sent)
}

func TestPasswordForgotInvalidEmail(t *testing.T) {
	s := newPasswordUsecase(t, newFakeMailerRepo(), &fakeDir{}, &fakeSMTP{})

	err := s.PasswordForgot(context.Background(), PasswordForgotInput{Email: "not-an-email"})
	assert.Error(t, err)
}

func resetFixture(t *testing.T, repo *fakeMailerRepo, rawToken string) {
	t.Helper()

	digest, err := hash.NewSHA256().Hash(rawToken)
	require.NoError(t, err)
	repo.validToken = &entity.PasswordResetToken{
		ID:        9,
		Email:     "ada@example.com",
		TokenHash: string(digest),
	}
}

func TestPasswordReset(t *testing.T) {
	repo := newFakeMailerRepo()
	resetFixture(t, repo, "raw-token")

	oldHash, err := hash.NewBcrypt(4, "").Hash("old-password")
	require.NoError(t, err)
	repo.passwordHash = string(oldHash)

	dir := &fakeDir{ref: &directory.UserRef{ID: 5, Type: directory.UserTypeStudent, Email: "ada@example.com", Name: "Ada"}}
	smtp := &fakeSMTP{}
	s := newPasswordUsecase(t, repo, dir, smtp)

	err = s.PasswordReset(context.Background(), PasswordResetInput{Token: "raw-token", NewPassword: "brand-new-password"})
	require.NoError(t, err)

	assert.True(t, repo.consumed)
	require.NotEmpty(t, repo.updatedPassword)
	assert.True(t, strings.HasPrefix(repo.updatedPassword, "$2"), "bcrypt hash is stored")
	assert.True(t, hash.NewBcrypt(4, "").Verify(repo.updatedPassword, "brand-new-password"))

	require.Len(t, smtp.sent, 1, "the change confirmation goes out")
	assert.Equal(t, "Your password was changed", smtp.sent[0].Subject)
	assert.Equal(t, []string{"ada@example.com"}, smtp.sent[0].To)
}

func TestPasswordResetConfirmationFailureStillSucceeds(t *testing.T) {
	repo := newFakeMailerRepo()
	resetFixture(t, repo, "raw-token")

	dir := &fakeDir{ref: &directory.UserRef{ID: 5, Type: directory.UserTypeStudent, Email: "ada@example.com", Name: "Ada"}}
	smtp := &fakeSMTP{sendErr: fmt.Errorf("smtp down")}
	s := newPasswordUsecase(t, repo, dir, smtp)

	err := s.PasswordReset(context.Background(), PasswordResetInput{Token: "raw-token", NewPassword: "brand-new-password"})
	require.NoError(t, err, "a lost confirmation does not undo the change")
	assert.NotEmpty(t, repo.updatedPassword)
}

func TestPasswordResetInvalidToken(t *testing.T) {
	repo := newFakeMailerRepo()
	resetFixture(t, repo, "raw-token")
	s := newPasswordUsecase(t, repo, &fakeDir{}, &fakeSMTP{})

	err := s.PasswordReset(context.Background(), PasswordResetInput{Token: "wrong-token", NewPassword: "brand-new-password"})
	require.Error(t, err)
	assert.Equal(t, goerror.CodeUnauthorized, errCode(t, err))
}

func TestPasswordResetConsumedToken(t *testing.T) {
	repo := newFakeMailerRepo()
	resetFixture(t, repo, "raw-token")
	repo.consumeOK = false

	dir := &fakeDir{ref: &directory.UserRef{ID: 5, Type: directory.UserTypeStudent, Email: "ada@example.com"}}
	s := newPasswordUsecase(t, repo, dir, &fakeSMTP{})

	err := s.PasswordReset(context.Background(), PasswordResetInput{Token: "raw-token", NewPassword: "brand-new-password"})
	require.Error(t, err)
	assert.Equal(t, goerror.CodeUnauthorized, errCode(t, err), "a consumed token fails like a bogus one")
	assert.Empty(t, repo.updatedPassword)
}

func TestPasswordResetSamePassword(t *testing.T) {
	repo := newFakeMailerRepo()
	resetFixture(t, repo, "raw-token")

	currentHash, err := hash.NewBcrypt(4, "").Hash("same-password-123")
	require.NoError(t, err)
	repo.passwordHash = string(currentHash)

	dir := &fakeDir{ref: &directory.UserRef{ID: 5, Type: directory.UserTypeStudent, Email: "ada@example.com"}}
	s := newPasswordUsecase(t, repo, dir, &fakeSMTP{})

	err = s.PasswordReset(context.Background(), PasswordResetInput{Token: "raw-token", NewPassword: "same-password-123"})
	require.Error(t, err)
	assert.Equal(t, goerror.CodeInvalidInput, errCode(t, err))
	assert.False(t, repo.consumed, "the token survives a rejected attempt")
}

func TestPasswordResetShortPassword(t *testing.T) {
	repo := newFakeMailerRepo()
	resetFixture(t, repo, "raw-token")
	s := newPasswordUsecase(t, repo, &fakeDir{}, &fakeSMTP{})

	err := s.PasswordReset(context.Background(), PasswordResetInput{Token: "raw-token", NewPassword: "short"})
	assert.Error(t, err)
}
