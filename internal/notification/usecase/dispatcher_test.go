package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/collegeprep/notifier/internal/directory"
	"github.com/collegeprep/notifier/internal/notification/entity"
	"github.com/collegeprep/notifier/internal/pkg/clock"
	"github.com/collegeprep/notifier/internal/pkg/goerror"
	"github.com/collegeprep/notifier/internal/pkg/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	preference *entity.Preference
	optedOut   bool

	logs        []entity.CreateDeliveryLog
	logStatuses map[int64]entity.DeliveryStatus
	channelSent []entity.ChannelSent
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{logStatuses: map[int64]entity.DeliveryStatus{}}
}

func (f *fakeRepo) CreateNotification(context.Context, entity.CreateNotification) error {
	return nil
}

func (f *fakeRepo) ListNotifications(context.Context, int64, directory.UserType, entity.ListFilter) ([]*entity.Notification, error) {
	return nil, nil
}

func (f *fakeRepo) CountUnreadNotifications(context.Context, int64, directory.UserType) (int64, error) {
	return 0, nil
}

func (f *fakeRepo) MarkNotificationRead(context.Context, int64, directory.UserType, int64) (bool, error) {
	return false, nil
}

func (f *fakeRepo) MarkAllNotificationsRead(context.Context, int64, directory.UserType) (int64, error) {
	return 0, nil
}

func (f *fakeRepo) SoftDeleteNotification(context.Context, int64, directory.UserType, int64) (bool, error) {
	return false, nil
}

func (f *fakeRepo) MarkChannelSent(_ context.Context, cs entity.ChannelSent) error {
	f.channelSent = append(f.channelSent, cs)
	return nil
}

func (f *fakeRepo) CreateDeliveryLog(_ context.Context, dl entity.CreateDeliveryLog) (int64, error) {
	f.logs = append(f.logs, dl)
	logID := int64(len(f.logs))
	f.logStatuses[logID] = dl.Status
	return logID, nil
}

func (f *fakeRepo) UpdateDeliveryLog(_ context.Context, logID int64, status entity.DeliveryStatus, _ string, _ *time.Time) error {
	f.logStatuses[logID] = status
	return nil
}

func (f *fakeRepo) GetTemplateByType(context.Context, entity.Type) (*entity.Template, error) {
	return nil, goerror.ErrNotFound
}

func (f *fakeRepo) ListTemplates(context.Context) ([]*entity.Template, error) {
	return nil, nil
}

func (f *fakeRepo) UpdateTemplate(context.Context, entity.Type, entity.TemplatePatch) (bool, error) {
	return false, nil
}

func (f *fakeRepo) GetPreference(context.Context, int64, directory.UserType, entity.Type) (*entity.Preference, error) {
	if f.preference == nil {
		return nil, goerror.ErrNotFound
	}
	return f.preference, nil
}

func (f *fakeRepo) ListPreferences(context.Context, int64, directory.UserType) ([]*entity.Preference, error) {
	return nil, nil
}

func (f *fakeRepo) UpsertPreference(context.Context, int64, directory.UserType, entity.Type, entity.PreferencePatch) (*entity.Preference, error) {
	return nil, nil
}

func (f *fakeRepo) IsEmailOptedOut(context.Context, string) (bool, error) {
	return f.optedOut, nil
}

// channelLogs returns the audit rows written for one channel.
func (f *fakeRepo) channelLogs(ch entity.Channel) []entity.CreateDeliveryLog {
	var out []entity.CreateDeliveryLog
	for _, dl := range f.logs {
		if dl.Channel == ch {
			out = append(out, dl)
		}
	}
	return out
}

type fakeDirectory struct {
	ref        *directory.UserRef
	resolveErr error
}

func (f *fakeDirectory) Resolve(context.Context, directory.UserType, int64) (*directory.UserRef, error) {
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	return f.ref, nil
}

func (f *fakeDirectory) ResolveByEmail(context.Context, directory.UserType, string) (*directory.UserRef, error) {
	return f.ref, nil
}

func (f *fakeDirectory) FindByEmail(context.Context, string) (*directory.UserRef, error) {
	if f.ref == nil {
		return nil, goerror.ErrNotFound
	}
	return f.ref, nil
}

func (f *fakeDirectory) ListCourseStudents(context.Context, int64) ([]directory.UserRef, error) {
	return nil, nil
}

func (f *fakeDirectory) ListActive(context.Context, directory.UserType) ([]directory.UserRef, error) {
	return nil, nil
}

type fakeMailer struct {
	sent    []mail.Message
	sendErr error
}

func (f *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, msg)
	return nil
}

func newDispatcherUsecase(repo *fakeRepo, dir *fakeDirectory, mailer *fakeMailer) *Usecase {
	return &Usecase{
		repoDB:    repo,
		clock:     clock.New(),
		repoMail:  mailer,
		directory: dir,
	}
}

func studentRef() *directory.UserRef {
	return &directory.UserRef{
		ID:    7,
		Type:  directory.UserTypeStudent,
		Email: "student@example.com",
		Name:  "Ada Student",
		Phone: "+15550001111",
	}
}

func TestShouldAttempt(t *testing.T) {
	pref := &entity.Preference{
		InAppEnabled: true,
		EmailEnabled: false,
		SMSEnabled:   true,
		PushEnabled:  false,
	}

	// preference row governs, priority is irrelevant
	assert.False(t, shouldAttempt(pref, entity.ChannelEmail, entity.PriorityUrgent))
	assert.True(t, shouldAttempt(pref, entity.ChannelSMS, entity.PriorityLow))
	assert.False(t, shouldAttempt(pref, entity.ChannelPush, entity.PriorityUrgent))

	// absent row: email only for high and urgent
	assert.False(t, shouldAttempt(nil, entity.ChannelEmail, entity.PriorityLow))
	assert.False(t, shouldAttempt(nil, entity.ChannelEmail, entity.PriorityMedium))
	assert.True(t, shouldAttempt(nil, entity.ChannelEmail, entity.PriorityHigh))
	assert.True(t, shouldAttempt(nil, entity.ChannelEmail, entity.PriorityUrgent))

	// absent row: sms and push never fire, whatever the priority
	assert.False(t, shouldAttempt(nil, entity.ChannelSMS, entity.PriorityUrgent))
	assert.False(t, shouldAttempt(nil, entity.ChannelPush, entity.PriorityUrgent))
}

func TestDeliverHighPriorityDefaultsToEmail(t *testing.T) {
	repo := newFakeRepo()
	mailer := &fakeMailer{}
	s := newDispatcherUsecase(repo, &fakeDirectory{ref: studentRef()}, mailer)

	n := &entity.Notification{
		ID:       100,
		UserID:   7,
		UserType: directory.UserTypeStudent,
		Type:     entity.TypeAttendanceWarning,
		Title:    "Low attendance",
		Message:  "Your attendance dropped below the threshold.",
		Priority: entity.PriorityHigh,
	}

	attempted := s.deliver(context.Background(), n, deliverContent{})

	assert.Equal(t, []entity.Channel{entity.ChannelInApp, entity.ChannelEmail}, attempted)
	assert.Equal(t, "in_app,email", joinChannels(attempted))

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"student@example.com"}, mailer.sent[0].To)
	assert.Equal(t, "Low attendance", mailer.sent[0].Subject)

	emailLogs := repo.channelLogs(entity.ChannelEmail)
	require.Len(t, emailLogs, 1)
	assert.Equal(t, "smtp", emailLogs[0].Provider)
	assert.Equal(t, entity.DeliveryStatusSent, repo.logStatuses[2])
}

func TestDeliverMediumPriorityInAppOnly(t *testing.T) {
	repo := newFakeRepo()
	mailer := &fakeMailer{}
	s := newDispatcherUsecase(repo, &fakeDirectory{ref: studentRef()}, mailer)

	n := &entity.Notification{
		ID:       101,
		UserID:   7,
		UserType: directory.UserTypeStudent,
		Type:     entity.TypeAnnouncement,
		Title:    "New announcement",
		Priority: entity.PriorityMedium,
	}

	attempted := s.deliver(context.Background(), n, deliverContent{})

	assert.Equal(t, []entity.Channel{entity.ChannelInApp}, attempted)
	assert.Empty(t, mailer.sent)
	assert.Empty(t, repo.channelLogs(entity.ChannelEmail))
}

func TestDeliverPreferenceRowGoverns(t *testing.T) {
	repo := newFakeRepo()
	repo.preference = &entity.Preference{
		InAppEnabled: true,
		EmailEnabled: false,
		SMSEnabled:   true,
		PushEnabled:  true,
	}
	mailer := &fakeMailer{}
	s := newDispatcherUsecase(repo, &fakeDirectory{ref: studentRef()}, mailer)

	n := &entity.Notification{
		ID:       102,
		UserID:   7,
		UserType: directory.UserTypeStudent,
		Type:     entity.TypeGradePosted,
		Title:    "Grade posted",
		Priority: entity.PriorityUrgent,
	}

	attempted := s.deliver(context.Background(), n, deliverContent{SMSText: "Grade posted for Quiz 2"})

	assert.Equal(t, []entity.Channel{entity.ChannelInApp, entity.ChannelSMS, entity.ChannelPush}, attempted)
	assert.Empty(t, mailer.sent, "preference row disables email even for urgent")
	assert.Len(t, repo.channelLogs(entity.ChannelSMS), 1)
	assert.Len(t, repo.channelLogs(entity.ChannelPush), 1)
}

func TestDeliverEmailFailureDoesNotPropagate(t *testing.T) {
	repo := newFakeRepo()
	mailer := &fakeMailer{sendErr: errors.New("smtp refused")}
	s := newDispatcherUsecase(repo, &fakeDirectory{ref: studentRef()}, mailer)

	n := &entity.Notification{
		ID:       103,
		UserID:   7,
		UserType: directory.UserTypeStudent,
		Type:     entity.TypePaymentOverdue,
		Title:    "Payment overdue",
		Priority: entity.PriorityUrgent,
	}

	attempted := s.deliver(context.Background(), n, deliverContent{})

	// the attempt is still recorded; only its outcome is failed
	assert.Equal(t, []entity.Channel{entity.ChannelInApp, entity.ChannelEmail}, attempted)
	assert.Equal(t, entity.DeliveryStatusFailed, repo.logStatuses[2])

	// the channel flag on the ledger is not set for the failed channel
	for _, cs := range repo.channelSent {
		assert.NotEqual(t, entity.ChannelEmail, cs.Channel)
	}
}

func TestDeliverOptedOutSkipsEmail(t *testing.T) {
	repo := newFakeRepo()
	repo.optedOut = true
	mailer := &fakeMailer{}
	s := newDispatcherUsecase(repo, &fakeDirectory{ref: studentRef()}, mailer)

	n := &entity.Notification{
		ID:       104,
		UserID:   7,
		UserType: directory.UserTypeStudent,
		Type:     entity.TypeAssignmentDueSoon,
		Title:    "Due soon",
		Priority: entity.PriorityHigh,
	}

	attempted := s.deliver(context.Background(), n, deliverContent{})

	assert.Contains(t, attempted, entity.ChannelEmail)
	assert.Empty(t, mailer.sent)
	assert.Empty(t, repo.channelLogs(entity.ChannelEmail), "no audit row before the opt-out gate")
}

func TestDeliverUnresolvableRecipient(t *testing.T) {
	repo := newFakeRepo()
	mailer := &fakeMailer{}
	s := newDispatcherUsecase(repo, &fakeDirectory{resolveErr: goerror.ErrNotFound}, mailer)

	n := &entity.Notification{
		ID:       105,
		UserID:   999,
		UserType: directory.UserTypeStudent,
		Type:     entity.TypeAnnouncement,
		Title:    "Hello",
		Priority: entity.PriorityUrgent,
	}

	attempted := s.deliver(context.Background(), n, deliverContent{})

	assert.Equal(t, []entity.Channel{entity.ChannelInApp}, attempted)
	assert.Empty(t, mailer.sent)
}

func TestJoinChannels(t *testing.T) {
	assert.Equal(t, "in_app", joinChannels([]entity.Channel{entity.ChannelInApp}))
	assert.Equal(t, "in_app,email,sms", joinChannels([]entity.Channel{entity.ChannelInApp, entity.ChannelEmail, entity.ChannelSMS}))
	assert.Equal(t, "", joinChannels(nil))
}
