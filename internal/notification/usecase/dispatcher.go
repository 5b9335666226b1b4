package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/collegeprep/notifier/internal/directory"
	"github.com/collegeprep/notifier/internal/notification/entity"
	"github.com/collegeprep/notifier/internal/pkg/goerror"
	"github.com/collegeprep/notifier/internal/pkg/mail"
	"github.com/sethvargo/go-retry"
)

// sendTimeout bounds every external channel call so a hung provider cannot
// stall delivery of the remaining channels.
const sendTimeout = 30 * time.Second

// deliverContent carries pre-rendered per-channel content. Empty fields fall
// back to the notification's title and message.
type deliverContent struct {
	EmailSubject string
	EmailBody    string
	SMSText      string
}

// deliver decides and executes channel delivery for one notification.
//
// In-app is always recorded. The external channels follow the preference row
// when one exists; with no row, email is attempted only for high and urgent
// priorities, and sms/push never. Every attempt writes its audit row before
// the external call, and a failure on one channel never prevents the others.
func (s *Usecase) deliver(ctx context.Context, n *entity.Notification, content deliverContent) []entity.Channel {
	attempted := []entity.Channel{entity.ChannelInApp}
	s.recordInApp(ctx, n)

	ref, err := s.directory.Resolve(ctx, n.UserType, n.UserID)
	if err != nil {
		slog.WarnContext(ctx, "recipient not resolvable, skipping external channels",
			"user_id", n.UserID, "user_type", n.UserType.String(), "error", err)
		return attempted
	}

	pref, err := s.repoDB.GetPreference(ctx, n.UserID, n.UserType, n.Type)
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get preference, using priority defaults",
			"user_id", n.UserID, "notification_type", n.Type.String(), "error", err)
		pref = nil
	}

	if shouldAttempt(pref, entity.ChannelEmail, n.Priority) {
		attempted = append(attempted, entity.ChannelEmail)
		s.attemptEmail(ctx, n, ref, content)
	}

	if shouldAttempt(pref, entity.ChannelSMS, n.Priority) {
		attempted = append(attempted, entity.ChannelSMS)
		s.attemptSMS(ctx, n, ref, content)
	}

	if shouldAttempt(pref, entity.ChannelPush, n.Priority) {
		attempted = append(attempted, entity.ChannelPush)
		s.attemptPush(ctx, n, ref)
	}

	return attempted
}

// shouldAttempt applies the preference row when present; an absent row means
// priority-based defaults: email for high/urgent only, never sms or push.
func shouldAttempt(pref *entity.Preference, ch entity.Channel, priority entity.Priority) bool {
	if pref != nil {
		switch ch {
		case entity.ChannelEmail:
			return pref.EmailEnabled
		case entity.ChannelSMS:
			return pref.SMSEnabled
		case entity.ChannelPush:
			return pref.PushEnabled
		default:
			return pref.InAppEnabled
		}
	}

	return ch == entity.ChannelEmail &&
		(priority == entity.PriorityHigh || priority == entity.PriorityUrgent)
}

// recordInApp logs in-app delivery. There is no external call; the write to
// the ledger itself is the delivery.
func (s *Usecase) recordInApp(ctx context.Context, n *entity.Notification) {
	logID, err := s.repoDB.CreateDeliveryLog(ctx, entity.CreateDeliveryLog{
		NotificationID: n.ID,
		Channel:        entity.ChannelInApp,
		Status:         entity.DeliveryStatusPending,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create in_app delivery log", "notification_id", n.ID, "error", err)
		return
	}

	now := s.clock.Now().UTC()
	if err := s.repoDB.UpdateDeliveryLog(ctx, logID, entity.DeliveryStatusSent, "", &now); err != nil {
		slog.ErrorContext(ctx, "failed to repo finalize in_app delivery log", "log_id", logID, "error", err)
	}
	if err := s.repoDB.MarkChannelSent(ctx, entity.ChannelSent{NotificationID: n.ID, Channel: entity.ChannelInApp, SentAt: now, SentVia: entity.ChannelInApp.String()}); err != nil {
		slog.ErrorContext(ctx, "failed to repo mark in_app sent", "notification_id", n.ID, "error", err)
	}
}

func (s *Usecase) attemptEmail(ctx context.Context, n *entity.Notification, ref *directory.UserRef, content deliverContent) {
	optedOut, err := s.repoDB.IsEmailOptedOut(ctx, ref.Email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo check email opt-out", "email", ref.Email, "error", err)
	}
	if optedOut {
		slog.InfoContext(ctx, "recipient opted out of email, skipping", "notification_id", n.ID, "user_id", n.UserID)
		return
	}

	logID, err := s.repoDB.CreateDeliveryLog(ctx, entity.CreateDeliveryLog{
		NotificationID: n.ID,
		Channel:        entity.ChannelEmail,
		Status:         entity.DeliveryStatusPending,
		RecipientEmail: ref.Email,
		Provider:       "smtp",
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create email delivery log", "notification_id", n.ID, "error", err)
		return
	}

	subject := content.EmailSubject
	if subject == "" {
		subject = n.Title
	}
	body := content.EmailBody
	if body == "" {
		body = n.Message
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	backoff := retry.WithMaxRetries(2, retry.NewFibonacci(500*time.Millisecond))
	sendErr := retry.Do(sendCtx, backoff, func(ctx context.Context) error {
		if err := s.repoMail.Send(ctx, mail.Message{
			To:       []string{ref.Email},
			Subject:  subject,
			HTMLBody: body,
		}); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})

	s.finishAttempt(ctx, n, logID, entity.ChannelEmail, sendErr)
}

// attemptSMS records the attempt and hands the text to the application log;
// a real gateway slots in behind the same audit trail.
func (s *Usecase) attemptSMS(ctx context.Context, n *entity.Notification, ref *directory.UserRef, content deliverContent) {
	logID, err := s.repoDB.CreateDeliveryLog(ctx, entity.CreateDeliveryLog{
		NotificationID: n.ID,
		Channel:        entity.ChannelSMS,
		Status:         entity.DeliveryStatusPending,
		RecipientPhone: ref.Phone,
		Provider:       "log",
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create sms delivery log", "notification_id", n.ID, "error", err)
		return
	}

	text := content.SMSText
	if text == "" {
		text = n.Title
	}
	slog.InfoContext(ctx, "sms delivery", "notification_id", n.ID, "phone", ref.Phone, "text", text)

	s.finishAttempt(ctx, n, logID, entity.ChannelSMS, nil)
}

// attemptPush mirrors attemptSMS until a push provider is wired.
func (s *Usecase) attemptPush(ctx context.Context, n *entity.Notification, ref *directory.UserRef) {
	logID, err := s.repoDB.CreateDeliveryLog(ctx, entity.CreateDeliveryLog{
		NotificationID: n.ID,
		Channel:        entity.ChannelPush,
		Status:         entity.DeliveryStatusPending,
		Provider:       "log",
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create push delivery log", "notification_id", n.ID, "error", err)
		return
	}

	slog.InfoContext(ctx, "push delivery", "notification_id", n.ID, "user_id", ref.ID, "title", n.Title)

	s.finishAttempt(ctx, n, logID, entity.ChannelPush, nil)
}

// finishAttempt closes the audit row and flips the ledger's channel flag.
// Failures are recovered here: they are logged and leave the audit trail in
// a failed state, but never propagate to the creator.
func (s *Usecase) finishAttempt(ctx context.Context, n *entity.Notification, logID int64, ch entity.Channel, sendErr error) {
	now := s.clock.Now().UTC()

	if sendErr != nil {
		if err := s.repoDB.UpdateDeliveryLog(ctx, logID, entity.DeliveryStatusFailed, sendErr.Error(), nil); err != nil {
			slog.ErrorContext(ctx, "failed to repo finalize failed delivery log", "log_id", logID, "error", err)
		}
		slog.ErrorContext(ctx, "channel delivery failed",
			"notification_id", n.ID, "channel", ch.String(), "error", sendErr)
		return
	}

	if err := s.repoDB.UpdateDeliveryLog(ctx, logID, entity.DeliveryStatusSent, "", &now); err != nil {
		slog.ErrorContext(ctx, "failed to repo finalize sent delivery log", "log_id", logID, "error", err)
	}
	if err := s.repoDB.MarkChannelSent(ctx, entity.ChannelSent{NotificationID: n.ID, Channel: ch, SentAt: now, SentVia: ch.String()}); err != nil {
		slog.ErrorContext(ctx, "failed to repo mark channel sent", "notification_id", n.ID, "channel", ch.String(), "error", err)
	}
}

func joinChannels(channels []entity.Channel) string {
	parts := make([]string, 0, len(channels))
	for _, ch := range channels {
		parts = append(parts, ch.String())
	}
	return strings.Join(parts, ",")
}
